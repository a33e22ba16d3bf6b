package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"charter/config"
	"charter/infras/otel/mocks"
	userMocks "charter/internal/domains/user/mocks"
	"charter/internal/domains/user/model"
	"charter/internal/domains/user/model/dto"
	"charter/internal/domains/user/service"
	cacheMocks "charter/shared/cache/mocks"
	"charter/shared/constant"
	"charter/shared/failure"
)

func TestUserService_GetOrCreateCustomer(t *testing.T) {
	existing := model.User{ID: "user-1", Email: "guest@example.com", Role: constant.RoleCustomer, Active: true}

	tests := []struct {
		name      string
		setupMock func(repo *userMocks.MockUser)
		wantID    string
		wantNew   bool
		wantErr   bool
	}{
		{
			name: "returns the existing booker",
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(existing, nil)
			},
			wantID: "user-1",
		},
		{
			name: "creates a customer when missing",
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(model.User{}, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, user model.User) error {
						assert.Equal(t, "guest@example.com", user.Email)
						assert.Equal(t, constant.RoleCustomer, user.Role)
						assert.Equal(t, "Guest", *user.FullName)

						return nil
					})
			},
			wantNew: true,
		},
		{
			name: "lost the insert race",
			setupMock: func(repo *userMocks.MockUser) {
				gomock.InOrder(
					repo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(model.User{}, nil),
					repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation}),
					repo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(existing, nil),
				)
			},
			wantID: "user-1",
		},
		{
			name: "lookup fails",
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(model.User{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := userMocks.NewMockUser(ctrl)
			cache := cacheMocks.NewMockRedisCache(ctrl)
			cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

			tt.setupMock(repo)

			svc := service.New(repo, &config.Config{}, cache, mocks.NewOtel())

			user, err := svc.GetOrCreateCustomer(context.Background(), " Guest@Example.com", "Guest")

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)

			if tt.wantNew {
				assert.NotEmpty(t, user.ID)
			} else {
				assert.Equal(t, tt.wantID, user.ID)
			}
		})
	}
}

func TestUserService_Create(t *testing.T) {
	req := dto.CreateUserRequest{Email: "ops@charter.test", Password: "long-enough", Role: constant.RoleOps}

	tests := []struct {
		name      string
		setupMock func(repo *userMocks.MockUser)
		wantErr   error
	}{
		{
			name: "creates staff account",
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().EmailTaken(gomock.Any(), "ops@charter.test").Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, user model.User) error {
						assert.Equal(t, constant.RoleOps, user.Role)
						assert.NotEqual(t, "long-enough", user.Password)

						return nil
					})
			},
		},
		{
			name: "email taken",
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().EmailTaken(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr: model.ErrEmailTaken,
		},
		{
			name: "unique violation on insert",
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().EmailTaken(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantErr: model.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := userMocks.NewMockUser(ctrl)
			cache := cacheMocks.NewMockRedisCache(ctrl)
			cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

			tt.setupMock(repo)

			id, err := service.New(repo, &config.Config{}, cache, mocks.NewOtel()).Create(context.Background(), req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, id)
		})
	}
}

func TestUserService_Update(t *testing.T) {
	t.Run("empty request", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := service.New(userMocks.NewMockUser(ctrl), &config.Config{}, cacheMocks.NewMockRedisCache(ctrl), mocks.NewOtel())

		err := svc.Update(context.Background(), dto.UpdateUserRequest{}, "user-1")

		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("unknown user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := userMocks.NewMockUser(ctrl)
		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		svc := service.New(repo, &config.Config{}, cacheMocks.NewMockRedisCache(ctrl), mocks.NewOtel())

		err := svc.Deactivate(context.Background(), "missing")

		assert.Equal(t, 404, failure.GetCode(err))
	})
}
