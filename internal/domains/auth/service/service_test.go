package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"charter/config"
	"charter/infras/jwt"
	jwtMocks "charter/infras/jwt/mocks"
	"charter/infras/otel/mocks"
	"charter/internal/domains/auth/model/dto"
	"charter/internal/domains/auth/service"
	userMocks "charter/internal/domains/user/mocks"
	userModel "charter/internal/domains/user/model"
	"charter/shared/constant"
	gDto "charter/shared/dto"
	"charter/shared/failure"
	"charter/shared/password"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	users  *userMocks.MockUser
	tokens *jwtMocks.MockJWT
	svc    service.Auth
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		users:  userMocks.NewMockUser(ctrl),
		tokens: jwtMocks.NewMockJWT(ctrl),
	}
	f.svc = service.New(f.users, &config.Config{}, mocks.NewOtel(), f.tokens)

	return f
}

func hashed(t *testing.T, plain string) string {
	t.Helper()

	h, err := password.Hash(plain)
	require.NoError(t, err)

	return h
}

func TestAuthService_Login(t *testing.T) {
	pilot := userModel.User{
		ID:       "user-7",
		Email:    "pilot@charter.test",
		Password: hashed(t, "correct-horse"),
		Role:     constant.RolePilot,
		Active:   true,
	}
	inactive := pilot
	inactive.Active = false

	pair := &jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", ExpiresIn: 900}

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func(f fixture)
		wantRole  string
		wantErr   error
	}{
		{
			name: "issues tokens and stamps last login",
			req:  dto.LoginRequest{Email: "Pilot@Charter.test", Password: "correct-horse"},
			setupMock: func(f fixture) {
				f.users.EXPECT().GetByEmail(gomock.Any(), "Pilot@Charter.test").Return(pilot, nil)
				f.tokens.EXPECT().GenerateTokenPair(gomock.Any(), "user-7", "pilot@charter.test", constant.RolePilot).Return(pair, nil)
				f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Contains(t, fields, userModel.FieldLastLoginAt)
						assert.Equal(t, "user-7", fields[constant.FieldModifiedBy])

						return nil
					})
			},
			wantRole: constant.RolePilot,
		},
		{
			name: "last login failure does not block the login",
			req:  dto.LoginRequest{Email: "pilot@charter.test", Password: "correct-horse"},
			setupMock: func(f fixture) {
				f.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(pilot, nil)
				f.tokens.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(pair, nil)
				f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("timeout"))
			},
			wantRole: constant.RolePilot,
		},
		{
			name: "unknown email",
			req:  dto.LoginRequest{Email: "nobody@charter.test", Password: "whatever"},
			setupMock: func(f fixture) {
				f.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantErr: userModel.ErrInvalidCredentials,
		},
		{
			name: "wrong password looks the same as unknown email",
			req:  dto.LoginRequest{Email: "pilot@charter.test", Password: "battery-staple"},
			setupMock: func(f fixture) {
				f.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(pilot, nil)
			},
			wantErr: userModel.ErrInvalidCredentials,
		},
		{
			name: "deactivated account",
			req:  dto.LoginRequest{Email: "pilot@charter.test", Password: "correct-horse"},
			setupMock: func(f fixture) {
				f.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(inactive, nil)
			},
			wantErr: userModel.ErrDeactivated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Login(context.Background(), tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "access", res.AccessToken)
			assert.Equal(t, tt.wantRole, res.Role)
		})
	}

	t.Run("lookup error is not reported as bad credentials", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(userModel.User{}, errors.New("connection refused"))

		_, err := f.svc.Login(context.Background(), dto.LoginRequest{Email: "pilot@charter.test", Password: "x"})

		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "creates a customer",
			setupMock: func(f fixture) {
				f.users.EXPECT().EmailTaken(gomock.Any(), "guest@charter.test").Return(false, nil)
				f.users.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, u userModel.User) error {
						assert.Equal(t, constant.RoleCustomer, u.Role)
						assert.NoError(t, password.Verify("long-enough", u.Password))

						return nil
					})
			},
		},
		{
			name: "email already taken",
			setupMock: func(f fixture) {
				f.users.EXPECT().EmailTaken(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "lost the insert race",
			setupMock: func(f fixture) {
				f.users.EXPECT().EmailTaken(gomock.Any(), gomock.Any()).Return(false, nil)
				f.users.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "database down",
			setupMock: func(f fixture) {
				f.users.EXPECT().EmailTaken(gomock.Any(), gomock.Any()).Return(false, errors.New("connection refused"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Register(context.Background(), dto.RegisterRequest{Email: "guest@charter.test", Password: "long-enough"})

			if tt.wantCode == 0 {
				assert.NoError(t, err)

				return
			}

			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("rotates the pair", func(t *testing.T) {
		f := newFixture(t)
		f.tokens.EXPECT().RefreshTokens(gomock.Any(), "refresh").
			Return(&jwt.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil)

		res, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})

		require.NoError(t, err)
		assert.Equal(t, "new-access", res.AccessToken)
		assert.Empty(t, res.Role)
	})

	t.Run("invalid token is unauthorized", func(t *testing.T) {
		f := newFixture(t)
		f.tokens.EXPECT().RefreshTokens(gomock.Any(), gomock.Any()).Return(nil, jwt.ErrExpiredToken)

		_, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "old"})

		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ops := userModel.User{ID: "user-3", Password: hashed(t, "old-password"), Active: true}

	tests := []struct {
		name      string
		req       dto.ChangePasswordRequest
		setupMock func(f fixture)
		wantErr   error
	}{
		{
			name: "stores the new hash",
			req:  dto.ChangePasswordRequest{CurrentPassword: "old-password", NewPassword: "new-password"},
			setupMock: func(f fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ops, nil)
				f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						stored, ok := fields[userModel.FieldPassword].(string)
						require.True(t, ok)
						assert.NoError(t, password.Verify("new-password", stored))

						return nil
					})
			},
		},
		{
			name: "wrong current password",
			req:  dto.ChangePasswordRequest{CurrentPassword: "guess", NewPassword: "new-password"},
			setupMock: func(f fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ops, nil)
			},
			wantErr: userModel.ErrWrongPassword,
		},
		{
			name: "user vanished",
			req:  dto.ChangePasswordRequest{CurrentPassword: "old-password", NewPassword: "new-password"},
			setupMock: func(f fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantErr: userModel.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.ChangePassword(context.Background(), tt.req, "user-3")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
		})
	}
}
