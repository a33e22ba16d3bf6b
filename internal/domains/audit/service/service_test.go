package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"charter/infras/otel/mocks"
	auditMocks "charter/internal/domains/audit/mocks"
	"charter/internal/domains/audit/model"
	"charter/internal/domains/audit/model/dto"
	"charter/internal/domains/audit/service"
	"charter/shared/constant"
	gDto "charter/shared/dto"
)

func TestAuditService_Log(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := auditMocks.NewMockAudit(ctrl)
	svc := service.New(mockRepo, mocks.NewOtel())

	entry := dto.Entry{
		Action:     "booking_created",
		EntityType: model.EntityBooking,
		EntityID:   "FSB-ABC123",
		Details:    map[string]any{"pax": 2},
	}

	tests := []struct {
		name      string
		tx        *sqlx.Tx
		setupMock func()
		wantErr   bool
	}{
		{
			name: "outside a transaction",
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, log model.AuditLog) error {
						assert.Equal(t, "ops-1", log.Actor)
						assert.Equal(t, "booking_created", log.Action)
						assert.JSONEq(t, `{"pax":2}`, string(log.Details))

						return nil
					})
			},
		},
		{
			name: "inside a transaction",
			tx:   &sqlx.Tx{},
			setupMock: func() {
				mockRepo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "repository error",
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "ops-1")
			err := svc.Log(ctx, tt.tx, entry)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuditService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := auditMocks.NewMockAudit(ctrl)
	svc := service.New(mockRepo, mocks.NewOtel())

	mockRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(1, nil)

	mockRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.AuditLog, error) {
			assert.Equal(t, model.FieldCreatedAt, params.SortBy)
			assert.Equal(t, gDto.SortDirDesc, params.SortDir)

			return []model.AuditLog{{ID: "a1", Action: "fx_rate_set"}}, nil
		})

	res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Len(t, res.AuditLogs, 1)
	assert.JSONEq(t, "{}", string(res.AuditLogs[0].Details))
}
