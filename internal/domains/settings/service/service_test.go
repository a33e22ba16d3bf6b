package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"charter/config"
	"charter/infras/otel/mocks"
	auditMocks "charter/internal/domains/audit/service/mocks"
	settingsMocks "charter/internal/domains/settings/mocks"
	"charter/internal/domains/settings/model"
	"charter/internal/domains/settings/model/dto"
	"charter/internal/domains/settings/service"
	cacheMocks "charter/shared/cache/mocks"
	"charter/shared/failure"
	txMocks "charter/shared/repository/mocks"
)

type fixture struct {
	repo  *settingsMocks.MockSetting
	tx    *txMocks.MockTransactor
	audit *auditMocks.MockAudit
	cache *cacheMocks.MockRedisCache
	svc   service.Settings
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Booking.DefaultFXRate = 2450

	f := fixture{
		repo:  settingsMocks.NewMockSetting(ctrl),
		tx:    txMocks.NewMockTransactor(ctrl),
		audit: auditMocks.NewMockAudit(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}
	f.svc = service.New(f.repo, f.tx, f.audit, cfg, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func (f fixture) runTx() {
	f.tx.EXPECT().
		WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, *sqlx.Tx) error) error {
			return fn(ctx, nil)
		})
}

func TestSettingsService_GetFXRate(t *testing.T) {
	stored := 2600

	tests := []struct {
		name      string
		setupMock func(f fixture)
		want      int
		wantErr   bool
	}{
		{
			name: "cache hit",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), "settings:fx_rate", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						*value.(*int) = 2500

						return nil
					})
			},
			want: 2500,
		},
		{
			name: "stored value",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Setting{Key: model.KeyFXRate, IntValue: &stored}, nil)
			},
			want: 2600,
		},
		{
			name: "missing row falls back to default",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Setting{}, nil)
			},
			want: 2450,
		},
		{
			name: "repository error",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Setting{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			got, err := f.svc.GetFXRate(context.Background())

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSettingsService_SetFXRate(t *testing.T) {
	tests := []struct {
		name      string
		rate      int
		setupMock func(f fixture)
		wantCode  int
		wantErr   bool
	}{
		{
			name: "success",
			rate: 2700,
			setupMock: func(f fixture) {
				f.runTx()
				f.repo.EXPECT().UpsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, setting model.Setting) error {
						assert.Equal(t, model.KeyFXRate, setting.Key)
						assert.Equal(t, 2700, *setting.IntValue)

						return nil
					})
				f.audit.EXPECT().Log(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:      "non positive rate",
			rate:      0,
			setupMock: func(f fixture) {},
			wantCode:  400,
			wantErr:   true,
		},
		{
			name: "upsert error",
			rate: 2700,
			setupMock: func(f fixture) {
				f.runTx()
				f.repo.EXPECT().UpsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantCode: 500,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.SetFXRate(context.Background(), dto.SetFXRateRequest{Rate: tt.rate})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, dto.FXRateResponse{Base: "USD", Quote: "TZS", Rate: tt.rate}, res)
		})
	}
}

func TestSettingsService_GetTerms(t *testing.T) {
	stored := `{"version":"2026","docSha256":"abc","url":"fly/terms-2026.html"}`
	broken := `{not json`

	tests := []struct {
		name        string
		value       *string
		wantVersion string
	}{
		{name: "stored terms", value: &stored, wantVersion: "2026"},
		{name: "missing row uses defaults", wantVersion: "2025"},
		{name: "malformed value uses defaults", value: &broken, wantVersion: "2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Setting{Key: model.KeyTerms, StrValue: tt.value}, nil)

			res, err := f.svc.GetTerms(context.Background())

			assert.NoError(t, err)
			assert.Equal(t, tt.wantVersion, res.Version)
		})
	}
}

func TestSettingsService_SetTerms(t *testing.T) {
	f := newFixture(t)
	f.runTx()
	f.repo.EXPECT().UpsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, setting model.Setting) error {
			assert.JSONEq(t, `{"version":"2025","docSha256":"","url":"fly/new.html"}`, *setting.StrValue)

			return nil
		})
	f.audit.EXPECT().Log(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	res, err := f.svc.SetTerms(context.Background(), dto.SetTermsRequest{URL: "fly/new.html"})

	assert.NoError(t, err)
	assert.Equal(t, "2025", res.Version)
	assert.Equal(t, "fly/new.html", res.URL)
}
