package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"charter/config"
	"charter/infras/otel/mocks"
	cacheMocks "charter/shared/cache/mocks"
	"charter/transport/http/middleware"
)

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name          string
		enabled       bool
		internal      bool
		setupMock     func(m *cacheMocks.MockRedisCache)
		wantCode      int
		wantRemaining string
	}{
		{
			name:     "disabled",
			wantCode: http.StatusOK,
		},
		{
			name:     "internal caller is exempt",
			enabled:  true,
			internal: true,
			wantCode: http.StatusOK,
		},
		{
			name:    "within the window",
			enabled: true,
			setupMock: func(m *cacheMocks.MockRedisCache) {
				m.EXPECT().Incr(gomock.Any(), "limiter:203.0.113.7", 60).Return(int64(2), nil)
			},
			wantCode:      http.StatusOK,
			wantRemaining: "1",
		},
		{
			name:    "over the limit",
			enabled: true,
			setupMock: func(m *cacheMocks.MockRedisCache) {
				m.EXPECT().Incr(gomock.Any(), "limiter:203.0.113.7", 60).Return(int64(4), nil)
			},
			wantCode:      http.StatusTooManyRequests,
			wantRemaining: "0",
		},
		{
			name:    "redis down lets traffic through",
			enabled: true,
			setupMock: func(m *cacheMocks.MockRedisCache) {
				m.EXPECT().Incr(gomock.Any(), gomock.Any(), 60).Return(int64(0), errors.New("connection refused"))
			},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			cache := cacheMocks.NewMockRedisCache(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(cache)
			}

			cfg := &config.Config{}
			cfg.App.RateLimiter.Enable = tt.enabled
			cfg.App.RateLimiter.MaxRequests = 3
			cfg.App.RateLimiter.WindowSeconds = 60

			limit := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, cache).RateLimit()
			handler := limit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/v1/routes", nil)
			req.RemoteAddr = "203.0.113.7:52110"

			if tt.internal {
				req = req.WithContext(context.WithValue(req.Context(), middleware.SkipAuthKey("skip"), true))
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantRemaining, rec.Header().Get("X-RateLimit-Remaining"))
		})
	}
}
