package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"charter/config"
	"charter/infras/jwt"
	jwtMocks "charter/infras/jwt/mocks"
	"charter/infras/otel/mocks"
	"charter/permissions"
	"charter/shared/constant"
	"charter/transport/http/middleware"
)

func newRouter(t *testing.T, setupMock func(m *jwtMocks.MockJWT)) http.Handler {
	ctrl := gomock.NewController(t)
	jwtService := jwtMocks.NewMockJWT(ctrl)

	if setupMock != nil {
		setupMock(jwtService)
	}

	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	perms := &permissions.PermissionData{Endpoints: []permissions.Permission{
		{Path: "/v1/bookings/{ref}", Method: http.MethodGet, Skip: true},
		{Path: "/v1/bookings/", Method: http.MethodGet, Permissions: []string{constant.RoleOps, constant.RoleAdmin}},
	}}

	auth := middleware.NewAuthRoleMiddleware(jwtService, mocks.NewOtel(), perms, cfg)

	echoUser := func(w http.ResponseWriter, r *http.Request) {
		user, _ := r.Context().Value(constant.ContextKeyUserID).(string)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(user))
	}

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(auth.APIKey)
		r.Use(auth.Auth)
		r.Use(auth.RBAC)

		r.Get("/v1/bookings", echoUser)
		r.Get("/v1/bookings/{ref}", echoUser)
		r.Get("/v1/unlisted", echoUser)
	})

	return router
}

func validToken(role string) func(m *jwtMocks.MockJWT) {
	return func(m *jwtMocks.MockJWT) {
		m.EXPECT().ValidateToken(gomock.Any(), "good", jwt.AccessToken).
			Return(&jwt.Claims{UserID: "user-1", Email: "u@example.com", Role: role, TokenID: "t-1"}, nil)
	}
}

func TestAuthRole(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		headers   map[string]string
		setupMock func(m *jwtMocks.MockJWT)
		wantCode  int
		wantUser  string
	}{
		{
			name:     "public route without token is anonymous",
			path:     "/v1/bookings/FSB-K7Q2ZP",
			wantCode: http.StatusOK,
		},
		{
			name:      "public route keeps the caller identity",
			path:      "/v1/bookings/FSB-K7Q2ZP",
			headers:   map[string]string{"Authorization": "Bearer good"},
			setupMock: validToken(constant.RoleCustomer),
			wantCode:  http.StatusOK,
			wantUser:  "user-1",
		},
		{
			name:    "public route ignores a bad token",
			path:    "/v1/bookings/FSB-K7Q2ZP",
			headers: map[string]string{"Authorization": "Bearer stale"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "stale", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)
			},
			wantCode: http.StatusOK,
		},
		{
			name:     "protected route needs a token",
			path:     "/v1/bookings",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "malformed header",
			path:     "/v1/bookings",
			headers:  map[string]string{"Authorization": "Token good"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:    "invalid token",
			path:    "/v1/bookings",
			headers: map[string]string{"Authorization": "Bearer forged"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "forged", jwt.AccessToken).Return(nil, errors.New("bad signature"))
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:      "role not allowed",
			path:      "/v1/bookings",
			headers:   map[string]string{"Authorization": "Bearer good"},
			setupMock: validToken(constant.RoleCustomer),
			wantCode:  http.StatusForbidden,
		},
		{
			name:      "role allowed",
			path:      "/v1/bookings",
			headers:   map[string]string{"Authorization": "Bearer good"},
			setupMock: validToken(constant.RoleOps),
			wantCode:  http.StatusOK,
			wantUser:  "user-1",
		},
		{
			name:      "unlisted route is closed",
			path:      "/v1/unlisted",
			headers:   map[string]string{"Authorization": "Bearer good"},
			setupMock: validToken(constant.RoleSuperAdmin),
			wantCode:  http.StatusForbidden,
		},
		{
			name:     "internal api key skips auth",
			path:     "/v1/bookings",
			headers:  map[string]string{constant.RequestHeaderAPIKey: "internal-key"},
			wantCode: http.StatusOK,
			wantUser: constant.ActorSystem,
		},
		{
			name:     "wrong api key",
			path:     "/v1/bookings",
			headers:  map[string]string{constant.RequestHeaderAPIKey: "guess"},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(t, tt.setupMock)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantUser, rec.Body.String())
			}
		})
	}
}
