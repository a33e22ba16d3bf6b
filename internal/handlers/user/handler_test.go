package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	otelMocks "charter/infras/otel/mocks"
	"charter/internal/domains/user/model"
	"charter/internal/domains/user/model/dto"
	"charter/internal/domains/user/service/mocks"
	"charter/internal/handlers/user"
	"charter/shared/constant"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newRouter(t *testing.T) (chi.Router, *mocks.MockUser) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockUser(ctrl)

	handler := user.New(svc, otelMocks.NewOtel())
	r := chi.NewRouter()
	handler.Router(r)

	return r, svc
}

func TestHandler_Lookup(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		actor     string
		setupMock func(svc *mocks.MockUser)
		wantCode  int
		wantID    string
	}{
		{
			name:  "me resolves the caller",
			path:  "/users/me",
			actor: "user-7",
			setupMock: func(svc *mocks.MockUser) {
				svc.EXPECT().Get(gomock.Any(), "user-7").Return(dto.UserResponse{ID: "user-7", Role: constant.RoleCustomer}, nil)
			},
			wantCode: http.StatusOK,
			wantID:   "user-7",
		},
		{
			name:  "by id",
			path:  "/users/user-3",
			actor: "admin-1",
			setupMock: func(svc *mocks.MockUser) {
				svc.EXPECT().Get(gomock.Any(), "user-3").Return(dto.UserResponse{ID: "user-3"}, nil)
			},
			wantCode: http.StatusOK,
			wantID:   "user-3",
		},
		{
			name:  "unknown id",
			path:  "/users/missing",
			actor: "admin-1",
			setupMock: func(svc *mocks.MockUser) {
				svc.EXPECT().Get(gomock.Any(), "missing").Return(dto.UserResponse{}, model.ErrNotFound)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, svc := newRouter(t)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req = req.WithContext(context.WithValue(req.Context(), constant.ContextKeyUserID, tt.actor))
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantID == "" {
				return
			}

			var body struct {
				Data dto.UserResponse `json:"data"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantID, body.Data.ID)
		})
	}
}

func TestHandler_Create(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		setupMock func(svc *mocks.MockUser)
		wantCode  int
	}{
		{
			name:      "missing email never reaches the service",
			body:      `{"password":"s3cret-pass","role":"ops"}`,
			setupMock: func(*mocks.MockUser) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "duplicate email",
			body: `{"email":"ops@charter.local","password":"s3cret-pass","role":"ops"}`,
			setupMock: func(svc *mocks.MockUser) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return("", model.ErrEmailTaken)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "created",
			body: `{"email":"pilot@charter.local","password":"s3cret-pass","role":"pilot"}`,
			setupMock: func(svc *mocks.MockUser) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req dto.CreateUserRequest) (string, error) {
						assert.Equal(t, "pilot", req.Role)

						return "user-9", nil
					})
			},
			wantCode: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, svc := newRouter(t)
			tt.setupMock(svc)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
