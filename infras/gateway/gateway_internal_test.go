package gateway

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToResult(t *testing.T) {
	tests := []struct {
		name         string
		httpStatus   int
		parsed       gatewayResponse
		wantApproved bool
		wantStatus   string
	}{
		{
			name:         "authorized sale",
			httpStatus:   http.StatusCreated,
			parsed:       gatewayResponse{ID: "p1", Status: "AUTHORIZED"},
			wantApproved: true,
			wantStatus:   statusAuthorized,
		},
		{
			name:         "refund pending",
			httpStatus:   http.StatusCreated,
			parsed:       gatewayResponse{ID: "r1", Status: "PENDING"},
			wantApproved: true,
			wantStatus:   statusPending,
		},
		{
			name:       "declined",
			httpStatus: http.StatusCreated,
			parsed:     gatewayResponse{ID: "p2", Status: "DECLINED", Reason: "EXPIRED_CARD"},
			wantStatus: statusDeclined,
		},
		{
			name:       "held for review is not approved",
			httpStatus: http.StatusCreated,
			parsed:     gatewayResponse{ID: "p3", Status: "AUTHORIZED_PENDING_REVIEW"},
			wantStatus: statusAuthorizedReview,
		},
		{
			name:       "bad request without status",
			httpStatus: http.StatusBadRequest,
			parsed:     gatewayResponse{Message: "invalid token"},
			wantStatus: statusInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := toResult(tt.httpStatus, tt.parsed)

			assert.Equal(t, tt.wantApproved, res.Approved)
			assert.Equal(t, tt.wantStatus, res.Status)
		})
	}
}
