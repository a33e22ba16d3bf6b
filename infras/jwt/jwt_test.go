package jwt_test

import (
	"context"
	"testing"

	"charter/config"
	"charter/infras/jwt"
	"charter/infras/otel/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(accessMin int) jwt.JWT {
	cfg := &config.Config{}
	cfg.App.Name = "charter"
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = accessMin
	cfg.JWT.RefreshExpireMin = 60

	return jwt.New(cfg, mocks.NewOtel())
}

func TestService_GenerateAndValidate(t *testing.T) {
	svc := newService(15)
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, "user-1", "ops@charter.test", "ops")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(15*60), pair.ExpiresIn)

	claims, err := svc.ValidateToken(ctx, pair.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "ops", claims.Role)
	assert.Equal(t, "charter", claims.Issuer)
	assert.Equal(t, claims.ID, claims.TokenID)

	tests := []struct {
		name      string
		token     string
		tokenType jwt.TokenType
		wantErr   error
	}{
		{name: "access token as refresh", token: pair.AccessToken, tokenType: jwt.RefreshToken, wantErr: jwt.ErrInvalidToken},
		{name: "garbage", token: "not-a-token", tokenType: jwt.AccessToken, wantErr: jwt.ErrInvalidToken},
		{name: "tampered", token: pair.AccessToken + "x", tokenType: jwt.AccessToken, wantErr: jwt.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(ctx, tt.token, tt.tokenType)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_ExpiredToken(t *testing.T) {
	svc := newService(-1)
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, "user-1", "guest@charter.test", "customer")
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, pair.AccessToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)
}

func TestService_RefreshTokens(t *testing.T) {
	svc := newService(15)
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, "user-1", "pilot@charter.test", "pilot")
	require.NoError(t, err)

	refreshed, err := svc.RefreshTokens(ctx, pair.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, refreshed.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "pilot", claims.Role)

	_, err = svc.RefreshTokens(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		header  string
		token   string
		wantErr error
	}{
		{header: "Bearer abc.def", token: "abc.def"},
		{header: "", wantErr: jwt.ErrMissingToken},
		{header: "Basic abc", wantErr: jwt.ErrNotBearer},
		{header: "Bearer ", wantErr: jwt.ErrNotBearer},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, err := jwt.ExtractTokenFromHeader(tt.header)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.token, token)
		})
	}
}
