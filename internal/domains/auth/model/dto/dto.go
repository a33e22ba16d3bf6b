package dto

import (
	"time"

	"charter/infras/jwt"
	userModel "charter/internal/domains/user/model"
	"charter/shared/constant"
	gModel "charter/shared/model"
	"charter/shared/timezone"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email    string  `json:"email"               validate:"required,email"`
	Password string  `json:"password"            validate:"required,min=8,max=72"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=150"`
}

// ToUserModel always yields a customer.
func (r *RegisterRequest) ToUserModel(actor, hashedPassword string) userModel.User {
	return userModel.User{
		ID:       uuid.NewString(),
		Email:    userModel.NormalizeEmail(r.Email),
		Password: hashedPassword,
		FullName: r.FullName,
		Role:     constant.RoleCustomer,
		Active:   true,
		Metadata: gModel.NewMetadata(timezone.Now(), actor),
	}
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

// TokenResponse is returned by login and refresh. Role is only set on login.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	Role         string `json:"role,omitempty"`
}

func NewTokenResponse(pair *jwt.TokenPair, role string) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
		Role:         role,
	}
}

type UpdateLastLoginRequest struct {
	LastLoginAt time.Time `db:"last_login_at"`
}

type UpdatePasswordRequest struct {
	Password string `db:"password"`
}
