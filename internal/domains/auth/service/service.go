package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"charter/config"
	"charter/infras/jwt"
	"charter/infras/otel"
	"charter/internal/domains/auth/model/dto"
	userModel "charter/internal/domains/user/model"
	userRepo "charter/internal/domains/user/repository"
	"charter/shared"
	"charter/shared/constant"
	"charter/shared/failure"
	"charter/shared/password"
	"charter/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Auth interface {
	// Register creates an active customer account. Staff accounts come from the user service.
	Register(ctx context.Context, req dto.RegisterRequest) error
	Login(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.TokenResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) error
}

type serviceImpl struct {
	users  userRepo.User
	tokens jwt.JWT
	cfg    *config.Config
	otel   otel.Otel
}

func New(users userRepo.User, cfg *config.Config, otel otel.Otel, tokens jwt.JWT) Auth {
	return &serviceImpl{
		users:  users,
		tokens: tokens,
		cfg:    cfg,
		otel:   otel,
	}
}

func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Register")
	defer scope.End()
	defer scope.TraceIfError(&err)

	taken, err := s.users.EmailTaken(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}

	if taken {
		return userModel.ErrEmailTaken
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return failure.BadRequest(err)
	}

	user := req.ToUserModel(constant.ContextGuest, hashed)

	if err = s.users.Insert(ctx, user); err != nil {
		if shared.IsUniqueViolation(err) {
			return userModel.ErrEmailTaken
		}

		return fmt.Errorf("failed to register: %w", err)
	}

	log.Info().Str("user_id", user.ID).Msg("customer registered")

	return nil
}

// Login answers unknown emails and wrong passwords identically. A deactivated account is only
// revealed to someone who knows its password.
func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.TokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Login")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return res, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.ID == constant.Empty || password.Verify(req.Password, user.Password) != nil {
		log.Warn().Str("email", userModel.NormalizeEmail(req.Email)).Msg("rejected login")

		return res, userModel.ErrInvalidCredentials
	}

	if !user.Active {
		return res, userModel.ErrDeactivated
	}

	pair, err := s.tokens.GenerateTokenPair(ctx, user.ID, user.Email, user.Role)
	if err != nil {
		return res, fmt.Errorf("failed to issue tokens: %w", err)
	}

	stamp := shared.TransformFields(dto.UpdateLastLoginRequest{LastLoginAt: timezone.Now()}, user.ID)

	if err = s.users.Update(ctx, stamp, shared.FilterByID(user.ID, userModel.FieldID, userModel.TableName)); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("last login not recorded")
	}

	return dto.NewTokenResponse(pair, user.Role), nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.TokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.RefreshToken")
	defer scope.End()
	defer scope.TraceIfError(&err)

	pair, err := s.tokens.RefreshTokens(ctx, req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("refresh rejected")

		return res, failure.Unauthorized("invalid refresh token")
	}

	return dto.NewTokenResponse(pair, constant.Empty), nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.ChangePassword")
	defer scope.End()
	defer scope.TraceIfError(&err)

	byID := shared.FilterByID(userID, userModel.FieldID, userModel.TableName)

	user, err := s.users.Get(ctx, byID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return userModel.ErrNotFound
	}

	if password.Verify(req.CurrentPassword, user.Password) != nil {
		return userModel.ErrWrongPassword
	}

	hashed, err := password.Hash(req.NewPassword)
	if err != nil {
		return failure.BadRequest(err)
	}

	if err = s.users.Update(ctx, shared.TransformFields(dto.UpdatePasswordRequest{Password: hashed}, userID), byID); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	log.Info().Str("user_id", userID).Msg("password changed")

	return nil
}
