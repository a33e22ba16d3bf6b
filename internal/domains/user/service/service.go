package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"charter/config"
	"charter/infras/otel"
	"charter/internal/domains/user/model"
	"charter/internal/domains/user/model/dto"
	"charter/internal/domains/user/repository"
	"charter/shared"
	"charter/shared/cache"
	"charter/shared/constant"
	gDto "charter/shared/dto"
	"charter/shared/failure"
	"charter/shared/password"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetUser    = "user:get"
	cacheGetAllUser = "user:gets"
	cacheCountUser  = "user:count"
)

type User interface {
	Create(ctx context.Context, req dto.CreateUserRequest) (string, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetUsersResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.UserResponse, error)
	Update(ctx context.Context, req dto.UpdateUserRequest, id string) error
	// Deactivate disables login. Users are referenced by bookings and are never removed.
	Deactivate(ctx context.Context, id string) error

	// GetByEmail returns the zero user when nobody has that email.
	GetByEmail(ctx context.Context, email string) (model.User, error)
	// GetOrCreateCustomer finds the booker by email or registers a customer with a random password.
	GetOrCreateCustomer(ctx context.Context, email, name string) (model.User, error)
}

type serviceImpl struct {
	repo  repository.User
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) User {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateUserRequest) (id string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	taken, err := s.repo.EmailTaken(ctx, req.Email)
	if err != nil {
		return "", fmt.Errorf("failed to check email: %w", err)
	}

	if taken {
		return "", model.ErrEmailTaken
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := req.ToModel(shared.Actor(ctx), hashedPassword)

	if err = s.repo.Insert(ctx, user); err != nil {
		if shared.IsUniqueViolation(err) {
			return "", model.ErrEmailTaken
		}

		log.Error().Err(err).Str("role", user.Role).Msg("failed to create user")

		return "", fmt.Errorf("failed to create user: %w", err)
	}

	s.invalidateLists(ctx)

	return user.ID, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllUser, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for users")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get users")

		return res, fmt.Errorf("failed to get users: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	shared.CacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountUser, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count users")

		return res, fmt.Errorf("failed to count users: %w", err)
	}

	shared.CacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(cacheGetUser, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	user, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return res, model.ErrNotFound
	}

	res.FromModel(user)

	shared.CacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateUserRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if req == (dto.UpdateUserRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	return s.update(ctx, shared.TransformFields(req, shared.Actor(ctx)), id)
}

func (s *serviceImpl) Deactivate(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Deactivate")
	defer scope.End()
	defer scope.TraceIfError(&err)

	return s.update(ctx, shared.TransformFields(dto.UpdateUserRequest{Active: shared.Ptr(false)}, shared.Actor(ctx)), id)
}

func (s *serviceImpl) update(ctx context.Context, fields map[string]any, id string) error {
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if !exist {
		return model.ErrNotFound
	}

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update user")

		return fmt.Errorf("failed to update user: %w", err)
	}

	s.forget(ctx, id)

	return nil
}

func (s *serviceImpl) GetByEmail(ctx context.Context, email string) (user model.User, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.GetByEmail")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if user, err = s.repo.GetByEmail(ctx, email); err != nil {
		return user, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (s *serviceImpl) GetOrCreateCustomer(ctx context.Context, email, name string) (user model.User, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.GetOrCreateCustomer")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if user, err = s.GetByEmail(ctx, email); err != nil || user.ID != constant.Empty {
		return user, err
	}

	var fullName *string
	if name != constant.Empty {
		fullName = &name
	}

	secret, err := password.Random()
	if err != nil {
		return user, err
	}

	req := dto.CreateUserRequest{Email: email, Password: secret, Role: constant.RoleCustomer, FullName: fullName}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		return user, fmt.Errorf("failed to hash password: %w", err)
	}

	user = req.ToModel(shared.Actor(ctx), hashedPassword)

	if err = s.repo.Insert(ctx, user); err != nil {
		if shared.IsUniqueViolation(err) {
			return s.GetByEmail(ctx, email)
		}

		log.Error().Err(err).Msg("failed to create booker")

		return user, fmt.Errorf("failed to create booker: %w", err)
	}

	s.invalidateLists(ctx)

	return user, nil
}

// invalidateLists drops cached pages and counts. Single-user entries stay valid.
func (s *serviceImpl) invalidateLists(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	go func() {
		for _, prefix := range []string{cacheGetAllUser, cacheCountUser} {
			shared.InvalidateCaches(ctx, s.cache, prefix)
		}
	}()
}

// forget drops the cached profile of id along with every list.
func (s *serviceImpl) forget(ctx context.Context, id string) {
	ctx = context.WithoutCancel(ctx)

	go func() {
		if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetUser, id)); err != nil {
			log.Warn().Err(err).Str("user_id", id).Msg("stale user left in cache")
		}
	}()

	s.invalidateLists(ctx)
}
