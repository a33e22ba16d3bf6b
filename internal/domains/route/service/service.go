package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"charter/config"
	"charter/infras/otel"
	auditModel "charter/internal/domains/audit/model"
	auditDto "charter/internal/domains/audit/model/dto"
	auditService "charter/internal/domains/audit/service"
	"charter/internal/domains/route/model"
	"charter/internal/domains/route/model/dto"
	"charter/internal/domains/route/repository"
	"charter/shared"
	"charter/shared/cache"
	"charter/shared/constant"
	gDto "charter/shared/dto"
	"charter/shared/failure"
	gModel "charter/shared/model"
	"charter/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetRoute    = "route:get"
	cacheGetAllRoute = "route:gets"
	cacheCountRoute  = "route:count"
)

type Route interface {
	Create(ctx context.Context, req dto.CreateRouteRequest) (string, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoutesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.RouteResponse, error)
	Update(ctx context.Context, req dto.UpdateRouteRequest, id string) error
	// Delete removes an unused route and deactivates one that still has schedule rows.
	Delete(ctx context.Context, id string) error
	// GetOrCreate returns the route for the label pair, creating it when missing.
	GetOrCreate(ctx context.Context, fromLabel, toLabel string) (res model.Route, created bool, err error)
}

type serviceImpl struct {
	repo  repository.Route
	audit auditService.Audit
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Route, audit auditService.Audit, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Route {
	return &serviceImpl{
		repo:  repo,
		audit: audit,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRouteRequest) (id string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".route.Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	route := req.ToModel(shared.Actor(ctx))

	if err = s.repo.Insert(ctx, route); err != nil {
		if shared.IsUniqueViolation(err) {
			return "", failure.Conflict("route already exists")
		}

		log.Error().Err(err).Msg("failed to create route")

		return "", fmt.Errorf("failed to create route: %w", err)
	}

	s.logAudit(ctx, "route.create", route.ID, map[string]any{
		"from": route.FromLabel, "to": route.ToLabel, "main_region": route.MainRegion,
	})
	s.invalidate(ctx, "")

	return route.ID, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoutesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".route.GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRoute, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for routes")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get routes")

		return res, fmt.Errorf("failed to get routes: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	shared.CacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".route.Count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountRoute, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count routes")

		return res, fmt.Errorf("failed to count routes: %w", err)
	}

	shared.CacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RouteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".route.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(cacheGetRoute, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	route, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get route")

		return res, fmt.Errorf("failed to get route: %w", err)
	}

	if route.ID == constant.Empty {
		return res, failure.NotFound("route not found") // nolint:wrapcheck
	}

	res.FromModel(route)

	shared.CacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRouteRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".route.Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check route existence")

		return fmt.Errorf("failed to check route existence: %w", err)
	}

	if !exist {
		return failure.NotFound("route not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, shared.Actor(ctx))

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		if shared.IsUniqueViolation(err) {
			return failure.Conflict("route already exists")
		}

		log.Error().Err(err).Msg("failed to update route")

		return fmt.Errorf("failed to update route: %w", err)
	}

	s.logAudit(ctx, "route.update", id, updatedFields)
	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".route.Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if route exists")

		return fmt.Errorf("failed to check if route exists: %w", err)
	}

	if !exist {
		return failure.NotFound("route not found") // nolint:wrapcheck
	}

	referenced, err := s.repo.IsReferenced(ctx, id)
	if err != nil {
		return err
	}

	action := "route.delete"

	if referenced {
		action = "route.deactivate"
		err = s.repo.Update(ctx, map[string]any{
			model.FieldActive:        false,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: shared.Actor(ctx),
		}, filter)
	} else {
		err = s.repo.Delete(ctx, filter)
	}

	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("failed to delete route")

		return fmt.Errorf("failed to delete route: %w", err)
	}

	s.logAudit(ctx, action, id, nil)
	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) GetOrCreate(ctx context.Context, fromLabel, toLabel string) (res model.Route, created bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".route.GetOrCreate")
	defer scope.End()
	defer scope.TraceIfError(&err)

	res, err = s.findByLabels(ctx, fromLabel, toLabel)
	if err != nil || res.ID != constant.Empty {
		return res, false, err
	}

	res = model.Route{
		ID:         uuid.NewString(),
		FromLabel:  fromLabel,
		ToLabel:    toLabel,
		MainRegion: model.MainRegionFor(fromLabel),
		Region:     model.DefaultRegion,
		Active:     true,
		Metadata:   gModel.NewMetadata(timezone.Now(), shared.Actor(ctx)),
	}

	if err = s.repo.Insert(ctx, res); err != nil {
		// a concurrent import created the pair first
		if shared.IsUniqueViolation(err) {
			res, err = s.findByLabels(ctx, fromLabel, toLabel)

			return res, false, err
		}

		log.Error().Err(err).Str("from", fromLabel).Str("to", toLabel).Msg("failed to create route")

		return res, false, fmt.Errorf("failed to create route: %w", err)
	}

	s.logAudit(ctx, "route.create", res.ID, map[string]any{"from": fromLabel, "to": toLabel, "main_region": res.MainRegion})
	s.invalidate(ctx, "")

	return res, true, nil
}

func (s *serviceImpl) findByLabels(ctx context.Context, fromLabel, toLabel string) (model.Route, error) {
	route, err := s.repo.Get(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldFromLabel, Operator: gDto.FilterOperatorEq, Value: fromLabel, Table: model.TableName},
			gDto.Filter{Field: model.FieldToLabel, Operator: gDto.FilterOperatorEq, Value: toLabel, Table: model.TableName},
		},
	})
	if err != nil {
		log.Error().Err(err).Str("from", fromLabel).Str("to", toLabel).Msg("failed to find route")

		return route, fmt.Errorf("failed to find route: %w", err)
	}

	return route, nil
}

func (s *serviceImpl) logAudit(ctx context.Context, action, id string, details map[string]any) {
	err := s.audit.Log(ctx, nil, auditDto.Entry{
		Action:     action,
		EntityType: auditModel.EntityRoute,
		EntityID:   id,
		Details:    details,
	})
	if err != nil {
		log.Warn().Err(err).Str("action", action).Msg("failed to audit route change")
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetRoute, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete route cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoute)
		shared.InvalidateCaches(c, s.cache, cacheCountRoute)
	}()
}
