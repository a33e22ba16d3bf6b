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
	settingsService "charter/internal/domains/settings/service"
	"charter/internal/domains/timeentry/model"
	"charter/internal/domains/timeentry/model/dto"
	"charter/internal/domains/timeentry/repository"
	"charter/shared"
	"charter/shared/cache"
	"charter/shared/constant"
	gDto "charter/shared/dto"
	"charter/shared/failure"
	gRepo "charter/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// CacheAvailability prefixes the public availability lists. Anything that moves seats clears it.
const CacheAvailability = "time_entry:availability"

const availabilityLimit = 200

type TimeEntry interface {
	Create(ctx context.Context, req dto.CreateTimeEntryRequest) (string, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetTimeEntriesResponse, error)
	Get(ctx context.Context, id string) (dto.TimeEntryResponse, error)
	Update(ctx context.Context, req dto.UpdateTimeEntryRequest, id string) error
	Delete(ctx context.Context, id string) error
	// Availability lists the bookable departures of a route on a date.
	Availability(ctx context.Context, routeID, date string) (dto.AvailabilityResponse, error)
}

type serviceImpl struct {
	repo  repository.TimeEntry
	tx    gRepo.Transactor
	fx    settingsService.FXRate
	audit auditService.Audit
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(
	repo repository.TimeEntry,
	tx gRepo.Transactor,
	fx settingsService.FXRate,
	audit auditService.Audit,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) TimeEntry {
	return &serviceImpl{
		repo:  repo,
		tx:    tx,
		fx:    fx,
		audit: audit,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTimeEntryRequest) (id string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".time_entry.Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	entry := req.ToModel(shared.Actor(ctx))

	if err = s.repo.Insert(ctx, entry); err != nil {
		if shared.IsUniqueViolation(err) {
			return "", failure.Conflict("a departure already exists for this route, date and start time")
		}

		log.Error().Err(err).Msg("failed to create time entry")

		return "", fmt.Errorf("failed to create time entry: %w", err)
	}

	s.logAudit(ctx, "time_entry.create", entry.ID, map[string]any{
		"route_id": entry.RouteID, "date": entry.Date, "start": entry.Start, "capacity": entry.Capacity,
	})
	s.invalidate(ctx)

	return entry.ID, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetTimeEntriesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".time_entry.GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if req.SortBy == "" {
		req.SortBy = model.FieldDate
		req.SortDir = gDto.SortDirAsc
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count time entries")

		return res, fmt.Errorf("failed to count time entries: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get time entries")

		return res, fmt.Errorf("failed to get time entries: %w", err)
	}

	rate, err := s.fx.GetFXRate(ctx)
	if err != nil {
		return res, err
	}

	res.FromModels(models, total, req.Limit, rate)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TimeEntryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".time_entry.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	entry, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get time entry")

		return res, fmt.Errorf("failed to get time entry: %w", err)
	}

	if entry.ID == constant.Empty {
		return res, model.NotFound()
	}

	rate, err := s.fx.GetFXRate(ctx)
	if err != nil {
		return res, err
	}

	res.FromModel(entry, rate)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateTimeEntryRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".time_entry.Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)
	updatedFields := shared.TransformFields(req, shared.Actor(ctx))

	if req.ClearOverride {
		updatedFields[model.FieldOverridePriceUSD] = nil
		updatedFields[model.FieldOverridePriceTZS] = nil
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		current, err := s.repo.GetForUpdate(ctx, tx, filter)
		if err != nil {
			return err
		}

		if current.ID == constant.Empty {
			return model.NotFound()
		}

		if req.Capacity != nil {
			booked := current.Booked()
			if *req.Capacity < booked {
				return failure.BadRequestFromString(fmt.Sprintf("capacity cannot be below already booked seats (%d)", booked))
			}

			updatedFields[model.FieldCapacity] = *req.Capacity
			updatedFields[model.FieldSeatsAvailable] = *req.Capacity - booked
		}

		if err := s.repo.UpdateTx(ctx, tx, updatedFields, filter); err != nil {
			if shared.IsUniqueViolation(err) {
				return failure.Conflict("a departure already exists for this route, date and start time")
			}

			return err
		}

		return s.audit.Log(ctx, tx, auditDto.Entry{
			Action:     "time_entry.update",
			EntityType: auditModel.EntityTimeEntry,
			EntityID:   id,
			Details:    updatedFields,
		})
	})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to update time entry")

		return fmt.Errorf("failed to update time entry: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".time_entry.Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check time entry existence")

		return fmt.Errorf("failed to check time entry existence: %w", err)
	}

	if !exist {
		return model.NotFound()
	}

	booked, err := s.repo.HasBookings(ctx, id)
	if err != nil {
		return err
	}

	if booked {
		return failure.Conflict("time entry has bookings, close it instead")
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete time entry")

		return fmt.Errorf("failed to delete time entry: %w", err)
	}

	s.logAudit(ctx, "time_entry.delete", id, nil)
	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) Availability(ctx context.Context, routeID, date string) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".time_entry.Availability")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(CacheAvailability, routeID, date)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for availability")

		return res, nil
	}

	models, err := s.repo.GetAll(ctx, gDto.QueryParams{
		Page:    constant.DefaultValuePage,
		Limit:   availabilityLimit,
		SortBy:  model.FieldStart,
		SortDir: gDto.SortDirAsc,
	}, availabilityFilter(routeID, date))
	if err != nil {
		log.Error().Err(err).Msg("failed to get availability")

		return res, fmt.Errorf("failed to get availability: %w", err)
	}

	rate, err := s.fx.GetFXRate(ctx)
	if err != nil {
		return res, err
	}

	res.FromModels(routeID, date, models, rate)

	shared.CacheAsync(ctx, s.cache, cacheKey, res, s.cfg.Cache.TTL)

	return res, nil
}

func availabilityFilter(routeID, date string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldRouteID, Operator: gDto.FilterOperatorEq, Value: routeID, Table: model.TableName},
			gDto.Filter{Field: model.FieldDate, Operator: gDto.FilterOperatorEq, Value: date, Table: model.TableName},
			gDto.Filter{Field: model.FieldVisibility, Operator: gDto.FilterOperatorEq, Value: model.VisibilityPublic, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: model.StatusPublished, Table: model.TableName},
			gDto.Filter{Field: model.FieldSeatsAvailable, Operator: gDto.FilterOperatorGreaterEq, Value: 1, Table: model.TableName},
		},
	}
}

func (s *serviceImpl) logAudit(ctx context.Context, action, id string, details map[string]any) {
	err := s.audit.Log(ctx, nil, auditDto.Entry{
		Action:     action,
		EntityType: auditModel.EntityTimeEntry,
		EntityID:   id,
		Details:    details,
	})
	if err != nil {
		log.Warn().Err(err).Str("action", action).Msg("failed to audit time entry change")
	}
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, CacheAvailability)
}
