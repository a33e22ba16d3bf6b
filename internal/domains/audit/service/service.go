package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"charter/infras/otel"
	"charter/internal/domains/audit/model"
	"charter/internal/domains/audit/model/dto"
	"charter/internal/domains/audit/repository"
	"charter/shared"
	"charter/shared/constant"
	gDto "charter/shared/dto"
	"charter/shared/timezone"
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Audit interface {
	// Log appends an entry. With a non-nil tx the entry commits or rolls back with the caller.
	Log(ctx context.Context, tx *sqlx.Tx, entry dto.Entry) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetAuditLogsResponse, error)
}

type serviceImpl struct {
	repo repository.Audit
	otel otel.Otel
}

func New(repo repository.Audit, otel otel.Otel) Audit {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

func (s *serviceImpl) Log(ctx context.Context, tx *sqlx.Tx, entry dto.Entry) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".audit.Log")
	defer scope.End()
	defer scope.TraceIfError(&err)

	audit, err := entry.ToModel(shared.Actor(ctx), timezone.Now())
	if err != nil {
		log.Error().Err(err).Str("action", entry.Action).Msg("failed to encode audit details")

		return fmt.Errorf("failed to encode audit details: %w", err)
	}

	if tx != nil {
		err = s.repo.InsertTx(ctx, tx, audit)
	} else {
		err = s.repo.Insert(ctx, audit)
	}

	if err != nil {
		log.Error().Err(err).Str("action", entry.Action).Str("entity_id", entry.EntityID).Msg("failed to write audit log")

		return fmt.Errorf("failed to write audit log: %w", err)
	}

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetAuditLogsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".audit.GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if params.SortBy == "" {
		params.SortBy = model.FieldCreatedAt
		params.SortDir = gDto.SortDirDesc
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count audit logs")

		return res, fmt.Errorf("failed to count audit logs: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get audit logs")

		return res, fmt.Errorf("failed to get audit logs: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}
