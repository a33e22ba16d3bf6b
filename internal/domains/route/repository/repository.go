package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"charter/infras/otel"
	"charter/infras/postgres"
	"charter/internal/domains/route/model"
	"charter/shared/constant"
	gDto "charter/shared/dto"
	"charter/shared/logger"
	gRepo "charter/shared/repository"
	"context"
	"fmt"
)

const referencedQuery = `SELECT EXISTS (SELECT 1 FROM time_entries WHERE route_id = $1)
	OR EXISTS (SELECT 1 FROM slot_rules WHERE route_id = $1)`

type Route interface {
	Insert(ctx context.Context, model model.Route) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Route, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Route, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	// IsReferenced reports whether any time entry or slot rule points at the route.
	IsReferenced(ctx context.Context, id string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Route]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Route {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Route](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) IsReferenced(ctx context.Context, id string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".route.IsReferenced")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, referencedQuery)

	var referenced bool
	if err := r.db.Read.GetContext(ctx, &referenced, referencedQuery, id); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check route references: %w", err)
	}

	return referenced, nil
}
