package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"charter/infras/otel"
	"charter/infras/postgres"
	"charter/internal/domains/slotrule/model"
	gDto "charter/shared/dto"
	gRepo "charter/shared/repository"
)

type SlotRule interface {
	Insert(ctx context.Context, model model.SlotRule) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.SlotRule, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.SlotRule, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.SlotRule]
}

func New(db *postgres.Connection, otel otel.Otel) SlotRule {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.SlotRule](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
