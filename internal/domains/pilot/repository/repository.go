package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"charter/infras/otel"
	"charter/infras/postgres"
	"charter/internal/domains/pilot/model"
	gDto "charter/shared/dto"
	gRepo "charter/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Assignment interface {
	Insert(ctx context.Context, model model.Assignment) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Assignment, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Assignment, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
}

func New(db *postgres.Connection, otel otel.Otel) Assignment {
	repo := gRepo.NewRepository[model.Assignment](model.EntityName, model.TableName, model.FieldID, db, otel)

	return &repo
}
