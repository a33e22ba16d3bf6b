package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"charter/infras/otel"
	"charter/infras/postgres"
	"charter/internal/domains/payment/model"
	gDto "charter/shared/dto"
	gRepo "charter/shared/repository"

	"github.com/jmoiron/sqlx"
)

// Payment rows are kept one per booking and provider. A retry updates the row in place.
type Payment interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Payment) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Payment, error)
	GetForUpdate(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (model.Payment, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Payment, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
}

func New(db *postgres.Connection, otel otel.Otel) Payment {
	repo := gRepo.NewRepository[model.Payment](model.EntityName, model.TableName, model.FieldID, db, otel)

	return &repo
}
