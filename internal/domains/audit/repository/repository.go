package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"charter/infras/otel"
	"charter/infras/postgres"
	"charter/internal/domains/audit/model"
	gDto "charter/shared/dto"
	gRepo "charter/shared/repository"
	"context"

	"github.com/jmoiron/sqlx"
)

type Audit interface {
	Insert(ctx context.Context, model model.AuditLog) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.AuditLog) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.AuditLog, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.AuditLog]
}

func New(db *postgres.Connection, otel otel.Otel) Audit {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.AuditLog](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
