package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"charter/infras/otel"
	"charter/infras/postgres"
	"charter/internal/domains/settings/model"
	"charter/shared/constant"
	gDto "charter/shared/dto"
	"charter/shared/logger"
	gRepo "charter/shared/repository"
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const upsertQuery = `INSERT INTO settings (key, int_value, str_value, created_at, modified_at, created_by, modified_by)
VALUES (:key, :int_value, :str_value, :created_at, :modified_at, :created_by, :modified_by)
ON CONFLICT (key) DO UPDATE SET
	int_value = EXCLUDED.int_value,
	str_value = EXCLUDED.str_value,
	modified_at = EXCLUDED.modified_at,
	modified_by = EXCLUDED.modified_by`

type Setting interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Setting, error)
	UpsertTx(ctx context.Context, sqltx *sqlx.Tx, setting model.Setting) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Setting]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Setting {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Setting](model.EntityName, model.TableName, model.FieldKey, db, otel),
		otel:       otel,
	}
}

func (r *repositoryImpl) UpsertTx(ctx context.Context, sqltx *sqlx.Tx, setting model.Setting) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".setting.UpsertTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, upsertQuery)

	if _, err := sqltx.NamedExecContext(ctx, upsertQuery, setting); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to upsert setting %s: %w", setting.Key, err)
	}

	return nil
}
