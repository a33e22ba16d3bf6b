package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"charter/infras/otel"
	"charter/infras/postgres"
	"charter/internal/domains/booking/model"
	"charter/shared/constant"
	gDto "charter/shared/dto"
	"charter/shared/logger"
	gRepo "charter/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const expireHoldsQuery = `UPDATE bookings
SET status = 'EXPIRED', payment_status = 'unpaid', modified_at = $1, modified_by = $2
WHERE status = ANY($3)
  AND payment_status = ANY($4)
  AND hold_expires_at IS NOT NULL
  AND hold_expires_at < $1
RETURNING id, booking_ref, time_entry_id, pax`

const claimPilotNotificationQuery = `UPDATE bookings SET pilot_notified_at = $2 WHERE id = $1 AND pilot_notified_at IS NULL`

type Booking interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) error
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetForUpdate(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error

	// ExpireHolds flips every lapsed unpaid hold to EXPIRED in one statement and returns
	// the rows it changed. A row can only be returned once.
	ExpireHolds(ctx context.Context, sqltx *sqlx.Tx, now time.Time, actor string) ([]model.Expired, error)
	// ClaimPilotNotification sets pilot_notified_at once. Only the first caller gets true.
	ClaimPilotNotification(ctx context.Context, id string, at time.Time) (bool, error)
}

type Passenger interface {
	InsertBulkTx(ctx context.Context, sqltx *sqlx.Tx, models []model.Passenger) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Passenger, error)
}

type Cancellation interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Cancellation) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Cancellation, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func NewPassenger(db *postgres.Connection, otel otel.Otel) Passenger {
	repo := gRepo.NewRepository[model.Passenger](model.PassengerEntityName, model.PassengerTableName, model.FieldID, db, otel)

	return &repo
}

func NewCancellation(db *postgres.Connection, otel otel.Otel) Cancellation {
	repo := gRepo.NewRepository[model.Cancellation](model.CancellationEntityName, model.CancellationTableName, model.FieldID, db, otel)

	return &repo
}

func (r *repositoryImpl) ExpireHolds(ctx context.Context, sqltx *sqlx.Tx, now time.Time, actor string) ([]model.Expired, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ExpireHolds")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, expireHoldsQuery)

	expired := []model.Expired{}
	if err := sqltx.SelectContext(ctx, &expired, expireHoldsQuery, now, actor,
		pq.Array(model.ExpirableStatuses), pq.Array(model.ExpirablePayments)); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to expire holds: %w", err)
	}

	return expired, nil
}

func (r *repositoryImpl) ClaimPilotNotification(ctx context.Context, id string, at time.Time) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ClaimPilotNotification")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, claimPilotNotificationQuery)

	result, err := r.db.Write.ExecContext(ctx, claimPilotNotificationQuery, id, at)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to claim pilot notification: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected == 1, nil
}
