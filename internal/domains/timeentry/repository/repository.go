package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"charter/infras/otel"
	"charter/infras/postgres"
	"charter/internal/domains/timeentry/model"
	"charter/shared"
	"charter/shared/constant"
	gDto "charter/shared/dto"
	"charter/shared/logger"
	gRepo "charter/shared/repository"

	"github.com/jmoiron/sqlx"
)

const (
	insertIgnoreQuery = `INSERT INTO time_entries (
	id, route_id, flight_date, start_time, end_time, price_usd, price_tzs, base_price_usd, base_price_tzs,
	override_price_usd, override_price_tzs, currency, exchange_rate, capacity, seats_available,
	flight_no, cabin, visibility, status, created_at, modified_at, created_by, modified_by
) VALUES (
	:id, :route_id, :flight_date, :start_time, :end_time, :price_usd, :price_tzs, :base_price_usd, :base_price_tzs,
	:override_price_usd, :override_price_tzs, :currency, :exchange_rate, :capacity, :seats_available,
	:flight_no, :cabin, :visibility, :status, :created_at, :modified_at, :created_by, :modified_by
) ON CONFLICT ON CONSTRAINT uq_time_entry_route_date_start DO NOTHING`

	decrementSeatsQuery = `UPDATE time_entries SET seats_available = seats_available - $2, modified_at = NOW() WHERE id = $1`
	incrementSeatsQuery = `UPDATE time_entries SET seats_available = seats_available + $2, modified_at = NOW() WHERE id = $1`
	hasBookingsQuery    = `SELECT EXISTS (SELECT 1 FROM bookings WHERE time_entry_id = $1)`
)

type TimeEntry interface {
	Insert(ctx context.Context, model model.TimeEntry) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.TimeEntry, error)
	GetForUpdate(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (model.TimeEntry, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.TimeEntry, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error

	// InsertIgnore inserts the entries that do not collide on (route, date, start) and
	// returns how many rows were created. Existing rows are left untouched.
	InsertIgnore(ctx context.Context, entries []model.TimeEntry) (int, error)
	// ReserveSeats locks the row for the rest of sqltx and takes pax seats from it.
	ReserveSeats(ctx context.Context, sqltx *sqlx.Tx, id string, pax int) (model.TimeEntry, error)
	// ReleaseSeats gives pax seats back. Callers must release a booking's seats at most once.
	ReleaseSeats(ctx context.Context, sqltx *sqlx.Tx, id string, pax int) error
	HasBookings(ctx context.Context, id string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.TimeEntry]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) TimeEntry {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.TimeEntry](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) InsertIgnore(ctx context.Context, entries []model.TimeEntry) (int, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".time_entry.InsertIgnore")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, insertIgnoreQuery)

	created := 0

	for _, entry := range entries {
		result, err := r.db.Write.NamedExecContext(ctx, insertIgnoreQuery, entry)
		if err != nil {
			logger.ErrorWithStack(err)
			scope.TraceError(err)

			return created, fmt.Errorf("failed to insert time entry %s %s: %w", entry.Date, entry.Start, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return created, fmt.Errorf("failed to read affected rows: %w", err)
		}

		created += int(affected)
	}

	return created, nil
}

func (r *repositoryImpl) ReserveSeats(ctx context.Context, sqltx *sqlx.Tx, id string, pax int) (model.TimeEntry, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".time_entry.ReserveSeats")
	defer scope.End()

	entry, err := r.GetForUpdate(ctx, sqltx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return entry, err
	}

	if entry.ID == constant.Empty {
		return entry, model.NotFound()
	}

	if entry.SeatsAvailable < pax {
		return entry, model.InsufficientSeats()
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, decrementSeatsQuery)

	if _, err = sqltx.ExecContext(ctx, decrementSeatsQuery, id, pax); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return entry, fmt.Errorf("failed to reserve seats: %w", err)
	}

	entry.SeatsAvailable -= pax

	return entry, nil
}

func (r *repositoryImpl) ReleaseSeats(ctx context.Context, sqltx *sqlx.Tx, id string, pax int) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".time_entry.ReleaseSeats")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, incrementSeatsQuery)

	if _, err := sqltx.ExecContext(ctx, incrementSeatsQuery, id, pax); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to release seats: %w", err)
	}

	return nil
}

func (r *repositoryImpl) HasBookings(ctx context.Context, id string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".time_entry.HasBookings")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, hasBookingsQuery)

	var exists bool
	if err := r.db.Read.GetContext(ctx, &exists, hasBookingsQuery, id); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check time entry bookings: %w", err)
	}

	return exists, nil
}
