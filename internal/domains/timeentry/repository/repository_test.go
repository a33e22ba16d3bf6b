package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charter/infras/otel/mocks"
	"charter/internal/domains/timeentry/model"
	"charter/internal/domains/timeentry/repository"
	gRepo "charter/shared/repository"
	"charter/shared/testdb"
)

func TestTimeEntryRepository_ReserveSeats_Concurrent(t *testing.T) {
	conn := testdb.Open(t)
	repo := repository.New(conn, mocks.NewOtel())
	tx := gRepo.NewTransactor(conn, mocks.NewOtel())
	entryID := testdb.Departure(t, conn, 3, 3)

	start := make(chan struct{})
	errs := make([]error, 2)

	var wg sync.WaitGroup

	for i := range errs {
		wg.Add(1)

		go func() {
			defer wg.Done()

			<-start

			errs[i] = tx.WithTx(context.Background(), func(ctx context.Context, sqltx *sqlx.Tx) error {
				if _, err := repo.ReserveSeats(ctx, sqltx, entryID, 2); err != nil {
					return err
				}

				// keep the row locked so the other booking queues behind it
				time.Sleep(100 * time.Millisecond)

				return nil
			})
		}()
	}

	close(start)
	wg.Wait()

	var booked, short int

	for _, err := range errs {
		switch {
		case err == nil:
			booked++
		case errors.Is(err, model.ErrInsufficientSeats):
			short++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, booked)
	assert.Equal(t, 1, short)
	assert.Equal(t, 1, testdb.Seats(t, conn, entryID))
}

func TestTimeEntryRepository_ReserveSeats_RolledBack(t *testing.T) {
	conn := testdb.Open(t)
	repo := repository.New(conn, mocks.NewOtel())
	tx := gRepo.NewTransactor(conn, mocks.NewOtel())
	entryID := testdb.Departure(t, conn, 3, 3)

	errNoReference := errors.New("no free reference")

	err := tx.WithTx(context.Background(), func(ctx context.Context, sqltx *sqlx.Tx) error {
		entry, err := repo.ReserveSeats(ctx, sqltx, entryID, 2)
		require.NoError(t, err)
		assert.Equal(t, 1, entry.SeatsAvailable)

		return errNoReference
	})

	assert.ErrorIs(t, err, errNoReference)
	assert.Equal(t, 3, testdb.Seats(t, conn, entryID))
}

func TestTimeEntryRepository_ReleaseSeats(t *testing.T) {
	conn := testdb.Open(t)
	repo := repository.New(conn, mocks.NewOtel())
	tx := gRepo.NewTransactor(conn, mocks.NewOtel())
	entryID := testdb.Departure(t, conn, 3, 1)

	err := tx.WithTx(context.Background(), func(ctx context.Context, sqltx *sqlx.Tx) error {
		return repo.ReleaseSeats(ctx, sqltx, entryID, 2)
	})

	require.NoError(t, err)
	assert.Equal(t, 3, testdb.Seats(t, conn, entryID))
}
