// Package testdb opens the postgres database named by CHARTER_TEST_DATABASE_URL, migrated to
// the latest schema, for tests that need real row locks. Tests skip when it is unset.
package testdb

//nolint:revive
import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"charter/infras/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

const EnvDatabaseURL = "CHARTER_TEST_DATABASE_URL"

func Open(t testing.TB) *postgres.Connection {
	t.Helper()

	dsn := os.Getenv(EnvDatabaseURL)
	if dsn == "" {
		t.Skipf("%s is not set", EnvDatabaseURL)
	}

	mig, err := migrate.New("file://"+migrationsDir(), dsn)
	require.NoError(t, err)

	if err = mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("migrate test database: %v", err)
	}

	_, _ = mig.Close()

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	return &postgres.Connection{Read: db, Write: db}
}

func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)

	return filepath.Join(filepath.Dir(file), "..", "..", "migrations", "postgres")
}

// Departure inserts a route and one published departure and returns the departure id.
func Departure(t testing.TB, conn *postgres.Connection, capacity, seats int) string {
	t.Helper()

	ctx := context.Background()
	routeID, entryID := uuid.NewString(), uuid.NewString()

	_, err := conn.Write.ExecContext(ctx,
		`INSERT INTO routes (id, from_label, to_label) VALUES ($1, $2, $3)`,
		routeID, "Dar es Salaam "+routeID[:8], "Zanzibar "+routeID[:8])
	require.NoError(t, err)

	_, err = conn.Write.ExecContext(ctx,
		`INSERT INTO time_entries (id, route_id, flight_date, start_time, end_time, price_usd, capacity, seats_available)
		VALUES ($1, $2, '2026-03-02', '09:00', '09:30', 298, $3, $4)`,
		entryID, routeID, capacity, seats)
	require.NoError(t, err)

	return entryID
}

// Booking inserts a booking holding pax seats on entryID and returns its reference.
func Booking(t testing.TB, conn *postgres.Connection, entryID, status, paymentStatus string, pax int, holdExpiresAt time.Time) string {
	t.Helper()

	id := uuid.NewString()
	ref := "T-" + id[:8]

	_, err := conn.Write.ExecContext(context.Background(),
		`INSERT INTO bookings (id, booking_ref, time_entry_id, user_id, pax, status, payment_status, hold_expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, ref, entryID, uuid.NewString(), pax, status, paymentStatus, holdExpiresAt)
	require.NoError(t, err)

	return ref
}

func Seats(t testing.TB, conn *postgres.Connection, entryID string) int {
	t.Helper()

	var seats int
	require.NoError(t, conn.Read.GetContext(context.Background(), &seats,
		`SELECT seats_available FROM time_entries WHERE id = $1`, entryID))

	return seats
}

func Status(t testing.TB, conn *postgres.Connection, ref string) (status, paymentStatus string) {
	t.Helper()

	row := conn.Read.QueryRowxContext(context.Background(),
		`SELECT status, payment_status FROM bookings WHERE booking_ref = $1`, ref)
	require.NoError(t, row.Scan(&status, &paymentStatus))

	return status, paymentStatus
}
