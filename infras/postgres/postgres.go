package postgres

//nolint:revive
import (
	"net"
	"net/url"
	"time"

	"charter/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	maxIdleConnections = 10
	maxOpenConnections = 20
	connMaxLifetime    = 30 * time.Minute
)

// Connection splits reads from writes. Transactions and seat counters use Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// Endpoint is one postgres target built from config.
type Endpoint struct {
	Role     string
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	SSLMode  string
	Timezone string
}

func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres

	return &Connection{
		Read:  connect(ReadEndpoint(cfg), pg.MaxRetry, pg.RetryWaitTime),
		Write: connect(WriteEndpoint(cfg), pg.MaxRetry, pg.RetryWaitTime),
	}
}

func ReadEndpoint(cfg *config.Config) Endpoint {
	r := cfg.DB.Postgres.Read

	return Endpoint{
		Role:     "read",
		Host:     r.Host,
		Port:     r.Port,
		Username: r.Username,
		Password: r.Password,
		Name:     cfg.DB.Postgres.Prefix + r.Name,
		SSLMode:  r.SSLMode,
		Timezone: r.Timezone,
	}
}

func WriteEndpoint(cfg *config.Config) Endpoint {
	w := cfg.DB.Postgres.Write

	return Endpoint{
		Role:     "write",
		Host:     w.Host,
		Port:     w.Port,
		Username: w.Username,
		Password: w.Password,
		Name:     cfg.DB.Postgres.Prefix + w.Name,
		SSLMode:  w.SSLMode,
		Timezone: w.Timezone,
	}
}

// DSN renders a postgres URL. Extra query values are appended as-is, which is how the migrator
// passes its x-migrations-table option.
func (e Endpoint) DSN(extra url.Values) string {
	query := url.Values{}

	if e.SSLMode != "" {
		query.Set("sslmode", e.SSLMode)
	}

	if e.Timezone != "" {
		query.Set("timezone", e.Timezone)
	}

	for key, values := range extra {
		for _, v := range values {
			query.Add(key, v)
		}
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(e.Username, e.Password),
		Host:     net.JoinHostPort(e.Host, e.Port),
		Path:     "/" + e.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func connect(e Endpoint, maxRetry, waitSeconds int) *sqlx.DB {
	logger := log.With().Str("role", e.Role).Str("host", e.Host).Str("db", e.Name).Logger()

	if maxRetry < 1 {
		maxRetry = 1
	}

	for attempt := 1; attempt <= maxRetry; attempt++ {
		db, err := sqlx.Connect("postgres", e.DSN(nil))
		if err == nil {
			db.SetMaxIdleConns(maxIdleConnections)
			db.SetMaxOpenConns(maxOpenConnections)
			db.SetConnMaxLifetime(connMaxLifetime)

			logger.Info().Int("attempt", attempt).Msg("postgres connected")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt).Int("max", maxRetry).Msg("postgres unreachable")

		time.Sleep(time.Duration(waitSeconds) * time.Second)
	}

	logger.Fatal().Msgf("giving up on postgres after %d attempts", maxRetry)

	return nil
}
