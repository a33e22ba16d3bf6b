// Package config loads settings from the environment, optionally seeded from a local .env file.
// Nested structs map to underscore-joined variable names, e.g. DB_POSTGRES_WRITE_HOST.
package config

import (
	"errors"
	"io/fs"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// PostgresEndpoint is one side of the read/write split.
type PostgresEndpoint struct {
	Host     string `envconfig:"HOST"     default:"localhost"`
	Port     string `envconfig:"PORT"     default:"5432"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"       default:"development"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT"      default:"8080"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"5"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"   default:"10"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME" default:"charter"`
		Timezone string `envconfig:"TIMEZONE"`
		APIKey   string `envconfig:"API_KEY"`
		CORS     struct {
			Enable           bool     `envconfig:"ENABLE"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"   default:"120"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
		} `envconfig:"RATE_LIMITER"`
	} `envconfig:"APP"`

	Cache struct {
		TTL   int `envconfig:"TTL" default:"300"`
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"     default:"localhost"`
				Port     string `envconfig:"PORT"     default:"6379"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret     string `envconfig:"ACCESS_SECRET"`
		RefreshSecret    string `envconfig:"REFRESH_SECRET"`
		AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN"  default:"15"`
		RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN" default:"10080"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int              `envconfig:"MAX_RETRY"       default:"5"`
			RetryWaitTime  int              `envconfig:"RETRY_WAIT_TIME" default:"3"`
			MigrationTable string           `envconfig:"MIGRATION_TABLE"`
			AutoMigrate    bool             `envconfig:"AUTO_MIGRATE"`
			Prefix         string           `envconfig:"PREFIX"`
			Read           PostgresEndpoint `envconfig:"READ"`
			Write          PostgresEndpoint `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Brokers       []string `envconfig:"BROKERS"`
		ConsumerGroup string   `envconfig:"CONSUMER_GROUP" default:"charter-worker"`
		SASL          struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
		Topics struct {
			BookingConfirmed  string `envconfig:"BOOKING_CONFIRMED"  default:"booking.confirmed"`
			NotificationEmail string `envconfig:"NOTIFICATION_EMAIL" default:"notification.email"`
		} `envconfig:"TOPICS"`
	} `envconfig:"KAFKA"`

	Booking struct {
		HoldMinutes       int    `envconfig:"HOLD_MINUTES"       default:"15"`
		ReferencePrefix   string `envconfig:"REFERENCE_PREFIX"   default:"FSB-"`
		ReferenceLength   int    `envconfig:"REFERENCE_LENGTH"   default:"6"`
		ReferenceAttempts int    `envconfig:"REFERENCE_ATTEMPTS" default:"10"`
		DefaultFXRate     int    `envconfig:"DEFAULT_FX_RATE"    default:"2450"`
		OpsEmail          string `envconfig:"OPS_EMAIL"          default:"ops@charter.local"`
	} `envconfig:"BOOKING"`

	Worker struct {
		SweepIntervalSeconds       int    `envconfig:"SWEEP_INTERVAL_SECONDS"        default:"60"`
		SlotIntervalSeconds        int    `envconfig:"SLOT_INTERVAL_SECONDS"         default:"21600"`
		TicketRetryIntervalSeconds int    `envconfig:"TICKET_RETRY_INTERVAL_SECONDS" default:"120"`
		TicketRetryBatch           int    `envconfig:"TICKET_RETRY_BATCH"            default:"50"`
		LockTTLSeconds             int    `envconfig:"LOCK_TTL_SECONDS"              default:"55"`
		PresetPlanID               string `envconfig:"PRESET_PLAN_ID"`
		PresetWeeksAhead           int    `envconfig:"PRESET_WEEKS_AHEAD"            default:"4"`
	} `envconfig:"WORKER"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
		S3 struct {
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
			BucketName      string `envconfig:"BUCKET_NAME" default:"charter"`
			PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
		} `envconfig:"S3"`
		Payment struct {
			Host            string `envconfig:"HOST"`
			MerchantID      string `envconfig:"MERCHANT_ID"`
			KeyID           string `envconfig:"KEY_ID"`
			SecretKeyBase64 string `envconfig:"SECRET_KEY_BASE64"`
			WebhookSecret   string `envconfig:"WEBHOOK_SECRET"`
			TimeoutSeconds  int    `envconfig:"TIMEOUT_SECONDS" default:"25"`
		} `envconfig:"PAYMENT"`
	} `envconfig:"EXTERNAL"`
}

var load = sync.OnceValues(Load)

// Load reads .env (when present) and the environment into a fresh Config.
// Variables already set in the environment win over .env entries.
func Load() (*Config, error) {
	switch err := godotenv.Load(); {
	case err == nil:
		log.Info().Msg("environment seeded from .env")
	case errors.Is(err, fs.ErrNotExist):
		log.Debug().Msg("no .env file, using the process environment")
	default:
		log.Warn().Err(err).Msg("ignoring unreadable .env file")
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Init loads the configuration once. Later calls return the first result.
func Init() error {
	_, err := load()

	return err
}

// Get returns the process-wide configuration and exits when the environment cannot be parsed.
func Get() *Config {
	cfg, err := load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	return cfg
}
