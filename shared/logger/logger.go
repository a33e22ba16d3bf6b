package logger

import (
	"io"
	"os"
	"time"

	"charter/config"
	"charter/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger installs a console writer on stdout at trace level until SetLogLevel narrows it.
func InitLogger() {
	Init(os.Stdout)
}

func Init(out io.Writer) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

// ErrorWithStack logs err with the stack of the caller attached.
func ErrorWithStack(err error) {
	if err == nil {
		return
	}

	log.Error().Msgf("%+v", errors.WithStack(err))
}

// SetLogLevel applies SERVER_LOG_LEVEL. An unset or unknown level means debug in development
// and info everywhere else.
func SetLogLevel(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil || cfg.Server.LogLevel == "" {
		level = zerolog.InfoLevel
		if cfg.Server.Env == constant.ServerEnvDevelopment {
			level = zerolog.DebugLevel
		}
	}

	zerolog.SetGlobalLevel(level)

	log.Info().Str("level", level.String()).Msg("log level set")
}
