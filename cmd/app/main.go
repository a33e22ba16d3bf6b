package main

import (
	"charter/config"
	"charter/di"
	"charter/helper"
	"charter/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title						Charter API
// @version					1.0
// @description				Seat booking, payments and pilot dispatch for scheduled charter flights.
// @BasePath					/v1
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Migrate(cfg, helper.ActionUp); err != nil {
			log.Fatal().Err(err).Msg("auto migration failed")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
