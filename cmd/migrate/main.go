package main

import (
	"os"

	"charter/config"
	"charter/helper"
	"charter/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if len(os.Args) < 2 {
		log.Fatal().Msg("usage: migrate up|down|step-up|drop")
	}

	action, err := helper.ParseAction(os.Args[1])
	if err != nil {
		log.Fatal().Err(err).Msg("invalid migration action")
	}

	if err := helper.Migrate(cfg, action); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
}
