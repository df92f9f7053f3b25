package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	customerx "github.com/supportlab/triage-agent/agent/customer"
	configx "github.com/supportlab/triage-agent/pkg/config"
	logx "github.com/supportlab/triage-agent/pkg/logger"
	sandboxx "github.com/supportlab/triage-agent/pkg/sandbox"
)

type gatewayConfig struct {
	Listen string `envconfig:"LISTEN" split_words:"true" default:":8090"`
}

func main() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))

	cfg := configx.MustNew[gatewayConfig]("SANDBOX")

	db, err := customerx.Connect(*configx.MustNew[customerx.Config]("POSTGRES"))
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer db.Close()

	store, err := customerx.NewStore(db)
	if err != nil {
		log.Fatal().Err(err).Msg("customer store init failed")
	}

	server, err := sandboxx.New(store)
	if err != nil {
		log.Fatal().Err(err).Msg("sandbox gateway init failed")
	}

	go func() {
		log.Info().Str("listen", cfg.Listen).Msg("sandbox gateway started")
		if err := server.Listen(cfg.Listen); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
