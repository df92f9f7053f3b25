package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	customerx "github.com/supportlab/triage-agent/agent/customer"
	configx "github.com/supportlab/triage-agent/pkg/config"
	logx "github.com/supportlab/triage-agent/pkg/logger"
)

func main() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))

	db, err := customerx.Connect(*configx.MustNew[customerx.Config]("POSTGRES"))
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer db.Close()

	store, err := customerx.NewStore(db)
	if err != nil {
		log.Fatal().Err(err).Msg("customer store init failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := store.CreateTable(ctx); err != nil {
		log.Fatal().Err(err).Msg("create table failed")
	}

	items := customerx.SeedItems(time.Now().UTC())
	if err := store.Upsert(ctx, items); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}

	log.Info().Int("count", len(items)).Msg("seeded customer contexts")
}
