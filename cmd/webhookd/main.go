package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/quackhq/localops/internal/config"
	"github.com/quackhq/localops/internal/logger"
	"github.com/quackhq/localops/internal/webhook"
)

func main() {
	logger.Init()
	cfg := config.LoadConfig()

	port := cfg.Port
	if len(os.Args) > 1 {
		port = os.Args[1]
	}

	actions := webhook.NewActions(webhook.NewExecRunner())
	registry := webhook.NewRegistry(actions)

	srv := webhook.NewServer(webhook.ServerConfig{
		Addr:        "0.0.0.0:" + port,
		ServiceName: cfg.ServiceName,
	}, registry)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-shutdown
		log.Info().Msg("shutting down...")
		if err := srv.Shutdown(); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().Msgf("actions: notify, sound, say, log, execute (POST to http://localhost:%s)", port)
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
