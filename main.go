package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"soundwell/internal/config"
	"soundwell/internal/container"
	"soundwell/internal/logging"
	"soundwell/ui"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log := logging.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to wire dependencies")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c.Close(shutdownCtx)
	}()

	if err := c.Seeder.Seed(ctx); err != nil {
		log.WithError(err).Fatal("failed to seed question catalog")
	}
	log.Info("question catalog seeded")

	go c.Sweeper.Run(ctx)

	server := ui.NewServer(cfg.Server, log, c.Users, c.Therapist, c.ClientSvc, c.Reporting)
	if err := server.Run(":" + cfg.Server.Port); err != nil {
		log.WithError(err).Fatal("http server stopped")
	}
}
