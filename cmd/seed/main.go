// Command seed installs the fixed question catalog and exits. Useful
// for provisioning a fresh database without starting the server.
package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"

	"soundwell/adapters/mongo"
	"soundwell/app"
	"soundwell/internal/config"
	"soundwell/internal/logging"
)

func main() {
	_ = godotenv.Load()

	log := logging.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, db, err := mongo.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to store")
	}
	defer client.Disconnect(ctx)

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.WithError(err).Fatal("failed to ensure indexes")
	}

	if err := app.NewSeeder(mongo.NewQuestionRepository(db)).Seed(ctx); err != nil {
		log.WithError(err).Fatal("failed to seed question catalog")
	}
	log.Info("question catalog seeded")
}
