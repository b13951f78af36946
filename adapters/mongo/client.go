package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"soundwell/adapters/mongo/pipeline"
	"soundwell/internal/config"
	"soundwell/internal/errors"
)

// Connect opens the record store connection and verifies it.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to connect to mongo")
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, errors.Wrap(err, "failed to ping mongo")
	}

	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes creates the indexes the queries and upserts rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(pipeline.CollectionUsers).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("UniqueEmail"),
		},
		{
			Keys:    bson.D{{Key: "therapist", Value: 1}, {Key: "nickname", Value: 1}},
			Options: options.Index().SetName("TherapistClients"),
		},
	})
	if err != nil {
		return errors.Wrap(err, "failed to create user indexes")
	}

	_, err = db.Collection(pipeline.CollectionQuestions).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "type", Value: 1}, {Key: "topic", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("UniqueQuestion"),
		},
	})
	if err != nil {
		return errors.Wrap(err, "failed to create question indexes")
	}

	_, err = db.Collection(pipeline.CollectionSessions).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "author", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index().SetName("AuthorStartTime"),
		},
	})
	if err != nil {
		return errors.Wrap(err, "failed to create session indexes")
	}

	_, err = db.Collection(pipeline.CollectionRequests).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("StatusCreatedAt"),
		},
	})
	if err != nil {
		return errors.Wrap(err, "failed to create request indexes")
	}

	return nil
}
