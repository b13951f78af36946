package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"soundwell/adapters/mongo/pipeline"
	"soundwell/domain/comment"
	"soundwell/internal/errors"
	"soundwell/ports"
)

// CommentRepositoryImpl implements ports.CommentRepository.
type CommentRepositoryImpl struct {
	collection *mongo.Collection
}

// NewCommentRepository creates a comment repository.
func NewCommentRepository(db *mongo.Database) ports.CommentRepository {
	return &CommentRepositoryImpl{collection: db.Collection(pipeline.CollectionComments)}
}

// CreateMany inserts the comments in one batch and returns their ids in
// input order. New comments start unread.
func (r *CommentRepositoryImpl) CreateMany(ctx context.Context, comments []comment.Comment) ([]primitive.ObjectID, error) {
	if len(comments) == 0 {
		return []primitive.ObjectID{}, nil
	}

	now := time.Now()
	docs := make([]interface{}, 0, len(comments))
	for _, c := range comments {
		c.Unread = true
		c.CreatedAt = now
		c.UpdatedAt = now
		docs = append(docs, c)
	}

	res, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return nil, errors.StoreError("failed to create comments", err)
	}

	ids := make([]primitive.ObjectID, 0, len(res.InsertedIDs))
	for _, raw := range res.InsertedIDs {
		if id, ok := raw.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
