package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"soundwell/adapters/mongo/pipeline"
	"soundwell/domain/question"
	"soundwell/internal/errors"
	"soundwell/ports"
)

// QuestionRepositoryImpl implements ports.QuestionRepository over the
// three catalog collections.
type QuestionRepositoryImpl struct {
	questions *mongo.Collection
	topics    *mongo.Collection
	types     *mongo.Collection
}

// NewQuestionRepository creates a question catalog repository.
func NewQuestionRepository(db *mongo.Database) ports.QuestionRepository {
	return &QuestionRepositoryImpl{
		questions: db.Collection(pipeline.CollectionQuestions),
		topics:    db.Collection(pipeline.CollectionTopics),
		types:     db.Collection(pipeline.CollectionTypes),
	}
}

// SeedQuestions upserts the catalog keyed by (type, topic). Seeding
// twice never duplicates an entry.
func (r *QuestionRepositoryImpl) SeedQuestions(ctx context.Context, qs []question.Question) error {
	group, gctx := errgroup.WithContext(ctx)
	for _, q := range qs {
		q := q
		group.Go(func() error {
			err := r.questions.FindOneAndUpdate(gctx,
				bson.M{"type": q.Type, "topic": q.Topic},
				bson.M{"$set": bson.M{"label": q.Label, "tags": q.Tags, "type": q.Type, "topic": q.Topic}},
				options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
			).Err()
			if err != nil {
				return errors.Wrapf(err, "failed to seed question %s/%s", q.Type, q.Topic)
			}
			return nil
		})
	}
	return group.Wait()
}

// SeedTopics upserts the topic lookup catalog keyed by key.
func (r *QuestionRepositoryImpl) SeedTopics(ctx context.Context, topics []question.TopicEntry) error {
	group, gctx := errgroup.WithContext(ctx)
	for _, topic := range topics {
		topic := topic
		group.Go(func() error {
			err := r.topics.FindOneAndUpdate(gctx,
				bson.M{"key": topic.Key},
				bson.M{"$set": bson.M{"key": topic.Key, "description": topic.Description}},
				options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
			).Err()
			if err != nil {
				return errors.Wrapf(err, "failed to seed topic %s", topic.Key)
			}
			return nil
		})
	}
	return group.Wait()
}

// SeedTypes upserts the type lookup catalog keyed by key.
func (r *QuestionRepositoryImpl) SeedTypes(ctx context.Context, types []question.TypeEntry) error {
	group, gctx := errgroup.WithContext(ctx)
	for _, t := range types {
		t := t
		group.Go(func() error {
			err := r.types.FindOneAndUpdate(gctx,
				bson.M{"key": t.Key},
				bson.M{"$set": bson.M{"key": t.Key, "description": t.Description}},
				options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
			).Err()
			if err != nil {
				return errors.Wrapf(err, "failed to seed type %s", t.Key)
			}
			return nil
		})
	}
	return group.Wait()
}

// FindByTypeAndTopic resolves the unique catalog entry for the pair.
func (r *QuestionRepositoryImpl) FindByTypeAndTopic(ctx context.Context, t question.Type, topic question.Topic) (*question.Question, error) {
	q := &question.Question{}
	err := r.questions.FindOne(ctx, bson.M{"type": t, "topic": topic}).Decode(q)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("question")
	} else if err != nil {
		return nil, errors.StoreError("failed to find question", err)
	}
	return q, nil
}
