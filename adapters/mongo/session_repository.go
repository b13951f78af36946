package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"soundwell/adapters/mongo/pipeline"
	"soundwell/domain/question"
	"soundwell/domain/report"
	"soundwell/domain/session"
	"soundwell/internal/errors"
	"soundwell/ports"
)

// SessionRepositoryImpl implements ports.SessionRepository on the
// record store's aggregation facility.
type SessionRepositoryImpl struct {
	collection *mongo.Collection
}

// NewSessionRepository creates a session repository.
func NewSessionRepository(db *mongo.Database) ports.SessionRepository {
	return &SessionRepositoryImpl{collection: db.Collection(pipeline.CollectionSessions)}
}

// Create inserts a session. Sessions are immutable after creation.
func (r *SessionRepositoryImpl) Create(ctx context.Context, s *session.Session) (*session.Session, error) {
	res, err := r.collection.InsertOne(ctx, s)
	if err != nil {
		return nil, errors.StoreError("failed to create session", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = id
	}
	return s, nil
}

// buildAdverseReactionPipeline counts yes-answers to yes/no questions
// tagged negative_effect, optionally narrowed to the requested topics,
// grouped per (year, date).
func buildAdverseReactionPipeline(clientID primitive.ObjectID, rng report.Range, topics []question.Topic) pipeline.Pipeline {
	p := pipeline.New(
		pipeline.FilterByAuthorAndDateRange(clientID, rng),
		pipeline.UnwindQuestions(),
	)
	p = p.Append(pipeline.FilterQuestions(pipeline.QuestionFilter{
		Answer: "yes",
		Type:   question.TypeYesNo,
		Tags:   []string{question.TagNegativeEffect},
		Topics: topics,
	})...)
	return p.Append(
		pipeline.CountQuestionsByYear(),
		groupDateCountsByYear(),
		pipeline.SortByIDDescending(),
	)
}

// groupDateCountsByYear regroups (year, date) counts into per-year item
// arrays, insertion-ordered.
func groupDateCountsByYear() pipeline.Stage {
	return pipeline.Stage{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: "$_id.year"},
		{Key: "items", Value: bson.D{{Key: "$push", Value: bson.D{
			{Key: "date", Value: "$_id.date"},
			{Key: "count", Value: "$total"},
		}}}},
	}}}
}

// CountAdverseReactions runs the adverse-reaction pipeline, years
// sorted descending.
func (r *SessionRepositoryImpl) CountAdverseReactions(ctx context.Context, clientID primitive.ObjectID, rng report.Range, topics []question.Topic) ([]report.AdverseReactionRow, error) {
	rows := make([]report.AdverseReactionRow, 0)
	if err := r.aggregate(ctx, buildAdverseReactionPipeline(clientID, rng, topics), &rows); err != nil {
		return nil, errors.Wrap(err, "adverse reaction aggregation failed")
	}
	return rows, nil
}

// buildHealthInfoPipeline averages rating answers per (topic, year,
// date), then nests dates under topics under years. Non-numeric or
// missing answers convert to 0 rather than failing; that leniency is
// part of the reporting contract.
func buildHealthInfoPipeline(clientID primitive.ObjectID, rng report.Range) pipeline.Pipeline {
	p := pipeline.New(
		pipeline.FilterByAuthorAndDateRange(clientID, rng),
		pipeline.UnwindQuestions(),
	)
	p = p.Append(pipeline.FilterQuestions(pipeline.QuestionFilter{Type: question.TypeRating})...)

	return p.Append(
		pipeline.Stage{{Key: "$project", Value: bson.D{
			{Key: "answerInt", Value: bson.D{{Key: "$convert", Value: bson.D{
				{Key: "input", Value: "$questions.answer"},
				{Key: "to", Value: "int"},
				{Key: "onError", Value: 0},
				{Key: "onNull", Value: 0},
			}}}},
			// The catalog lookup leaves questions.question as a
			// one-element array; take the scalar topic out of it.
			{Key: "topic", Value: bson.D{{Key: "$first", Value: "$questions.question.topic"}}},
			{Key: "startTime", Value: "$startTime"},
		}}},
		pipeline.Stage{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "topic", Value: "$topic"},
				{Key: "year", Value: pipeline.YearOf("$startTime")},
				{Key: "date", Value: pipeline.DateStringOf("$startTime")},
			}},
			{Key: "answerInt", Value: bson.D{{Key: "$avg", Value: "$answerInt"}}},
		}}},
		pipeline.Stage{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "topic", Value: "$_id.topic"},
				{Key: "year", Value: "$_id.year"},
			}},
			{Key: "items", Value: bson.D{{Key: "$push", Value: bson.D{
				{Key: "date", Value: "$_id.date"},
				{Key: "value", Value: "$answerInt"},
			}}}},
		}}},
		pipeline.Stage{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$_id.year"},
			{Key: "items", Value: bson.D{{Key: "$push", Value: bson.D{
				{Key: "topic", Value: "$_id.topic"},
				{Key: "items", Value: "$items"},
			}}}},
		}}},
		pipeline.Stage{{Key: "$project", Value: bson.D{
			{Key: "year", Value: "$_id"},
			{Key: "items", Value: bson.D{{Key: "$sortArray", Value: bson.D{
				{Key: "input", Value: "$items"},
				{Key: "sortBy", Value: bson.D{{Key: "topic", Value: 1}}},
			}}}},
		}}},
		pipeline.Stage{{Key: "$sort", Value: bson.D{{Key: "year", Value: -1}}}},
	)
}

// HealthInfo runs the health-info pipeline.
func (r *SessionRepositoryImpl) HealthInfo(ctx context.Context, clientID primitive.ObjectID, rng report.Range) ([]report.HealthInfoRow, error) {
	rows := make([]report.HealthInfoRow, 0)
	if err := r.aggregate(ctx, buildHealthInfoPipeline(clientID, rng), &rows); err != nil {
		return nil, errors.Wrap(err, "health info aggregation failed")
	}
	return rows, nil
}

// buildListeningPipeline sums duration, pause and interruptions and
// counts sessions per (year, date). No question unwinding.
func buildListeningPipeline(clientID primitive.ObjectID, rng report.Range) pipeline.Pipeline {
	return pipeline.New(
		pipeline.FilterByAuthorAndDateRange(clientID, rng),
		pipeline.Stage{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "date", Value: pipeline.DateStringOf("$startTime")},
				{Key: "year", Value: pipeline.YearOf("$startTime")},
			}},
			{Key: "duration", Value: bson.D{{Key: "$sum", Value: "$duration"}}},
			{Key: "pause", Value: bson.D{{Key: "$sum", Value: "$pause"}}},
			{Key: "interruptions", Value: bson.D{{Key: "$sum", Value: "$interruptions"}}},
			{Key: "sessions", Value: bson.D{{Key: "$count", Value: bson.D{}}}},
		}}},
		pipeline.Stage{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$_id.year"},
			{Key: "items", Value: bson.D{{Key: "$push", Value: bson.D{
				{Key: "date", Value: "$_id.date"},
				{Key: "duration", Value: "$duration"},
				{Key: "pause", Value: "$pause"},
				{Key: "interruptions", Value: "$interruptions"},
				{Key: "sessions", Value: "$sessions"},
			}}}},
		}}},
		pipeline.SortByIDDescending(),
	)
}

// ListeningReport runs the listening-time pipeline.
func (r *SessionRepositoryImpl) ListeningReport(ctx context.Context, clientID primitive.ObjectID, rng report.Range) ([]report.ListeningRow, error) {
	rows := make([]report.ListeningRow, 0)
	if err := r.aggregate(ctx, buildListeningPipeline(clientID, rng), &rows); err != nil {
		return nil, errors.Wrap(err, "listening report aggregation failed")
	}
	return rows, nil
}

// buildCommentPipeline sums each session's comment count per (year,
// date). Items carry only date and comments.
func buildCommentPipeline(clientID primitive.ObjectID, rng report.Range) pipeline.Pipeline {
	return pipeline.New(
		pipeline.FilterByAuthorAndDateRange(clientID, rng),
		pipeline.Stage{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "date", Value: pipeline.DateStringOf("$startTime")},
				{Key: "year", Value: pipeline.YearOf("$startTime")},
			}},
			{Key: "comments", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$size", Value: "$comments"}}}}},
		}}},
		pipeline.Stage{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$_id.year"},
			{Key: "items", Value: bson.D{{Key: "$push", Value: bson.D{
				{Key: "date", Value: "$_id.date"},
				{Key: "comments", Value: "$comments"},
			}}}},
		}}},
		pipeline.SortByIDDescending(),
	)
}

// CommentReport runs the comment-count pipeline.
func (r *SessionRepositoryImpl) CommentReport(ctx context.Context, clientID primitive.ObjectID, rng report.Range) ([]report.CommentRow, error) {
	rows := make([]report.CommentRow, 0)
	if err := r.aggregate(ctx, buildCommentPipeline(clientID, rng), &rows); err != nil {
		return nil, errors.Wrap(err, "comment report aggregation failed")
	}
	return rows, nil
}

// buildDayReportPipeline loads a day's sessions with their comment and
// question references resolved against the respective collections.
func buildDayReportPipeline(clientID primitive.ObjectID, dayStart, dayEnd time.Time) pipeline.Pipeline {
	return pipeline.New(
		pipeline.Stage{{Key: "$match", Value: bson.D{
			{Key: "author", Value: clientID},
			{Key: "startTime", Value: bson.D{
				{Key: "$gte", Value: dayStart},
				{Key: "$lte", Value: dayEnd},
			}},
		}}},
		pipeline.Stage{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: pipeline.CollectionComments},
			{Key: "localField", Value: "comments"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "comments"},
		}}},
		pipeline.Stage{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: pipeline.CollectionQuestions},
			{Key: "localField", Value: "questions.question"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "questionRefs"},
		}}},
		pipeline.Stage{{Key: "$project", Value: bson.D{
			{Key: "author", Value: "$author"},
			{Key: "startTime", Value: "$startTime"},
			{Key: "duration", Value: "$duration"},
			{Key: "pause", Value: "$pause"},
			{Key: "interruptions", Value: "$interruptions"},
			{Key: "comments", Value: "$comments"},
			{Key: "questions", Value: bson.D{{Key: "$map", Value: bson.D{
				{Key: "input", Value: "$questions"},
				{Key: "as", Value: "item"},
				{Key: "in", Value: bson.D{
					{Key: "answer", Value: "$$item.answer"},
					{Key: "question", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{
						bson.D{{Key: "$filter", Value: bson.D{
							{Key: "input", Value: "$questionRefs"},
							{Key: "as", Value: "ref"},
							{Key: "cond", Value: bson.D{{Key: "$eq", Value: bson.A{"$$ref._id", "$$item.question"}}}},
						}}},
						0,
					}}}},
				}},
			}}}},
		}}},
	)
}

// FindByDay returns the client's fully resolved sessions for one
// calendar day.
func (r *SessionRepositoryImpl) FindByDay(ctx context.Context, clientID primitive.ObjectID, day time.Time) ([]session.Resolved, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	sessions := make([]session.Resolved, 0)
	if err := r.aggregate(ctx, buildDayReportPipeline(clientID, dayStart, dayEnd), &sessions); err != nil {
		return nil, errors.Wrap(err, "day report aggregation failed")
	}
	return sessions, nil
}

// aggregate submits one pipeline and decodes the full result set.
func (r *SessionRepositoryImpl) aggregate(ctx context.Context, p pipeline.Pipeline, out interface{}) error {
	cursor, err := r.collection.Aggregate(ctx, p)
	if err != nil {
		return errors.StoreError("aggregation failed", err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return errors.StoreError("failed to decode aggregation result", err)
	}
	return nil
}
