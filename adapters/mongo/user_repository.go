package mongo

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"soundwell/adapters/mongo/pipeline"
	"soundwell/domain/report"
	"soundwell/domain/user"
	"soundwell/internal/config"
	"soundwell/internal/errors"
	"soundwell/ports"
)

// overviewFilterFields maps the caller-facing filter names onto the
// pipeline fields they match against. Anything else is rejected.
var overviewFilterFields = map[string]string{
	"adverseReactions": "adverseReactions",
	"requests":         "requests",
	"listeningTime":    "listeningTime",
	"unreadComments":   "comments",
}

// UserRepositoryImpl implements ports.UserRepository.
type UserRepositoryImpl struct {
	collection *mongo.Collection
}

// NewUserRepository creates a user repository.
func NewUserRepository(db *mongo.Database) ports.UserRepository {
	return &UserRepositoryImpl{collection: db.Collection(pipeline.CollectionUsers)}
}

// CreateIfNotExist inserts the user unless an account with the same
// email already exists, in which case the existing record is returned.
func (r *UserRepositoryImpl) CreateIfNotExist(ctx context.Context, u *user.User) (*user.User, error) {
	existing := &user.User{}
	err := r.collection.FindOne(ctx, bson.M{"email": u.Email}).Decode(existing)
	if err == nil {
		return existing, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, errors.StoreError("failed to look up user", err)
	}

	res, err := r.collection.InsertOne(ctx, u)
	if err != nil {
		return nil, errors.StoreError("failed to create user", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = id
	}
	return u, nil
}

// FindByID returns the user or a not-found error.
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*user.User, error) {
	u := &user.User{}
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(u)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("user")
	} else if err != nil {
		return nil, errors.StoreError("failed to find user", err)
	}
	return u, nil
}

// FindByEmail returns the user or a not-found error.
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	u := &user.User{}
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(u)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("user")
	} else if err != nil {
		return nil, errors.StoreError("failed to find user", err)
	}
	return u, nil
}

// AttachTherapist points a client at their therapist.
func (r *UserRepositoryImpl) AttachTherapist(ctx context.Context, clientID, therapistID primitive.ObjectID) error {
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": clientID},
		bson.M{"$set": bson.M{"therapist": therapistID, "status": user.StatusActive}},
	).Err()
	if err == mongo.ErrNoDocuments {
		return errors.NotFound("client")
	} else if err != nil {
		return errors.StoreError("failed to attach therapist", err)
	}
	return nil
}

// UpdateProfile applies the patchable profile fields and returns the
// updated record.
func (r *UserRepositoryImpl) UpdateProfile(ctx context.Context, clientID primitive.ObjectID, update user.ProfileUpdate) (*user.User, error) {
	set := bson.M{}
	if update.Name != nil {
		set["nickname"] = *update.Name
	}
	if len(set) == 0 {
		return r.FindByID(ctx, clientID)
	}

	u := &user.User{}
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": clientID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(u)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("client")
	} else if err != nil {
		return nil, errors.StoreError("failed to update profile", err)
	}
	return u, nil
}

// UpdateCourse patches the client's course with dotted field updates so
// untouched course fields survive.
func (r *UserRepositoryImpl) UpdateCourse(ctx context.Context, clientID primitive.ObjectID, update user.CourseUpdate) (*user.User, error) {
	set := bson.M{}
	if update.TotalTime != nil {
		set["course.totalTime"] = *update.TotalTime
	}
	if update.MaxTimePerDay != nil {
		set["course.maxTimePerDay"] = *update.MaxTimePerDay
	}
	if update.MaxTimePerSession != nil {
		set["course.maxTimePerSession"] = *update.MaxTimePerSession
	}
	if update.StartDate != nil {
		set["course.startDate"] = *update.StartDate
	}
	if update.EndDate != nil {
		set["course.endDate"] = *update.EndDate
	}
	if update.ShouldReset != nil {
		set["course.shouldReset"] = *update.ShouldReset
	}
	if len(set) == 0 {
		return r.FindByID(ctx, clientID)
	}

	u := &user.User{}
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": clientID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(u)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("client")
	} else if err != nil {
		return nil, errors.StoreError("failed to update course", err)
	}
	return u, nil
}

// FindClientOfTherapist returns the client only when they belong to the
// therapist.
func (r *UserRepositoryImpl) FindClientOfTherapist(ctx context.Context, therapistID, clientID primitive.ObjectID) (*user.User, error) {
	u := &user.User{}
	err := r.collection.FindOne(ctx, bson.M{"_id": clientID, "therapist": therapistID}).Decode(u)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("client")
	} else if err != nil {
		return nil, errors.StoreError("failed to find client", err)
	}
	return u, nil
}

// buildClientOverviewPipeline joins each matching client to their
// sessions, requests and comments and derives the summary counters.
// Listening time sums duration over every session; the 30-day cutoff
// applies only to the question-answer flattening. The optional filter
// restricts a summary field to values > 0 before pagination.
func buildClientOverviewPipeline(therapistID primitive.ObjectID, params ports.OverviewParams) pipeline.Pipeline {
	limit := params.Limit
	if limit <= 0 {
		limit = config.OverviewLimit
	}
	skip := params.Skip
	if skip < 0 {
		skip = config.DefaultSkip
	}

	p := pipeline.New(
		// An empty search compiles to an empty pattern, which matches
		// every nickname.
		pipeline.Stage{{Key: "$match", Value: bson.D{
			{Key: "therapist", Value: therapistID},
			{Key: "nickname", Value: bson.D{
				{Key: "$regex", Value: primitive.Regex{Pattern: regexp.QuoteMeta(params.Search), Options: "i"}},
			}},
		}}},
		lookupStage(pipeline.CollectionSessions, "_id", "author", "sessions"),
		lookupStage(pipeline.CollectionRequests, "_id", "client", "requests"),
		lookupStage(pipeline.CollectionComments, "_id", "author", "comments"),
		pipeline.Stage{{Key: "$project", Value: bson.D{
			{Key: "name", Value: "$nickname"},
			{Key: "course", Value: "$course"},
			{Key: "sessions", Value: "$sessions"},
			{Key: "requests", Value: "$requests"},
			{Key: "comments", Value: "$comments"},
			{Key: "minTime", Value: bson.D{{Key: "$dateSubtract", Value: bson.D{
				{Key: "startDate", Value: "$$NOW"},
				{Key: "unit", Value: "day"},
				{Key: "amount", Value: 30},
			}}}},
		}}},
		pipeline.Stage{{Key: "$project", Value: bson.D{
			{Key: "name", Value: "$name"},
			{Key: "course", Value: "$course"},
			{Key: "sessions", Value: bson.D{{Key: "$filter", Value: bson.D{
				{Key: "input", Value: "$sessions"},
				{Key: "as", Value: "item"},
				{Key: "cond", Value: bson.D{{Key: "$gte", Value: bson.A{"$$item.startTime", "$minTime"}}}},
			}}}},
			{Key: "listeningTime", Value: bson.D{{Key: "$sum", Value: "$sessions.duration"}}},
			{Key: "requests", Value: bson.D{{Key: "$size", Value: "$requests"}}},
			{Key: "comments", Value: bson.D{{Key: "$size", Value: bson.D{{Key: "$filter", Value: bson.D{
				{Key: "input", Value: "$comments"},
				{Key: "as", Value: "item"},
				{Key: "cond", Value: bson.D{{Key: "$eq", Value: bson.A{"$$item.unread", true}}}},
			}}}}}},
		}}},
		pipeline.Stage{{Key: "$project", Value: bson.D{
			{Key: "name", Value: "$name"},
			{Key: "course", Value: "$course"},
			{Key: "questions", Value: bson.D{{Key: "$filter", Value: bson.D{
				{Key: "input", Value: bson.D{{Key: "$reduce", Value: bson.D{
					{Key: "input", Value: "$sessions.questions"},
					{Key: "initialValue", Value: bson.A{}},
					{Key: "in", Value: bson.D{{Key: "$concatArrays", Value: bson.A{"$$value", "$$this"}}}},
				}}}},
				{Key: "as", Value: "item"},
				{Key: "cond", Value: bson.D{{Key: "$eq", Value: bson.A{"$$item.answer", "yes"}}}},
			}}}},
			{Key: "listeningTime", Value: "$listeningTime"},
			{Key: "comments", Value: "$comments"},
			{Key: "requests", Value: "$requests"},
		}}},
		lookupStage(pipeline.CollectionQuestions, "questions.question", "_id", "questionRefs"),
		pipeline.Stage{{Key: "$project", Value: bson.D{
			{Key: "name", Value: "$name"},
			{Key: "course", Value: "$course"},
			{Key: "comments", Value: "$comments"},
			{Key: "requests", Value: "$requests"},
			{Key: "listeningTime", Value: "$listeningTime"},
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
		pipeline.Stage{{Key: "$project", Value: bson.D{
			{Key: "name", Value: "$name"},
			{Key: "course", Value: "$course"},
			{Key: "comments", Value: "$comments"},
			{Key: "requests", Value: "$requests"},
			{Key: "listeningTime", Value: "$listeningTime"},
			{Key: "adverseReactions", Value: bson.D{{Key: "$size", Value: bson.D{{Key: "$filter", Value: bson.D{
				{Key: "input", Value: "$questions"},
				{Key: "as", Value: "item"},
				{Key: "cond", Value: bson.D{{Key: "$in", Value: bson.A{"negative_effect", "$$item.question.tags"}}}},
			}}}}}},
		}}},
	)

	if field, ok := overviewFilterFields[params.Filter]; ok {
		p = p.Append(pipeline.Stage{{Key: "$match", Value: bson.D{
			{Key: field, Value: bson.D{{Key: "$gt", Value: 0}}},
		}}})
	}

	return p.Append(
		pipeline.Stage{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "users", Value: bson.D{{Key: "$push", Value: bson.D{
				{Key: "id", Value: "$_id"},
				{Key: "name", Value: "$name"},
				{Key: "course", Value: "$course"},
				{Key: "unreadComments", Value: "$comments"},
				{Key: "requests", Value: "$requests"},
				{Key: "listeningTime", Value: "$listeningTime"},
				{Key: "adverseReactions", Value: "$adverseReactions"},
			}}}},
		}}},
		pipeline.Stage{{Key: "$project", Value: bson.D{
			{Key: "total", Value: "$total"},
			{Key: "users", Value: bson.D{{Key: "$slice", Value: bson.A{"$users", skip, limit}}}},
		}}},
	)
}

// ClientOverview runs the overview pipeline. A therapist with no
// matching clients yields an explicit empty result.
func (r *UserRepositoryImpl) ClientOverview(ctx context.Context, therapistID primitive.ObjectID, params ports.OverviewParams) (*report.ClientOverview, error) {
	cursor, err := r.collection.Aggregate(ctx, buildClientOverviewPipeline(therapistID, params))
	if err != nil {
		return nil, errors.StoreError("client overview aggregation failed", err)
	}
	defer cursor.Close(ctx)

	rows := make([]report.ClientOverview, 0)
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, errors.StoreError("failed to decode client overview", err)
	}

	if len(rows) == 0 {
		return &report.ClientOverview{Total: 0, Users: []report.ClientSummary{}}, nil
	}
	overview := rows[0]
	if overview.Users == nil {
		overview.Users = []report.ClientSummary{}
	}
	return &overview, nil
}

// lookupStage joins a one-to-many related collection into an array
// field.
func lookupStage(from, localField, foreignField, as string) pipeline.Stage {
	return pipeline.Stage{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: foreignField},
		{Key: "as", Value: as},
	}}}
}
