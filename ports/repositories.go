package ports

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"soundwell/domain/comment"
	"soundwell/domain/invitation"
	"soundwell/domain/question"
	"soundwell/domain/report"
	"soundwell/domain/request"
	"soundwell/domain/session"
	"soundwell/domain/user"
)

// Page carries skip/limit pagination. Zero values mean "use the
// caller's documented default".
type Page struct {
	Limit int
	Skip  int
}

// OverviewParams filters the therapist's client overview.
type OverviewParams struct {
	Search string
	Filter string
	Limit  int
	Skip   int
}

// SessionRepository persists sessions and runs the report aggregations.
// Each aggregation submits a single pipeline and returns the full
// grouped result set, years sorted descending.
type SessionRepository interface {
	Create(ctx context.Context, s *session.Session) (*session.Session, error)
	CountAdverseReactions(ctx context.Context, clientID primitive.ObjectID, r report.Range, topics []question.Topic) ([]report.AdverseReactionRow, error)
	HealthInfo(ctx context.Context, clientID primitive.ObjectID, r report.Range) ([]report.HealthInfoRow, error)
	ListeningReport(ctx context.Context, clientID primitive.ObjectID, r report.Range) ([]report.ListeningRow, error)
	CommentReport(ctx context.Context, clientID primitive.ObjectID, r report.Range) ([]report.CommentRow, error)
	FindByDay(ctx context.Context, clientID primitive.ObjectID, day time.Time) ([]session.Resolved, error)
}

// UserRepository persists accounts and runs the client overview
// aggregation.
type UserRepository interface {
	CreateIfNotExist(ctx context.Context, u *user.User) (*user.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	AttachTherapist(ctx context.Context, clientID, therapistID primitive.ObjectID) error
	UpdateProfile(ctx context.Context, clientID primitive.ObjectID, update user.ProfileUpdate) (*user.User, error)
	UpdateCourse(ctx context.Context, clientID primitive.ObjectID, update user.CourseUpdate) (*user.User, error)
	FindClientOfTherapist(ctx context.Context, therapistID, clientID primitive.ObjectID) (*user.User, error)
	ClientOverview(ctx context.Context, therapistID primitive.ObjectID, params OverviewParams) (*report.ClientOverview, error)
}

// QuestionRepository maintains the reference-stable question catalog.
// Seed methods upsert, keyed by (type, topic) or key, so they are
// idempotent.
type QuestionRepository interface {
	SeedQuestions(ctx context.Context, qs []question.Question) error
	SeedTopics(ctx context.Context, topics []question.TopicEntry) error
	SeedTypes(ctx context.Context, types []question.TypeEntry) error
	FindByTypeAndTopic(ctx context.Context, t question.Type, topic question.Topic) (*question.Question, error)
}

// CommentRepository persists session comments.
type CommentRepository interface {
	CreateMany(ctx context.Context, comments []comment.Comment) ([]primitive.ObjectID, error)
}

// RequestListing is a page of requests with the unpaginated total.
type RequestListing struct {
	Requests []request.Request
	Total    int
}

// RequestRepository persists audio review requests.
type RequestRepository interface {
	Create(ctx context.Context, r *request.Request) (*request.Request, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*request.Request, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status request.Status) (*request.Request, error)
	FindByClient(ctx context.Context, clientID primitive.ObjectID, status request.Status, page Page) (*RequestListing, error)
	FindByTherapist(ctx context.Context, therapistID primitive.ObjectID, status request.Status, page Page) (*RequestListing, error)
	FindExpired(ctx context.Context, olderThan time.Time) (*RequestListing, error)
}

// InvitationRepository persists invites to already-registered clients.
type InvitationRepository interface {
	Create(ctx context.Context, from, to string) (*invitation.Invitation, error)
	Remove(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*invitation.Invitation, error)
	FindBySender(ctx context.Context, email string, page Page) ([]invitation.Invitation, int, error)
	FindByRecipient(ctx context.Context, email string, page Page) ([]invitation.Invitation, int, error)
}
