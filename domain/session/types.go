package session

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"soundwell/domain/comment"
	"soundwell/domain/question"
)

// Answer links one answered catalog question to its answer string.
type Answer struct {
	Question primitive.ObjectID `bson:"question" json:"question"`
	Answer   string             `bson:"answer" json:"answer"`
}

// Session is one completed listening session. It is created atomically
// on submission and never updated; startTime is immutable and duration
// is non-negative.
type Session struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Author        primitive.ObjectID   `bson:"author" json:"author"`
	StartTime     time.Time            `bson:"startTime" json:"startTime"`
	Duration      int                  `bson:"duration" json:"duration"`
	Pause         int                  `bson:"pause" json:"pause"`
	Interruptions int                  `bson:"interruptions" json:"interruptions"`
	Questions     []Answer             `bson:"questions" json:"questions"`
	Comments      []primitive.ObjectID `bson:"comments" json:"comments"`
}

// ResolvedAnswer is an answer with the catalog entry joined in.
type ResolvedAnswer struct {
	Question question.Question `bson:"question" json:"question"`
	Answer   string            `bson:"answer" json:"answer"`
}

// Resolved is a session with question and comment references resolved,
// as returned by the per-day report.
type Resolved struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	Author        primitive.ObjectID `bson:"author" json:"author"`
	StartTime     time.Time          `bson:"startTime" json:"startTime"`
	Duration      int                `bson:"duration" json:"duration"`
	Pause         int                `bson:"pause" json:"pause"`
	Interruptions int                `bson:"interruptions" json:"interruptions"`
	Questions     []ResolvedAnswer   `bson:"questions" json:"questions"`
	Comments      []comment.Comment  `bson:"comments" json:"comments"`
}
