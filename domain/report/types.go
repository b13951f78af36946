package report

import (
	"soundwell/domain/user"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dates at the reporting boundary use this fixed human-readable layout.
const DateLayout = "02/01/2006"

// DateCount is one calendar day's adverse-reaction count.
type DateCount struct {
	Date  string `bson:"date" json:"date"`
	Count int    `bson:"count" json:"count"`
}

// AdverseReactionYear groups a year's daily counts, insertion-ordered.
type AdverseReactionYear struct {
	Year  int         `json:"year"`
	Items []DateCount `json:"items"`
}

// DateValue is one calendar day's averaged rating.
type DateValue struct {
	Date  string  `bson:"date" json:"date"`
	Value float64 `bson:"value" json:"value"`
}

// TopicSeries is one topic's day-by-day averages within a year.
type TopicSeries struct {
	Topic string      `bson:"topic" json:"topic"`
	Items []DateValue `bson:"items" json:"items"`
}

// HealthInfoYear groups a year's rating averages, topics sorted
// ascending by topic key.
type HealthInfoYear struct {
	Year  int           `json:"year"`
	Items []TopicSeries `json:"items"`
}

// ListeningDay sums one calendar day's listening activity.
type ListeningDay struct {
	Date          string `bson:"date" json:"date"`
	Duration      int    `bson:"duration" json:"duration"`
	Pause         int    `bson:"pause" json:"pause"`
	Interruptions int    `bson:"interruptions" json:"interruptions"`
	Sessions      int    `bson:"sessions" json:"sessions"`
}

// ListeningYear groups a year's listening sums.
type ListeningYear struct {
	Year  int            `json:"year"`
	Items []ListeningDay `json:"items"`
}

// CommentDay counts one calendar day's session comments.
type CommentDay struct {
	Date     string `bson:"date" json:"date"`
	Comments int    `bson:"comments" json:"comments"`
}

// CommentYear groups a year's comment counts.
type CommentYear struct {
	Year  int          `json:"year"`
	Items []CommentDay `json:"items"`
}

// ClientSummary is one row of the therapist's client overview.
type ClientSummary struct {
	ID               primitive.ObjectID `bson:"id" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Course           *user.Course       `bson:"course,omitempty" json:"course,omitempty"`
	UnreadComments   int                `bson:"unreadComments" json:"unreadComments"`
	Requests         int                `bson:"requests" json:"requests"`
	ListeningTime    int                `bson:"listeningTime" json:"listeningTime"`
	AdverseReactions int                `bson:"adverseReactions" json:"adverseReactions"`
}

// ClientOverview is the paginated overview result. A therapist with no
// matching clients yields {Total: 0, Users: []}.
type ClientOverview struct {
	Total int             `bson:"total" json:"total"`
	Users []ClientSummary `bson:"users" json:"users"`
}
