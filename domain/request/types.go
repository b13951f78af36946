package request

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the review state of an audio request. A request leaves
// pending exactly once, to accept or reject.
type Status string

const (
	StatusPending Status = "pending"
	StatusAccept  Status = "accept"
	StatusReject  Status = "reject"
)

// Meta carries upload bookkeeping alongside the request.
type Meta struct {
	FileName    string `bson:"fileName,omitempty" json:"fileName,omitempty"`
	ClientEmail string `bson:"clientEmail,omitempty" json:"clientEmail,omitempty"`
}

// Request asks a therapist to review an uploaded audio file.
type Request struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Status    Status             `bson:"status" json:"status"`
	Client    primitive.ObjectID `bson:"client" json:"client"`
	Therapist primitive.ObjectID `bson:"therapist" json:"therapist"`
	AudioID   string             `bson:"audioId" json:"audioId"`
	Meta      Meta               `bson:"meta,omitempty" json:"meta,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Event names published on the request lifecycle.
const (
	EventCreated  = "request.created"
	EventAccepted = "request.accepted"
	EventRejected = "request.rejected"
	EventExpired  = "request.expired"
)

// Event is the JSON body published for a lifecycle transition.
type Event struct {
	Name          string    `json:"name"`
	CorrelationID string    `json:"correlationId"`
	RequestID     string    `json:"requestId"`
	Client        string    `json:"client"`
	Therapist     string    `json:"therapist"`
	OccurredAt    time.Time `json:"occurredAt"`
}
