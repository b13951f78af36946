package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role distinguishes the two actor kinds the backend serves.
type Role string

const (
	RoleClient    Role = "client"
	RoleTherapist Role = "therapist"
)

// Status tracks the lifecycle of an account from invitation onwards.
type Status string

const (
	StatusActive  Status = "active"
	StatusInvited Status = "invited"
	StatusPause   Status = "pause"
)

// Course default limits, in seconds.
const (
	DefaultMaxTimePerDay     = 3 * 60 * 60
	DefaultMaxTimePerSession = 60 * 60
)

// Course is a client's configured listening program.
type Course struct {
	TotalTime         int       `bson:"totalTime" json:"totalTime"`
	MaxTimePerDay     int       `bson:"maxTimePerDay" json:"maxTimePerDay"`
	MaxTimePerSession int       `bson:"maxTimePerSession" json:"maxTimePerSession"`
	StartDate         time.Time `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate           time.Time `bson:"endDate,omitempty" json:"endDate,omitempty"`
	ShouldReset       bool      `bson:"shouldReset" json:"shouldReset"`
}

// User is an account record. Clients carry a back-reference to their
// therapist and a course; therapists carry neither.
type User struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FirstName   string              `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName    string              `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Nickname    string              `bson:"nickname,omitempty" json:"nickname,omitempty"`
	Email       string              `bson:"email,omitempty" json:"email,omitempty"`
	Gender      string              `bson:"gender,omitempty" json:"gender,omitempty"`
	PhoneNumber string              `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Picture     string              `bson:"picture,omitempty" json:"picture,omitempty"`
	Role        Role                `bson:"role" json:"role"`
	Status      Status              `bson:"status" json:"status"`
	Therapist   *primitive.ObjectID `bson:"therapist,omitempty" json:"therapist,omitempty"`
	Course      *Course             `bson:"course,omitempty" json:"course,omitempty"`
}

// CourseUpdate carries the patchable course fields. Nil means "leave as is".
type CourseUpdate struct {
	TotalTime         *int
	MaxTimePerDay     *int
	MaxTimePerSession *int
	StartDate         *time.Time
	EndDate           *time.Time
	ShouldReset       *bool
}

// ProfileUpdate carries the patchable profile fields.
type ProfileUpdate struct {
	Name *string
}
