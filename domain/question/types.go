package question

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Type is the answer shape of a catalog question.
type Type string

const (
	TypeYesNo  Type = "yes_no"
	TypeRating Type = "rating"
)

// Topic is the fixed wellness category a question asks about.
type Topic string

const (
	TopicSleep            Topic = "sleep"
	TopicEnergy           Topic = "energy"
	TopicAnxiety          Topic = "anxiety"
	TopicDizziness        Topic = "dizziness"
	TopicNausea           Topic = "nausea"
	TopicTunnelVision     Topic = "tunnel_vision"
	TopicHearingSensitive Topic = "unpleasant_hearing_sensitive"
	TopicTremblingBody    Topic = "trembling_body"
	TopicSeparateThought  Topic = "seperation_thought"
	TopicMindQuieter      Topic = "mind_quieter"
	TopicAwarenessBody    Topic = "awareness_body"
)

// Question tags. An adverse reaction is a yes/no question tagged
// TagNegativeEffect answered "yes".
const (
	TagPreSession     = "pre_session"
	TagPostSession    = "post_session"
	TagHealth         = "health"
	TagNegativeEffect = "negative_effect"
	TagPositiveEffect = "positive_effect"
)

// Question is a catalog entry. The catalog holds exactly one question
// per (type, topic) pair and is reference-stable after seeding.
type Question struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Label string             `bson:"label" json:"label"`
	Type  Type               `bson:"type" json:"type"`
	Topic Topic              `bson:"topic" json:"topic"`
	Tags  []string           `bson:"tags" json:"tags"`
}

// TopicEntry and TypeEntry are the lookup catalogs for the fixed enums,
// keyed by their string value.
type TopicEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Key         string             `bson:"key" json:"key"`
	Description string             `bson:"description" json:"description"`
}

type TypeEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Key         string             `bson:"key" json:"key"`
	Description string             `bson:"description" json:"description"`
}
