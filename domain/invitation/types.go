package invitation

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invitation records a pending invite from a therapist to a client who
// already has an account. Both sides are identified by email.
type Invitation struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	From string             `bson:"from" json:"from"`
	To   string             `bson:"to" json:"to"`
}
