package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"soundwell/adapters/mongo/pipeline"
	"soundwell/domain/invitation"
	"soundwell/internal/config"
	"soundwell/internal/errors"
	"soundwell/ports"
)

// InvitationRepositoryImpl implements ports.InvitationRepository.
type InvitationRepositoryImpl struct {
	collection *mongo.Collection
}

// NewInvitationRepository creates an invitation repository.
func NewInvitationRepository(db *mongo.Database) ports.InvitationRepository {
	return &InvitationRepositoryImpl{collection: db.Collection(pipeline.CollectionInvitations)}
}

// Create records an invitation. Re-inviting the same client returns the
// existing record.
func (r *InvitationRepositoryImpl) Create(ctx context.Context, from, to string) (*invitation.Invitation, error) {
	existing := &invitation.Invitation{}
	err := r.collection.FindOne(ctx, bson.M{"from": from, "to": to}).Decode(existing)
	if err == nil {
		return existing, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, errors.StoreError("failed to look up invitation", err)
	}

	inv := &invitation.Invitation{From: from, To: to}
	res, err := r.collection.InsertOne(ctx, inv)
	if err != nil {
		return nil, errors.StoreError("failed to create invitation", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		inv.ID = id
	}
	return inv, nil
}

// Remove deletes the invitation.
func (r *InvitationRepositoryImpl) Remove(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.StoreError("failed to remove invitation", err)
	}
	if res.DeletedCount == 0 {
		return errors.NotFound("invitation")
	}
	return nil
}

// FindByID returns the invitation or a not-found error.
func (r *InvitationRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*invitation.Invitation, error) {
	inv := &invitation.Invitation{}
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(inv)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("invitation")
	} else if err != nil {
		return nil, errors.StoreError("failed to find invitation", err)
	}
	return inv, nil
}

// FindBySender pages invitations a therapist sent.
func (r *InvitationRepositoryImpl) FindBySender(ctx context.Context, email string, page ports.Page) ([]invitation.Invitation, int, error) {
	return r.list(ctx, bson.M{"from": email}, page)
}

// FindByRecipient pages invitations a client received.
func (r *InvitationRepositoryImpl) FindByRecipient(ctx context.Context, email string, page ports.Page) ([]invitation.Invitation, int, error) {
	return r.list(ctx, bson.M{"to": email}, page)
}

func (r *InvitationRepositoryImpl) list(ctx context.Context, filter bson.M, page ports.Page) ([]invitation.Invitation, int, error) {
	if page.Limit <= 0 {
		page.Limit = config.ListLimit
	}

	cursor, err := r.collection.Find(ctx, filter,
		options.Find().SetSkip(int64(page.Skip)).SetLimit(int64(page.Limit)))
	if err != nil {
		return nil, 0, errors.StoreError("failed to list invitations", err)
	}
	defer cursor.Close(ctx)

	invitations := make([]invitation.Invitation, 0)
	if err := cursor.All(ctx, &invitations); err != nil {
		return nil, 0, errors.StoreError("failed to decode invitations", err)
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, errors.StoreError("failed to count invitations", err)
	}

	return invitations, int(total), nil
}
