package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"soundwell/adapters/mongo/pipeline"
	"soundwell/domain/request"
	"soundwell/internal/config"
	"soundwell/internal/errors"
	"soundwell/ports"
)

// RequestRepositoryImpl implements ports.RequestRepository.
type RequestRepositoryImpl struct {
	collection *mongo.Collection
}

// NewRequestRepository creates a request repository.
func NewRequestRepository(db *mongo.Database) ports.RequestRepository {
	return &RequestRepositoryImpl{collection: db.Collection(pipeline.CollectionRequests)}
}

// Create inserts a request in pending state.
func (r *RequestRepositoryImpl) Create(ctx context.Context, req *request.Request) (*request.Request, error) {
	now := time.Now()
	req.Status = request.StatusPending
	req.CreatedAt = now
	req.UpdatedAt = now

	res, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		return nil, errors.StoreError("failed to create request", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		req.ID = id
	}
	return req, nil
}

// FindByID returns the request or a not-found error.
func (r *RequestRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*request.Request, error) {
	req := &request.Request{}
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(req)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("request")
	} else if err != nil {
		return nil, errors.StoreError("failed to find request", err)
	}
	return req, nil
}

// UpdateStatus transitions the request and returns the updated record.
func (r *RequestRepositoryImpl) UpdateStatus(ctx context.Context, id primitive.ObjectID, status request.Status) (*request.Request, error) {
	req := &request.Request{}
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(req)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("request")
	} else if err != nil {
		return nil, errors.StoreError("failed to update request status", err)
	}
	return req, nil
}

// FindByClient pages a client's requests, optionally by status.
func (r *RequestRepositoryImpl) FindByClient(ctx context.Context, clientID primitive.ObjectID, status request.Status, page ports.Page) (*ports.RequestListing, error) {
	filter := bson.M{"client": clientID}
	if status != "" {
		filter["status"] = status
	}
	return r.list(ctx, filter, page)
}

// FindByTherapist pages a therapist's requests, optionally by status.
func (r *RequestRepositoryImpl) FindByTherapist(ctx context.Context, therapistID primitive.ObjectID, status request.Status, page ports.Page) (*ports.RequestListing, error) {
	filter := bson.M{"therapist": therapistID}
	if status != "" {
		filter["status"] = status
	}
	return r.list(ctx, filter, page)
}

// FindExpired returns every pending request created before olderThan.
func (r *RequestRepositoryImpl) FindExpired(ctx context.Context, olderThan time.Time) (*ports.RequestListing, error) {
	filter := bson.M{
		"status":    request.StatusPending,
		"createdAt": bson.M{"$lt": olderThan},
	}
	return r.list(ctx, filter, ports.Page{Limit: -1})
}

func (r *RequestRepositoryImpl) list(ctx context.Context, filter bson.M, page ports.Page) (*ports.RequestListing, error) {
	opts := options.Find()
	if page.Limit == 0 {
		page.Limit = config.ListLimit
	}
	if page.Limit > 0 {
		opts.SetSkip(int64(page.Skip)).SetLimit(int64(page.Limit))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.StoreError("failed to list requests", err)
	}
	defer cursor.Close(ctx)

	requests := make([]request.Request, 0)
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, errors.StoreError("failed to decode requests", err)
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, errors.StoreError("failed to count requests", err)
	}

	return &ports.RequestListing{Requests: requests, Total: int(total)}, nil
}
