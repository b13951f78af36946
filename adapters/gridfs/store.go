// Package gridfs stores uploaded session audio in the record store's
// blob bucket, keeping blobs and metadata in the same database as the
// rest of the records.
package gridfs

import (
	"context"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"soundwell/internal/errors"
	"soundwell/ports"
)

const bucketName = "audio"

// Store implements ports.FileStore on a GridFS bucket.
type Store struct {
	bucket *gridfs.Bucket
}

// NewStore opens the audio bucket on the given database.
func NewStore(db *mongo.Database) (*Store, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		return nil, errors.StoreError("failed to open audio bucket", err)
	}
	return &Store{bucket: bucket}, nil
}

// fileRecord is the bucket-side files document.
type fileRecord struct {
	ID       primitive.ObjectID `bson:"_id"`
	Name     string             `bson:"filename"`
	Length   int64              `bson:"length"`
	Metadata struct {
		Client    string `bson:"client"`
		Therapist string `bson:"therapist"`
	} `bson:"metadata"`
}

// Upload streams a blob into the bucket, tagged with its owners, and
// returns the blob id.
func (s *Store) Upload(ctx context.Context, name string, r io.Reader, meta ports.FileMeta) (string, error) {
	s.applyDeadlines(ctx)

	id, err := s.bucket.UploadFromStream(name, r,
		options.GridFSUpload().SetMetadata(bson.D{
			{Key: "client", Value: meta.ClientID},
			{Key: "therapist", Value: meta.TherapistID},
		}),
	)
	if err != nil {
		return "", errors.StoreError("failed to upload audio", err)
	}
	return id.Hex(), nil
}

// Find returns the blob's descriptor or a not-found error.
func (s *Store) Find(ctx context.Context, id string) (*ports.FileInfo, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	s.applyDeadlines(ctx)

	cursor, err := s.bucket.Find(bson.M{"_id": objectID})
	if err != nil {
		return nil, errors.StoreError("failed to find audio file", err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		return nil, errors.NotFound("audio file")
	}

	record := fileRecord{}
	if err := cursor.Decode(&record); err != nil {
		return nil, errors.StoreError("failed to decode audio file record", err)
	}

	return &ports.FileInfo{
		ID:     record.ID.Hex(),
		Name:   record.Name,
		Length: record.Length,
		Metadata: ports.FileMeta{
			ClientID:    record.Metadata.Client,
			TherapistID: record.Metadata.Therapist,
		},
	}, nil
}

// Open returns a reader over the blob's content.
func (s *Store) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	s.applyDeadlines(ctx)

	stream, err := s.bucket.OpenDownloadStream(objectID)
	if err == gridfs.ErrFileNotFound {
		return nil, errors.NotFound("audio file")
	} else if err != nil {
		return nil, errors.StoreError("failed to open audio file", err)
	}
	return stream, nil
}

// Remove deletes the blob and its descriptor.
func (s *Store) Remove(ctx context.Context, id string) error {
	objectID, err := parseID(id)
	if err != nil {
		return err
	}
	s.applyDeadlines(ctx)

	err = s.bucket.Delete(objectID)
	if err == gridfs.ErrFileNotFound {
		return errors.NotFound("audio file")
	} else if err != nil {
		return errors.StoreError("failed to remove audio file", err)
	}
	return nil
}

// applyDeadlines propagates the context deadline onto the bucket, which
// does not take contexts on its own calls.
func (s *Store) applyDeadlines(ctx context.Context) {
	if deadline, ok := ctx.Deadline(); ok {
		s.bucket.SetReadDeadline(deadline)
		s.bucket.SetWriteDeadline(deadline)
	}
}

func parseID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errors.InvalidInput("invalid file id")
	}
	return objectID, nil
}
