package app

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"soundwell/domain/request"
	"soundwell/internal/config"
	"soundwell/internal/errors"
	"soundwell/ports"
)

func newSweeperFixture(requests *mockRequestRepository, files *mockFileStore, events *mockEventPublisher) *Sweeper {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewSweeper(requests, files, events, log, config.SweeperConfig{
		Interval:  time.Minute,
		ExpireDay: 30,
	})
}

func TestSweep(t *testing.T) {
	expired := request.Request{
		ID:      primitive.NewObjectID(),
		Status:  request.StatusPending,
		Client:  primitive.NewObjectID(),
		AudioID: "file-old",
	}
	rejected := expired
	rejected.Status = request.StatusReject

	t.Run("rejects expired requests and publishes expiry events", func(t *testing.T) {
		requests := &mockRequestRepository{}
		files := &mockFileStore{}
		events := &mockEventPublisher{}

		requests.On("FindExpired", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
			// Cutoff sits 30 days back, give or take test runtime.
			return time.Since(cutoff) > 29*24*time.Hour
		})).Return(&ports.RequestListing{Requests: []request.Request{expired}, Total: 1}, nil)
		files.On("Remove", mock.Anything, "file-old").Return(nil)
		requests.On("UpdateStatus", mock.Anything, expired.ID, request.StatusReject).Return(&rejected, nil)
		events.On("Publish", mock.Anything, mock.MatchedBy(func(e request.Event) bool {
			return e.Name == request.EventExpired && e.RequestID == expired.ID.Hex()
		})).Return(nil)

		sweeper := newSweeperFixture(requests, files, events)
		require.NoError(t, sweeper.Sweep(context.Background()))
		requests.AssertExpectations(t)
		events.AssertExpectations(t)
	})

	t.Run("already-removed audio does not block expiry", func(t *testing.T) {
		requests := &mockRequestRepository{}
		files := &mockFileStore{}
		events := &mockEventPublisher{}

		requests.On("FindExpired", mock.Anything, mock.Anything).
			Return(&ports.RequestListing{Requests: []request.Request{expired}, Total: 1}, nil)
		files.On("Remove", mock.Anything, "file-old").Return(errors.NotFound("audio file"))
		requests.On("UpdateStatus", mock.Anything, expired.ID, request.StatusReject).Return(&rejected, nil)
		events.On("Publish", mock.Anything, mock.Anything).Return(nil)

		sweeper := newSweeperFixture(requests, files, events)
		require.NoError(t, sweeper.Sweep(context.Background()))
		requests.AssertExpectations(t)
	})

	t.Run("one failing request does not fail the batch", func(t *testing.T) {
		other := expired
		other.ID = primitive.NewObjectID()
		other.AudioID = "file-other"
		otherRejected := other
		otherRejected.Status = request.StatusReject

		requests := &mockRequestRepository{}
		files := &mockFileStore{}
		events := &mockEventPublisher{}

		requests.On("FindExpired", mock.Anything, mock.Anything).
			Return(&ports.RequestListing{Requests: []request.Request{expired, other}, Total: 2}, nil)
		files.On("Remove", mock.Anything, "file-old").Return(errors.StoreError("store down", nil))
		files.On("Remove", mock.Anything, "file-other").Return(nil)
		requests.On("UpdateStatus", mock.Anything, other.ID, request.StatusReject).Return(&otherRejected, nil)
		events.On("Publish", mock.Anything, mock.MatchedBy(func(e request.Event) bool {
			return e.RequestID == other.ID.Hex()
		})).Return(nil)

		sweeper := newSweeperFixture(requests, files, events)
		require.NoError(t, sweeper.Sweep(context.Background()))
		requests.AssertNotCalled(t, "UpdateStatus", mock.Anything, expired.ID, mock.Anything)
	})

	t.Run("nothing expired is a clean pass", func(t *testing.T) {
		requests := &mockRequestRepository{}
		files := &mockFileStore{}
		events := &mockEventPublisher{}

		requests.On("FindExpired", mock.Anything, mock.Anything).
			Return(&ports.RequestListing{Requests: []request.Request{}, Total: 0}, nil)

		sweeper := newSweeperFixture(requests, files, events)
		require.NoError(t, sweeper.Sweep(context.Background()))
		files.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
	})
}

func TestSeed(t *testing.T) {
	t.Run("seeds questions, topics and types", func(t *testing.T) {
		questions := &mockQuestionRepository{}
		questions.On("SeedQuestions", mock.Anything, mock.Anything).Return(nil)
		questions.On("SeedTopics", mock.Anything, mock.Anything).Return(nil)
		questions.On("SeedTypes", mock.Anything, mock.Anything).Return(nil)

		require.NoError(t, NewSeeder(questions).Seed(context.Background()))
		questions.AssertExpectations(t)
	})

	t.Run("a failing upsert surfaces", func(t *testing.T) {
		questions := &mockQuestionRepository{}
		questions.On("SeedQuestions", mock.Anything, mock.Anything).Return(errors.StoreError("store down", nil))
		questions.On("SeedTopics", mock.Anything, mock.Anything).Return(nil).Maybe()
		questions.On("SeedTypes", mock.Anything, mock.Anything).Return(nil).Maybe()

		err := NewSeeder(questions).Seed(context.Background())
		assert.Error(t, err)
	})
}
