package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"soundwell/domain/request"
	"soundwell/internal/config"
	"soundwell/internal/errors"
	"soundwell/ports"
)

// Sweeper auto-rejects requests that sat pending past the expiry
// cutoff. Each expired request loses its stored audio and emits a
// request.expired event.
type Sweeper struct {
	requests ports.RequestRepository
	files    ports.FileStore
	events   ports.EventPublisher
	log      *logrus.Logger
	cfg      config.SweeperConfig
}

// NewSweeper creates a request-expiry sweeper.
func NewSweeper(requests ports.RequestRepository, files ports.FileStore, events ports.EventPublisher, log *logrus.Logger, cfg config.SweeperConfig) *Sweeper {
	return &Sweeper{
		requests: requests,
		files:    files,
		events:   events,
		log:      log,
		cfg:      cfg,
	}
}

// Run ticks until the context ends. One failed sweep is logged and the
// next tick tries again.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.log.WithError(err).Error("request sweep failed")
			}
		}
	}
}

// Sweep rejects every pending request older than the cutoff. A single
// request's failure skips that request, not the batch.
func (s *Sweeper) Sweep(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -s.cfg.ExpireDay)

	listing, err := s.requests.FindExpired(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, expired := range listing.Requests {
		if err := s.expire(ctx, expired); err != nil {
			s.log.WithError(err).WithField("request", expired.ID.Hex()).Warn("failed to expire request")
		}
	}

	if len(listing.Requests) > 0 {
		s.log.WithField("expired", len(listing.Requests)).Info("swept expired requests")
	}
	return nil
}

func (s *Sweeper) expire(ctx context.Context, expired request.Request) error {
	// The audio may already be gone if a review raced the sweep.
	if err := s.files.Remove(ctx, expired.AudioID); err != nil && !errors.IsNotFound(err) {
		return err
	}

	updated, err := s.requests.UpdateStatus(ctx, expired.ID, request.StatusReject)
	if err != nil {
		return err
	}
	return s.events.Publish(ctx, newRequestEvent(request.EventExpired, updated))
}
