// Package snapshot implements the save-to-server collaborator: the full
// session state is exported as one document, and a failed save never
// touches the in-memory state.
package snapshot

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"sinarabadi/backend/internal/domain"
)

type Archiver interface {
	Save(ctx context.Context, snap domain.Snapshot) error
}

// Stub is the default archiver when no database is configured. It
// simulates the remote call: log, wait a fixed delay, resolve.
type Stub struct {
	delay time.Duration
	log   zerolog.Logger
}

func NewStub(delay time.Duration, logger zerolog.Logger) *Stub {
	if delay <= 0 {
		delay = 2 * time.Second
	}
	return &Stub{
		delay: delay,
		log:   logger.With().Str("component", "snapshot-stub").Logger(),
	}
}

func (s *Stub) Save(ctx context.Context, snap domain.Snapshot) error {
	s.log.Info().
		Int("products", len(snap.Products)).
		Int("transactions", len(snap.Transactions)).
		Int("purchases", len(snap.Purchases)).
		Int("employees", len(snap.Employees)).
		Msg("archiving snapshot")

	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return ctx.Err()
	}

	s.log.Info().Time("saved_at", snap.SavedAt).Msg("snapshot archived")
	return nil
}
