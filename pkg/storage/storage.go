package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jwebster45206/ashborne/pkg/state"
)

// Storage persists sessions between calls.
// LoadSession returns nil, nil when the session does not exist or has expired.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	SaveSession(ctx context.Context, s *state.Session) error
	LoadSession(ctx context.Context, id uuid.UUID) (*state.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
}
