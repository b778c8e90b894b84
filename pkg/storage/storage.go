package storage

import (
	"context"

	"github.com/google/uuid"
)

// Storage persists serialized sessions. Blobs are opaque to storage; the
// engine owns their format.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Live session blobs, written after every turn
	SaveSession(ctx context.Context, id uuid.UUID, blob []byte) error
	// LoadSession returns nil, nil when the session does not exist.
	LoadSession(ctx context.Context, id uuid.UUID) ([]byte, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error

	// The in-game "save" slot, one per session
	PutSave(ctx context.Context, id uuid.UUID, blob []byte) error
	// GetSave returns nil, nil when nothing has been saved.
	GetSave(ctx context.Context, id uuid.UUID) ([]byte, error)
}
