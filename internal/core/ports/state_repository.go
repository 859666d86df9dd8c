package ports

import (
	"context"

	"github.com/hydrowise/hydration-service/internal/core/domain"
)

// StateRepository persists the single hydration snapshot.
type StateRepository interface {
	// Load returns the persisted snapshot, or domain.ErrStateNotFound when
	// nothing has been saved yet.
	Load(ctx context.Context) (*domain.State, error)
	// Save replaces the persisted snapshot.
	Save(ctx context.Context, state *domain.State) error
	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error
}

// SnapshotWriter serializes asynchronous snapshot writes.
type SnapshotWriter interface {
	Submit(state *domain.State)
	Flush(ctx context.Context) error
	Err() error
}
