package snapshot

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for snapshot storage (ClickHouse)
type Repository interface {
	InsertBatch(ctx context.Context, rows []MindshareSnapshot) error

	// GetLatest returns the most recent snapshot rows for a window,
	// one per project, ordered by bps descending
	GetLatest(ctx context.Context, window string) ([]MindshareSnapshot, error)

	// GetHistory returns a project's snapshot rows for a window since a time,
	// oldest first
	GetHistory(ctx context.Context, projectID uuid.UUID, window string, since time.Time) ([]MindshareSnapshot, error)
}

// AllocationCache caches the latest allocation per window (Redis)
type AllocationCache interface {
	Set(ctx context.Context, allocation *Allocation, ttl time.Duration) error
	Get(ctx context.Context, window string) (*Allocation, error)
}
