package tweet

import (
	"context"
	"time"
)

// Repository defines the interface for tweet storage (ClickHouse)
type Repository interface {
	InsertBatch(ctx context.Context, tweets []Tweet) error

	// GetSince returns tweets collected after the given time, oldest first
	GetSince(ctx context.Context, since time.Time) ([]Tweet, error)

	// CountSince returns the number of tweets collected after the given time
	CountSince(ctx context.Context, since time.Time) (uint64, error)
}
