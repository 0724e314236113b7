package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for project catalog access (PostgreSQL)
type Repository interface {
	Create(ctx context.Context, project *Project) error
	Update(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	GetByHandle(ctx context.Context, handle string) (*Project, error)

	// GetActive returns active projects ordered by creation time.
	// The order is the canonical input order of the normalizer.
	GetActive(ctx context.Context) ([]Project, error)
}
