package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Project represents a tracked subject of the attention pipeline.
// Projects are owned by the catalog; the scoring core reads them only.
type Project struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Handle    string    `db:"handle"`     // social handle, matched case-insensitively
	ShortName string    `db:"short_name"` // optional ticker-like name, enables cashtag matching
	Keywords  []string  `db:"keywords"`   // relevance keywords for upstream filtering
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// HasKeywords reports whether relevance keywords are configured.
// Projects without keywords get a confidence penalty during scoring.
func (p *Project) HasKeywords() bool {
	return len(p.Keywords) > 0
}

// Valid reports whether the project carries the minimum data needed
// for pattern generation.
func (p *Project) Valid() bool {
	return p.ID != uuid.Nil && strings.TrimSpace(p.Handle) != ""
}
