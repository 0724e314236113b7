package snapshot

import (
	"time"

	"github.com/google/uuid"
)

// MindshareSnapshot is one project's scored slice of a normalization window.
// A full snapshot run produces one row per active project; the Bps column
// sums to exactly 10000 across the rows of one (window, as-of) pair.
type MindshareSnapshot struct {
	ProjectID       uuid.UUID `ch:"project_id"`
	Window          string    `ch:"window"` // e.g. "24h", "7d"
	AsOf            time.Time `ch:"as_of"`
	PostCount       int64     `ch:"post_count"`
	UniqueAuthors   int64     `ch:"unique_authors"`
	EngagementTotal int64     `ch:"engagement_total"`
	AvgSentiment    float64   `ch:"avg_sentiment"`
	AttentionValue  float64   `ch:"attention_value"` // pre-normalization scalar, kept for audit
	Bps             int64     `ch:"bps"`
	CreatedAt       time.Time `ch:"created_at"`
}

// Allocation is the cached cross-project bps mapping for one window.
type Allocation struct {
	Window string              `json:"window"`
	AsOf   time.Time           `json:"as_of"`
	Bps    map[uuid.UUID]int64 `json:"bps"`
}

// TotalBps returns the sum of all allocated basis points.
func (a *Allocation) TotalBps() int64 {
	var total int64
	for _, v := range a.Bps {
		total += v
	}
	return total
}
