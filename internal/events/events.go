package events

import (
	"fmt"
	"time"
)

// Event type constants
const (
	// Snapshot events
	TypeSnapshotCompleted = "snapshot.completed"
	TypeSnapshotFailed    = "snapshot.failed"

	// System events
	TypeWorkerFailed    = "system.worker_failed"
	TypeSumCorrected    = "system.sum_corrected"
	TypeIngestCompleted = "ingest.completed"
)

// BaseEvent carries fields common to all published events
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

// NewBaseEvent creates a new base event with defaults
func NewBaseEvent(eventType, source string) BaseEvent {
	return BaseEvent{
		ID:        generateEventID(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    source,
		Version:   "1.0",
	}
}

// SnapshotCompletedEvent is published after a normalization pass persists
// its snapshot rows
type SnapshotCompletedEvent struct {
	BaseEvent
	Window        string    `json:"window"`
	AsOf          time.Time `json:"as_of"`
	ProjectCount  int       `json:"project_count"`
	TotalBps      int64     `json:"total_bps"`
	MatchedTweets int       `json:"matched_tweets"`
	Corrected     bool      `json:"corrected"`
}

// SnapshotFailedEvent is published when a normalization pass fails for a
// window
type SnapshotFailedEvent struct {
	BaseEvent
	Window string `json:"window"`
	Error  string `json:"error"`
}

// WorkerFailedEvent is published when a worker execution fails
type WorkerFailedEvent struct {
	BaseEvent
	WorkerName  string     `json:"worker_name"`
	Error       string     `json:"error"`
	FailCount   int        `json:"fail_count"`
	LastSuccess *time.Time `json:"last_success,omitempty"`
}

// SumCorrectedEvent is published when the normalizer's post-sum guard had
// to repair an allocation. It firing at all means the scoring arithmetic
// drifted and deserves investigation.
type SumCorrectedEvent struct {
	BaseEvent
	Window       string    `json:"window"`
	AsOf         time.Time `json:"as_of"`
	ProjectCount int       `json:"project_count"`
}

// IngestCompletedEvent is published after a collection cycle stores tweets
type IngestCompletedEvent struct {
	BaseEvent
	Source      string `json:"collector_source"`
	TweetsSaved int    `json:"tweets_saved"`
	Projects    int    `json:"projects"`
}

// generateEventID generates a unique event ID
func generateEventID() string {
	// Format: timestamp_nanoseconds
	now := time.Now()
	return fmt.Sprintf("%d_%d", now.Unix(), now.Nanosecond())
}
