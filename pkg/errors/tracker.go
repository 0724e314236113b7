package errors

import "context"

// Tracker forwards errors to an external tracking service. The logger
// calls CaptureError for every Error-level line; Flush runs during
// shutdown so queued events are not lost.
type Tracker interface {
	CaptureError(ctx context.Context, err error, tags map[string]string) error
	Flush(ctx context.Context) error
}
