package noop

import (
	"context"

	"mindshare/pkg/errors"
)

// Tracker discards every event. Used when no Sentry DSN is configured
// and in tests.
type Tracker struct{}

var _ errors.Tracker = (*Tracker)(nil)

// New creates a no-op tracker
func New() *Tracker {
	return &Tracker{}
}

func (*Tracker) CaptureError(context.Context, error, map[string]string) error {
	return nil
}

func (*Tracker) Flush(context.Context) error {
	return nil
}
