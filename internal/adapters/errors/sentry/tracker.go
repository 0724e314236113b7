package sentry

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"

	"mindshare/pkg/errors"
)

// flushTimeout bounds how long shutdown waits for queued events
const flushTimeout = 2 * time.Second

// Tracker reports errors to Sentry
type Tracker struct {
	hub *sentry.Hub
}

var _ errors.Tracker = (*Tracker)(nil)

// New initializes the Sentry SDK and returns a tracker bound to the
// current hub
func New(dsn string, environment string) (*Tracker, error) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		AttachStacktrace: true,
	})
	if err != nil {
		return nil, err
	}

	return &Tracker{hub: sentry.CurrentHub()}, nil
}

// CaptureError sends an error to Sentry with the given tags attached to
// a cloned scope, so concurrent captures do not leak tags into each other
func (t *Tracker) CaptureError(ctx context.Context, err error, tags map[string]string) error {
	hub := t.hub.Clone()

	hub.ConfigureScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
	})

	hub.CaptureException(err)
	return nil
}

// Flush waits for all pending events to be sent
func (t *Tracker) Flush(ctx context.Context) error {
	sentry.Flush(flushTimeout)
	return nil
}
