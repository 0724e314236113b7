package snapshot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"mindshare/internal/domain/catalog"
	domain "mindshare/internal/domain/snapshot"
	"mindshare/internal/domain/tweet"
	"mindshare/internal/events"
	"mindshare/internal/metrics"
	"mindshare/internal/mindshare"
	"mindshare/internal/workers"
	"mindshare/pkg/errors"
)

// allocationTTL bounds how long a stale cached allocation can be served
// after snapshot passes stop succeeding
const allocationTTL = time.Hour

// Alerter is the slice of the Telegram notifier the worker needs
type Alerter interface {
	Alert(ctx context.Context, text string)
}

// Worker runs the scoring pipeline per window and persists the results.
// Each window is processed independently; one window failing does not stop
// the others.
type Worker struct {
	*workers.BaseWorker
	catalogRepo  catalog.Repository
	tweetRepo    tweet.Repository
	snapshotRepo domain.Repository
	cache        domain.AllocationCache
	pipeline     *mindshare.Pipeline
	publisher    *events.Publisher
	notifier     Alerter
	windows      []string
}

// NewWorker creates a new snapshot worker
func NewWorker(
	catalogRepo catalog.Repository,
	tweetRepo tweet.Repository,
	snapshotRepo domain.Repository,
	cache domain.AllocationCache,
	pipeline *mindshare.Pipeline,
	publisher *events.Publisher,
	notifier Alerter,
	windows []string,
	interval time.Duration,
	enabled bool,
) *Worker {
	return &Worker{
		BaseWorker:   workers.NewBaseWorker("snapshot_worker", interval, enabled),
		catalogRepo:  catalogRepo,
		tweetRepo:    tweetRepo,
		snapshotRepo: snapshotRepo,
		cache:        cache,
		pipeline:     pipeline,
		publisher:    publisher,
		notifier:     notifier,
		windows:      windows,
	}
}

// Run executes one normalization pass for every configured window
func (w *Worker) Run(ctx context.Context) error {
	projects, err := w.catalogRepo.GetActive(ctx)
	if err != nil {
		return errors.Wrap(err, "load active projects")
	}

	asOf := time.Now().UTC()
	failed := 0

	for _, window := range w.windows {
		if err := w.runWindow(ctx, projects, window, asOf); err != nil {
			failed++
			w.Log().Error("Snapshot pass failed",
				"window", window,
				"error", err,
			)

			if w.publisher != nil {
				if pubErr := w.publisher.PublishSnapshotFailed(ctx, window, err); pubErr != nil {
					w.Log().Warn("Failed to publish snapshot failure", "error", pubErr)
				}
			}
			if w.notifier != nil {
				w.notifier.Alert(ctx, fmt.Sprintf("Snapshot pass failed for window %s: %v", window, err))
			}
		}
	}

	if failed > 0 && failed == len(w.windows) {
		return errors.Wrapf(errors.ErrInternal, "all %d snapshot windows failed", failed)
	}

	return nil
}

// runWindow computes and persists one (window, asOf) snapshot
func (w *Worker) runWindow(ctx context.Context, projects []catalog.Project, window string, asOf time.Time) error {
	dur, err := parseWindow(window)
	if err != nil {
		return err
	}

	tweets, err := w.tweetRepo.GetSince(ctx, asOf.Add(-dur))
	if err != nil {
		return errors.Wrapf(err, "load tweets for window %s", window)
	}

	result, err := w.pipeline.Compute(projects, tweets, window, asOf)
	if err != nil {
		return err
	}
	if len(result.Rows) == 0 {
		w.Log().Debug("No active projects, skipping snapshot", "window", window)
		return nil
	}

	if err := w.snapshotRepo.InsertBatch(ctx, result.Rows); err != nil {
		return errors.Wrapf(err, "persist snapshots for window %s", window)
	}

	alloc := &domain.Allocation{
		Window: window,
		AsOf:   asOf,
		Bps:    make(map[uuid.UUID]int64, len(result.Rows)),
	}
	var totalBps int64
	for _, row := range result.Rows {
		alloc.Bps[row.ProjectID] = row.Bps
		totalBps += row.Bps
		metrics.ProjectBps.WithLabelValues(window, row.ProjectID.String()).Set(float64(row.Bps))
	}

	if err := w.cache.Set(ctx, alloc, allocationTTL); err != nil {
		// The rows are already durable, a cold cache just means a slower read
		w.Log().Warn("Failed to cache allocation", "window", window, "error", err)
	}

	metrics.SnapshotsWritten.WithLabelValues(window).Add(float64(len(result.Rows)))
	metrics.TweetsMatched.WithLabelValues(window).Add(float64(result.Matched))
	if result.Corrected {
		metrics.NormalizerCorrections.WithLabelValues(window).Inc()
		if w.notifier != nil {
			w.notifier.Alert(ctx, fmt.Sprintf("Basis point sum correction fired for window %s", window))
		}
		if w.publisher != nil {
			if err := w.publisher.PublishSumCorrected(ctx, window, asOf, len(result.Rows)); err != nil {
				w.Log().Warn("Failed to publish sum correction event", "window", window, "error", err)
			}
		}
	}

	if w.publisher != nil {
		err := w.publisher.PublishSnapshotCompleted(ctx, window, asOf, len(result.Rows), totalBps, result.Matched, result.Corrected)
		if err != nil {
			w.Log().Warn("Failed to publish snapshot event", "window", window, "error", err)
		}
	}

	w.Log().Info("Snapshot pass complete",
		"window", window,
		"projects", len(result.Rows),
		"matched_tweets", result.Matched,
		"total_bps", totalBps,
	)

	return nil
}

// parseWindow converts a window label to a lookback duration. Hours-style
// labels ("24h") go through time.ParseDuration; day labels ("7d") are not
// valid duration syntax and are handled explicitly.
func parseWindow(window string) (time.Duration, error) {
	if strings.HasSuffix(window, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(window, "d"))
		if err != nil || days <= 0 {
			return 0, errors.Wrapf(errors.ErrInvalidInput, "invalid window %q", window)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	dur, err := time.ParseDuration(window)
	if err != nil || dur <= 0 {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "invalid window %q", window)
	}
	return dur, nil
}
