package mindshare

import (
	"time"

	"github.com/google/uuid"

	"mindshare/internal/domain/catalog"
	"mindshare/internal/domain/snapshot"
	"mindshare/internal/domain/tweet"
	"mindshare/pkg/errors"
	"mindshare/pkg/logger"
)

// SignalSource supplies external quality signals per project. The default
// neutral source is used until a real heat/quality feed is wired in.
type SignalSource interface {
	Signal(project catalog.Project) Signal
}

// NeutralSignals is a SignalSource with no external data: heat 0 and all
// quality factors at 1.0, keyword confidence taken from the catalog.
type NeutralSignals struct{}

func (NeutralSignals) Signal(project catalog.Project) Signal {
	return NeutralSignal(project.HasKeywords())
}

// Pipeline runs match -> aggregate -> score -> normalize for one project
// set and tweet batch. It is pure computation; persistence and fetching
// belong to the caller.
type Pipeline struct {
	cfg     Config
	signals SignalSource
	log     *logger.Logger
}

// NewPipeline creates a scoring pipeline with the given config and signal
// source. A nil source falls back to NeutralSignals.
func NewPipeline(cfg Config, signals SignalSource) *Pipeline {
	if signals == nil {
		signals = NeutralSignals{}
	}
	return &Pipeline{
		cfg:     cfg,
		signals: signals,
		log:     logger.Get().With("component", "mindshare_pipeline"),
	}
}

// Result is the output of one pipeline run.
type Result struct {
	Rows      []snapshot.MindshareSnapshot
	Matched   int  // tweets attributed to at least one project
	Corrected bool // whether the normalizer's post-sum guard fired
}

// Compute scores every project over the tweet batch and produces snapshot
// rows whose bps column sums to exactly TotalBps. The project slice order
// is the normalizer's canonical input order; an empty project set yields
// an empty result.
func (p *Pipeline) Compute(projects []catalog.Project, tweets []tweet.Tweet, window string, asOf time.Time) (Result, error) {
	if len(projects) == 0 {
		return Result{}, nil
	}

	matcher := NewMatcher(projects)

	matched := make([]MatchedTweet, 0, len(tweets))
	for _, t := range tweets {
		ids := matcher.Match(t.Text)
		if len(ids) == 0 {
			continue
		}
		matched = append(matched, MatchedTweet{Tweet: t, Projects: ids})
	}

	metrics := Aggregate(matched, p.cfg)

	weights := make([]Weight, 0, len(projects))
	byProject := make(map[uuid.UUID]Metrics, len(projects))
	for _, project := range projects {
		m, ok := metrics[project.ID]
		if !ok {
			// Unmatched projects score on signal alone
			m = Metrics{AvgSentiment: 50}
		}
		byProject[project.ID] = m

		value := ScoreAttention(m, p.signals.Signal(project), p.cfg)
		weights = append(weights, Weight{ProjectID: project.ID, Value: value})
	}

	normalized, err := NormalizeBps(weights)
	if err != nil {
		return Result{}, errors.Wrapf(err, "normalize window %s", window)
	}
	if normalized.Corrected {
		p.log.Error(errors.Wrapf(errors.ErrInvariantViolated,
			"bps sum correction fired for window %s, check scoring arithmetic", window))
	}

	now := time.Now().UTC()
	rows := make([]snapshot.MindshareSnapshot, 0, len(projects))
	for i, project := range projects {
		m := byProject[project.ID]
		rows = append(rows, snapshot.MindshareSnapshot{
			ProjectID:       project.ID,
			Window:          window,
			AsOf:            asOf,
			PostCount:       m.PostCount,
			UniqueAuthors:   m.UniqueAuthors,
			EngagementTotal: m.EngagementTotal,
			AvgSentiment:    m.AvgSentiment,
			AttentionValue:  weights[i].Value,
			Bps:             normalized.Bps[project.ID],
			CreatedAt:       now,
		})
	}

	return Result{Rows: rows, Matched: len(matched), Corrected: normalized.Corrected}, nil
}
