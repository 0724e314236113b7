package ingest

import (
	"context"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"mindshare/internal/adapters/twitter"
	"mindshare/internal/domain/catalog"
	"mindshare/internal/domain/tweet"
	"mindshare/internal/events"
	"mindshare/internal/metrics"
	"mindshare/internal/workers"
	"mindshare/pkg/clickhouse"
	"mindshare/pkg/errors"
)

// searcher is the slice of the Twitter client the collector needs
type searcher interface {
	SearchRecent(ctx context.Context, query string) ([]twitter.Tweet, error)
	Configured() bool
}

// TwitterCollector pulls recent tweets about catalog projects and stores
// them for the snapshot workers to score
type TwitterCollector struct {
	*workers.BaseWorker
	catalogRepo catalog.Repository
	api         searcher
	writer      *clickhouse.BatchWriter[tweet.Tweet]
	publisher   *events.Publisher
}

// NewTwitterCollector creates a new Twitter collector worker
func NewTwitterCollector(
	catalogRepo catalog.Repository,
	tweetRepo tweet.Repository,
	api searcher,
	publisher *events.Publisher,
	interval time.Duration,
	enabled bool,
) *TwitterCollector {
	writer := clickhouse.NewBatchWriter(clickhouse.BatchWriterConfig[tweet.Tweet]{
		FlushFunc: func(ctx context.Context, batch []tweet.Tweet) error {
			return tweetRepo.InsertBatch(ctx, batch)
		},
		TableName:    "tweets",
		MaxBatchSize: 500,
	})

	return &TwitterCollector{
		BaseWorker:  workers.NewBaseWorker("twitter_collector", interval, enabled),
		catalogRepo: catalogRepo,
		api:         api,
		writer:      writer,
		publisher:   publisher,
	}
}

// Run executes one collection cycle across all active projects
func (tc *TwitterCollector) Run(ctx context.Context) error {
	if !tc.api.Configured() {
		tc.Log().Warn("Twitter API bearer token not configured, skipping collection")
		return nil
	}

	projects, err := tc.catalogRepo.GetActive(ctx)
	if err != nil {
		return errors.Wrap(err, "load active projects")
	}
	if len(projects) == 0 {
		tc.Log().Debug("No active projects, nothing to collect")
		return nil
	}

	now := time.Now().UTC()
	seen := make(map[string]bool)
	saved := 0

	for _, project := range projects {
		if !project.Valid() {
			continue
		}

		query := buildSearchQuery(&project)

		results, err := tc.api.SearchRecent(ctx, query)
		if err != nil {
			if errors.Is(err, errors.ErrRateLimitExceeded) {
				tc.Log().Warn("Twitter API rate limit reached, stopping cycle",
					"project", project.Name,
				)
				break
			}
			tc.Log().Error("Failed to collect tweets",
				"project", project.Name,
				"error", err,
			)
			continue
		}

		for _, raw := range results {
			// The same tweet can match several project queries in one cycle
			if seen[raw.ID] {
				continue
			}
			seen[raw.ID] = true

			row := toDomain(raw, now)
			if err := tc.writer.Add(ctx, row); err != nil {
				return errors.Wrap(err, "buffer tweet")
			}
			saved++
		}
	}

	if err := tc.writer.Flush(ctx); err != nil {
		return errors.Wrap(err, "flush tweets")
	}

	metrics.TweetsIngested.WithLabelValues("twitter").Add(float64(saved))

	tc.Log().Info("Twitter collection complete",
		"projects", len(projects),
		"tweets_saved", humanize.Comma(int64(saved)),
	)

	if tc.publisher != nil && saved > 0 {
		if err := tc.publisher.PublishIngestCompleted(ctx, "twitter", saved, len(projects)); err != nil {
			tc.Log().Warn("Failed to publish ingest event", "error", err)
		}
	}

	return nil
}

// Start begins the writer's background flush loop, so buffered tweets
// become durable within the flush age even mid-cycle
func (tc *TwitterCollector) Start(ctx context.Context) {
	tc.writer.Start(ctx)
}

// Stop flushes any buffered tweets and shuts the writer down
func (tc *TwitterCollector) Stop(ctx context.Context) error {
	if err := tc.writer.Flush(ctx); err != nil {
		return err
	}
	return tc.writer.Stop(ctx)
}

// buildSearchQuery creates a Twitter search query covering all the ways a
// project gets mentioned
func buildSearchQuery(project *catalog.Project) string {
	terms := []string{"@" + project.Handle, project.Handle}
	if project.ShortName != "" {
		terms = append(terms, "$"+project.ShortName)
	}
	for _, kw := range project.Keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if strings.Contains(kw, " ") {
			kw = `"` + kw + `"`
		}
		terms = append(terms, kw)
	}

	return "(" + strings.Join(terms, " OR ") + ") -is:retweet lang:en"
}

// toDomain converts an API tweet to the stored form, scoring sentiment on
// the way in
func toDomain(raw twitter.Tweet, collectedAt time.Time) tweet.Tweet {
	createdAt := collectedAt
	if ts, err := time.Parse(time.RFC3339, raw.CreatedAt); err == nil {
		createdAt = ts
	}

	score := scoreSentiment(raw.Text)

	return tweet.Tweet{
		ID:             raw.ID,
		AuthorHandle:   raw.AuthorUsername,
		Text:           raw.Text,
		LikeCount:      raw.Metrics.LikeCount,
		ReplyCount:     raw.Metrics.ReplyCount,
		RetweetCount:   raw.Metrics.RetweetCount,
		QuoteCount:     raw.Metrics.QuoteCount,
		SentimentScore: &score,
		CreatedAt:      createdAt,
		CollectedAt:    collectedAt,
	}
}

// Keyword lexicons for the sentiment score, run on every collected tweet.
var (
	positiveWords = []string{
		"bullish", "moon", "pump", "rally", "breakout", "long",
		"buy", "accumulate", "strong", "growth", "partnership",
		"launch", "milestone", "ath", "all-time high", "gain",
		"excited", "love", "great", "amazing",
	}

	negativeWords = []string{
		"bearish", "dump", "crash", "drop", "fall", "short",
		"sell", "weak", "scam", "rug", "hack", "exploit",
		"down", "loss", "fear", "panic", "dead", "avoid",
		"terrible", "broken",
	}
)

// scoreSentiment maps tweet text to a 0-100 sentiment score where 50 is
// neutral
func scoreSentiment(text string) float64 {
	textLower := strings.ToLower(text)

	positive := 0
	for _, word := range positiveWords {
		if strings.Contains(textLower, word) {
			positive++
		}
	}

	negative := 0
	for _, word := range negativeWords {
		if strings.Contains(textLower, word) {
			negative++
		}
	}

	total := positive + negative
	if total == 0 {
		return 50
	}

	score := 50 + 50*float64(positive-negative)/float64(total)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
