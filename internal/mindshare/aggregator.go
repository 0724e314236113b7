package mindshare

import (
	"github.com/google/uuid"

	"mindshare/internal/domain/tweet"
)

// Metrics is the per-project engagement rollup for one window.
// Recomputed fully on each run; never mutated incrementally.
type Metrics struct {
	PostCount       int64
	UniqueAuthors   int64
	EngagementTotal int64
	AvgSentiment    float64 // 0-100, defaults to neutral 50 when no samples
}

// MatchedTweet pairs a tweet with the projects its text was attributed to.
type MatchedTweet struct {
	Tweet    tweet.Tweet
	Projects []uuid.UUID
}

// Aggregate rolls matched tweets up into per-project metrics. Projects
// matched by zero tweets are absent from the result; callers default to
// zero counts and neutral sentiment for missing keys.
func Aggregate(matched []MatchedTweet, cfg Config) map[uuid.UUID]Metrics {
	type rollup struct {
		posts      int64
		engagement int64
		authors    map[string]struct{}
		sentiSum   float64
		sentiN     int64
	}

	rollups := make(map[uuid.UUID]*rollup)

	for _, mt := range matched {
		t := mt.Tweet
		weighted := t.LikeCount*cfg.LikeWeight +
			t.ReplyCount*cfg.ReplyWeight +
			t.RetweetCount*cfg.RetweetWeight

		for _, id := range mt.Projects {
			r, ok := rollups[id]
			if !ok {
				r = &rollup{authors: make(map[string]struct{})}
				rollups[id] = r
			}

			r.posts++
			r.engagement += weighted
			if t.AuthorHandle != "" {
				r.authors[t.AuthorHandle] = struct{}{}
			}
			if t.SentimentScore != nil {
				r.sentiSum += *t.SentimentScore
				r.sentiN++
			}
		}
	}

	out := make(map[uuid.UUID]Metrics, len(rollups))
	for id, r := range rollups {
		avg := 50.0
		if r.sentiN > 0 {
			avg = r.sentiSum / float64(r.sentiN)
		}
		out[id] = Metrics{
			PostCount:       r.posts,
			UniqueAuthors:   int64(len(r.authors)),
			EngagementTotal: r.engagement,
			AvgSentiment:    avg,
		}
	}

	return out
}
