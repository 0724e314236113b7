package clickhouse

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"mindshare/internal/domain/tweet"
	"mindshare/internal/metrics"
)

// Compile-time check
var _ tweet.Repository = (*TweetRepository)(nil)

// TweetRepository implements tweet.Repository using ClickHouse
type TweetRepository struct {
	conn driver.Conn
}

// NewTweetRepository creates a new tweet repository
func NewTweetRepository(conn driver.Conn) *TweetRepository {
	return &TweetRepository{conn: conn}
}

// InsertBatch inserts a batch of tweets. Single-row inserts are
// inefficient in ClickHouse, so callers should buffer.
func (r *TweetRepository) InsertBatch(ctx context.Context, tweets []tweet.Tweet) (err error) {
	if len(tweets) == 0 {
		return nil
	}

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("clickhouse", "insert_tweets", time.Since(start), err)
	}()

	batch, err := r.conn.PrepareBatch(ctx, `
		INSERT INTO tweets (
			id, author_handle, text, like_count, reply_count, retweet_count,
			quote_count, sentiment_score, created_at, collected_at
		)`)
	if err != nil {
		return err
	}

	for i := range tweets {
		if err := batch.AppendStruct(&tweets[i]); err != nil {
			return err
		}
	}

	return batch.Send()
}

// GetSince retrieves tweets collected after the given time, oldest first
func (r *TweetRepository) GetSince(ctx context.Context, since time.Time) ([]tweet.Tweet, error) {
	var tweets []tweet.Tweet

	query := `
		SELECT * FROM tweets
		WHERE collected_at >= $1
		ORDER BY collected_at ASC`

	start := time.Now()
	err := r.conn.Select(ctx, &tweets, query, since)
	metrics.RecordDBQuery("clickhouse", "select_tweets_since", time.Since(start), err)
	return tweets, err
}

// CountSince returns the number of tweets collected after the given time
func (r *TweetRepository) CountSince(ctx context.Context, since time.Time) (uint64, error) {
	var count uint64

	query := `SELECT count() FROM tweets WHERE collected_at >= $1`

	start := time.Now()
	err := r.conn.QueryRow(ctx, query, since).Scan(&count)
	metrics.RecordDBQuery("clickhouse", "count_tweets_since", time.Since(start), err)
	return count, err
}
