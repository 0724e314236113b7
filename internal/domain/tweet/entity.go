package tweet

import "time"

// Tweet is one piece of attributable content collected from the social feed.
// Immutable once stored; engagement counters are those observed at collection.
type Tweet struct {
	ID             string    `ch:"id"`
	AuthorHandle   string    `ch:"author_handle"`
	Text           string    `ch:"text"`
	LikeCount      int64     `ch:"like_count"`
	ReplyCount     int64     `ch:"reply_count"`
	RetweetCount   int64     `ch:"retweet_count"`
	QuoteCount     int64     `ch:"quote_count"`
	SentimentScore *float64  `ch:"sentiment_score"` // 0-100 scale, nil means not scored
	CreatedAt      time.Time `ch:"created_at"`
	CollectedAt    time.Time `ch:"collected_at"`
}

// Sentiment returns the sentiment score, defaulting to neutral (50)
// when the tweet was never scored.
func (t *Tweet) Sentiment() float64 {
	if t.SentimentScore == nil {
		return 50
	}
	return *t.SentimentScore
}
