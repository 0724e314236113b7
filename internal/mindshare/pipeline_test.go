package mindshare

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindshare/internal/domain/catalog"
	"mindshare/internal/domain/tweet"
)

func TestPipeline_Compute(t *testing.T) {
	projects := []catalog.Project{
		project("solanalabs", "SOL"),
		project("ethereum", "ETH"),
		project("quietcoin", "QQ"),
	}
	asOf := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tweets := []tweet.Tweet{
		{AuthorHandle: "a", Text: "@solanalabs shipping again", LikeCount: 50, SentimentScore: sentiment(80)},
		{AuthorHandle: "b", Text: "$sol looking strong", LikeCount: 20, RetweetCount: 5},
		{AuthorHandle: "c", Text: "$eth gas fees...", ReplyCount: 3, SentimentScore: sentiment(30)},
		{AuthorHandle: "d", Text: "nothing relevant here"},
	}

	p := NewPipeline(DefaultConfig(), nil)
	result, err := p.Compute(projects, tweets, "24h", asOf)
	require.NoError(t, err)

	require.Len(t, result.Rows, 3)
	assert.Equal(t, 3, result.Matched)
	assert.False(t, result.Corrected)

	var totalBps int64
	byID := make(map[uuid.UUID]int64)
	for _, row := range result.Rows {
		totalBps += row.Bps
		byID[row.ProjectID] = row.Bps
		assert.Equal(t, "24h", row.Window)
		assert.Equal(t, asOf, row.AsOf)
	}
	assert.Equal(t, TotalBps, totalBps)

	// solana rows got two tweets, ethereum one, quietcoin none
	sol, eth, quiet := projects[0], projects[1], projects[2]
	assert.Greater(t, byID[sol.ID], byID[eth.ID])
	assert.Greater(t, byID[eth.ID], byID[quiet.ID])
}

func TestPipeline_EmptyProjects(t *testing.T) {
	p := NewPipeline(DefaultConfig(), nil)
	result, err := p.Compute(nil, nil, "24h", time.Now())
	require.NoError(t, err)
	assert.Empty(t, result.Rows)
}

func TestPipeline_NoTweetsStillSumsToTotal(t *testing.T) {
	projects := []catalog.Project{
		project("alpha", ""),
		project("beta", ""),
	}

	p := NewPipeline(DefaultConfig(), nil)
	result, err := p.Compute(projects, nil, "7d", time.Now())
	require.NoError(t, err)

	// all-zero attention: even split still covers the full window
	require.Len(t, result.Rows, 2)
	assert.Equal(t, TotalBps, result.Rows[0].Bps+result.Rows[1].Bps)
	for _, row := range result.Rows {
		assert.Zero(t, row.PostCount)
		assert.InDelta(t, 50.0, row.AvgSentiment, 1e-9)
		assert.Zero(t, row.AttentionValue)
	}
}

func TestPipeline_RowsCarryAuditMetrics(t *testing.T) {
	projects := []catalog.Project{project("gamma", "")}
	tweets := []tweet.Tweet{
		{AuthorHandle: "x", Text: "@gamma rocks", LikeCount: 7, ReplyCount: 1, SentimentScore: sentiment(90)},
	}

	p := NewPipeline(DefaultConfig(), nil)
	result, err := p.Compute(projects, tweets, "24h", time.Now())
	require.NoError(t, err)

	row := result.Rows[0]
	assert.Equal(t, int64(1), row.PostCount)
	assert.Equal(t, int64(1), row.UniqueAuthors)
	assert.Equal(t, int64(7+2), row.EngagementTotal)
	assert.InDelta(t, 90.0, row.AvgSentiment, 1e-9)
	assert.Greater(t, row.AttentionValue, 0.0)
	assert.Equal(t, TotalBps, row.Bps)
}
