package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "localhost")
	t.Setenv("POSTGRES_USER", "mindshare")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "mindshare")
	t.Setenv("CLICKHOUSE_HOST", "localhost")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mindshare", cfg.App.Name)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, 9000, cfg.ClickHouse.Port)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 5*time.Minute, cfg.Workers.IngestInterval)
	assert.Equal(t, []string{"24h", "7d"}, cfg.Workers.Windows)
}

func TestLoad_ScoringDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	s := cfg.Scoring
	assert.InDelta(t, 0.25, s.PostsWeight, 1e-9)
	assert.InDelta(t, 0.25, s.CreatorsWeight, 1e-9)
	assert.InDelta(t, 0.30, s.EngagementWeight, 1e-9)
	assert.InDelta(t, 0.20, s.HeatWeight, 1e-9)

	// Weights sum to 1.0 by convention
	assert.InDelta(t, 1.0, s.PostsWeight+s.CreatorsWeight+s.EngagementWeight+s.HeatWeight, 1e-9)

	assert.Equal(t, int64(1), s.LikeWeight)
	assert.Equal(t, int64(2), s.ReplyWeight)
	assert.Equal(t, int64(3), s.RetweetWeight)

	assert.InDelta(t, 0.8, s.SentimentFloor, 1e-9)
	assert.InDelta(t, 1.2, s.SentimentCap, 1e-9)
	assert.InDelta(t, 0.8, s.KeywordMissPenalty, 1e-9)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SCORING_RETWEET_WEIGHT", "2")
	t.Setenv("SNAPSHOT_WINDOWS", "24h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(2), cfg.Scoring.RetweetWeight)
	assert.Equal(t, []string{"24h"}, cfg.Workers.Windows)
}

func TestPostgresDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", Database: "d", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=d sslmode=disable", cfg.DSN())
}
