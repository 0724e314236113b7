package config

import (
	"fmt"

	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"mindshare/pkg/errors"
)

type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	Postgres      PostgresConfig
	ClickHouse    ClickHouseConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	Twitter       TwitterConfig
	Telegram      TelegramConfig
	ErrorTracking ErrorTrackingConfig
	Workers       WorkerConfig
	Scoring       ScoringConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"mindshare"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	Version  string `envconfig:"APP_VERSION" default:"dev"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type HTTPConfig struct {
	Port int `envconfig:"HTTP_PORT" default:"8080"`
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" required:"true"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	Database string `envconfig:"POSTGRES_DB" required:"true"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"25"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

type ClickHouseConfig struct {
	Host     string `envconfig:"CLICKHOUSE_HOST" required:"true"`
	Port     int    `envconfig:"CLICKHOUSE_PORT" default:"9000"`
	User     string `envconfig:"CLICKHOUSE_USER" default:"default"`
	Password string `envconfig:"CLICKHOUSE_PASSWORD"`
	Database string `envconfig:"CLICKHOUSE_DB" default:"mindshare"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" required:"true"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS" required:"true"`
	GroupID string   `envconfig:"KAFKA_GROUP_ID" default:"mindshare"`
}

type TwitterConfig struct {
	BearerToken       string `envconfig:"TWITTER_BEARER_TOKEN"`
	RequestsPerMinute int    `envconfig:"TWITTER_REQUESTS_PER_MINUTE" default:"60"`
	MaxResults        int    `envconfig:"TWITTER_MAX_RESULTS" default:"100"`
}

type TelegramConfig struct {
	Enabled     bool   `envconfig:"TELEGRAM_ALERTS_ENABLED" default:"false"`
	BotToken    string `envconfig:"TELEGRAM_BOT_TOKEN"`
	AlertChatID int64  `envconfig:"TELEGRAM_ALERT_CHAT_ID"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"true"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// WorkerConfig contains intervals for the background workers
type WorkerConfig struct {
	IngestInterval   time.Duration `envconfig:"WORKER_INGEST_INTERVAL" default:"5m"`
	IngestEnabled    bool          `envconfig:"WORKER_INGEST_ENABLED" default:"true"`
	SnapshotInterval time.Duration `envconfig:"WORKER_SNAPSHOT_INTERVAL" default:"15m"`
	SnapshotEnabled  bool          `envconfig:"WORKER_SNAPSHOT_ENABLED" default:"true"`

	// Lookback windows computed per snapshot run
	Windows []string `envconfig:"SNAPSHOT_WINDOWS" default:"24h,7d"`
}

// ScoringConfig holds every tunable of the attention scoring pipeline.
// Defaults mirror the documented canonical values; the two legacy variants
// of the engagement weighting are unified here (replies x2, retweets x3).
type ScoringConfig struct {
	PostsWeight      float64 `envconfig:"SCORING_W1_POSTS" default:"0.25"`
	CreatorsWeight   float64 `envconfig:"SCORING_W2_CREATORS" default:"0.25"`
	EngagementWeight float64 `envconfig:"SCORING_W3_ENGAGEMENT" default:"0.30"`
	HeatWeight       float64 `envconfig:"SCORING_W4_CT_HEAT" default:"0.20"`

	LikeWeight    int64 `envconfig:"SCORING_LIKE_WEIGHT" default:"1"`
	ReplyWeight   int64 `envconfig:"SCORING_REPLY_WEIGHT" default:"2"`
	RetweetWeight int64 `envconfig:"SCORING_RETWEET_WEIGHT" default:"3"`

	SentimentFloor float64 `envconfig:"SCORING_SENTIMENT_FLOOR" default:"0.8"`
	SentimentCap   float64 `envconfig:"SCORING_SENTIMENT_CAP" default:"1.2"`

	OriginalityFloor     float64 `envconfig:"SCORING_ORIGINALITY_FLOOR" default:"0.5"`
	OriginalityCap       float64 `envconfig:"SCORING_ORIGINALITY_CAP" default:"1.5"`
	CreatorOrganicFloor  float64 `envconfig:"SCORING_CREATOR_ORGANIC_FLOOR" default:"0.5"`
	CreatorOrganicCap    float64 `envconfig:"SCORING_CREATOR_ORGANIC_CAP" default:"1.5"`
	AudienceOrganicFloor float64 `envconfig:"SCORING_AUDIENCE_ORGANIC_FLOOR" default:"0.5"`
	AudienceOrganicCap   float64 `envconfig:"SCORING_AUDIENCE_ORGANIC_CAP" default:"1.5"`
	SmartFollowersFloor  float64 `envconfig:"SCORING_SMART_FOLLOWERS_FLOOR" default:"0.5"`
	SmartFollowersCap    float64 `envconfig:"SCORING_SMART_FOLLOWERS_CAP" default:"1.5"`

	KeywordMissPenalty float64 `envconfig:"SCORING_KEYWORD_MISS_PENALTY" default:"0.8"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
