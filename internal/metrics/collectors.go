package metrics

import (
	"context"
	"time"

	"mindshare/pkg/logger"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// CustomCollector collects gauge-style metrics straight from the databases
type CustomCollector struct {
	log        *logger.Logger
	postgres   *sqlx.DB
	clickhouse driver.Conn
	redis      *redis.Client

	// Descriptors
	activeProjects    *prometheus.Desc
	tweetsStored24h   *prometheus.Desc
	snapshotRows      *prometheus.Desc
	cachedAllocations *prometheus.Desc
}

// NewCustomCollector creates a new custom metrics collector
func NewCustomCollector(log *logger.Logger, postgres *sqlx.DB, clickhouse driver.Conn, redis *redis.Client) *CustomCollector {
	return &CustomCollector{
		log:        log,
		postgres:   postgres,
		clickhouse: clickhouse,
		redis:      redis,

		activeProjects: prometheus.NewDesc(
			"mindshare_active_projects",
			"Number of active projects in the catalog",
			nil, nil,
		),
		tweetsStored24h: prometheus.NewDesc(
			"mindshare_tweets_stored_24h",
			"Tweets collected in the last 24 hours",
			nil, nil,
		),
		snapshotRows: prometheus.NewDesc(
			"mindshare_snapshot_rows_total",
			"Total snapshot rows stored per window",
			[]string{"window"}, nil,
		),
		cachedAllocations: prometheus.NewDesc(
			"mindshare_cached_allocations",
			"Whether a cached allocation exists per window (0 or 1)",
			[]string{"window"}, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *CustomCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.activeProjects
	ch <- c.tweetsStored24h
	ch <- c.snapshotRows
	ch <- c.cachedAllocations
}

// Collect implements prometheus.Collector
func (c *CustomCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c.collectActiveProjects(ctx, ch)
	c.collectTweetStats(ctx, ch)
	c.collectSnapshotStats(ctx, ch)
	c.collectCachedAllocations(ctx, ch)
}

func (c *CustomCollector) collectActiveProjects(ctx context.Context, ch chan<- prometheus.Metric) {
	var count int
	err := c.postgres.GetContext(ctx, &count, "SELECT COUNT(*) FROM projects WHERE is_active = true")
	if err != nil {
		c.log.Error("Failed to collect active project count", "error", err)
		return
	}

	ch <- prometheus.MustNewConstMetric(
		c.activeProjects,
		prometheus.GaugeValue,
		float64(count),
	)
}

func (c *CustomCollector) collectTweetStats(ctx context.Context, ch chan<- prometheus.Metric) {
	var count uint64
	err := c.clickhouse.QueryRow(ctx, `
		SELECT count() FROM tweets
		WHERE collected_at > now() - INTERVAL 24 HOUR
	`).Scan(&count)
	if err != nil {
		c.log.Error("Failed to collect tweet stats", "error", err)
		return
	}

	ch <- prometheus.MustNewConstMetric(
		c.tweetsStored24h,
		prometheus.GaugeValue,
		float64(count),
	)
}

func (c *CustomCollector) collectSnapshotStats(ctx context.Context, ch chan<- prometheus.Metric) {
	rows, err := c.clickhouse.Query(ctx, `
		SELECT window, count() AS cnt
		FROM mindshare_snapshots
		GROUP BY window
	`)
	if err != nil {
		c.log.Error("Failed to collect snapshot stats", "error", err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var window string
		var count uint64
		if err := rows.Scan(&window, &count); err != nil {
			c.log.Error("Failed to scan snapshot stats row", "error", err)
			return
		}

		ch <- prometheus.MustNewConstMetric(
			c.snapshotRows,
			prometheus.GaugeValue,
			float64(count),
			window,
		)
	}
}

func (c *CustomCollector) collectCachedAllocations(ctx context.Context, ch chan<- prometheus.Metric) {
	keys, err := c.redis.Keys(ctx, "mindshare:allocation:*").Result()
	if err != nil {
		c.log.Error("Failed to collect cached allocation keys", "error", err)
		return
	}

	for _, key := range keys {
		window := key[len("mindshare:allocation:"):]
		ch <- prometheus.MustNewConstMetric(
			c.cachedAllocations,
			prometheus.GaugeValue,
			1,
			window,
		)
	}
}

// RegisterCustomCollector registers the custom collector
func RegisterCustomCollector(collector *CustomCollector) {
	prometheus.MustRegister(collector)
}
