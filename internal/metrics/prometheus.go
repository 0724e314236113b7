package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mindshare/pkg/errors"
)

var (
	// Worker metrics
	WorkerExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindshare_worker_executions_total",
			Help: "Total number of worker executions",
		},
		[]string{"worker", "status"}, // status: success|error
	)

	WorkerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mindshare_worker_duration_seconds",
			Help:    "Worker execution duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"worker"},
	)

	WorkerLastRun = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mindshare_worker_last_run_timestamp",
			Help: "Unix timestamp of last worker execution",
		},
		[]string{"worker"},
	)

	// Ingestion metrics
	TweetsIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindshare_tweets_ingested_total",
			Help: "Total number of tweets collected and stored",
		},
		[]string{"source"},
	)

	TweetsMatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindshare_tweets_matched_total",
			Help: "Total number of tweet-to-project matches during scoring",
		},
		[]string{"window"},
	)

	TwitterAPICalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindshare_twitter_api_calls_total",
			Help: "Total number of Twitter API calls",
		},
		[]string{"endpoint", "status"}, // status: success|error|rate_limited
	)

	TwitterAPILatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mindshare_twitter_api_latency_seconds",
			Help:    "Twitter API latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"endpoint"},
	)

	// Snapshot metrics
	SnapshotsWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindshare_snapshots_written_total",
			Help: "Total number of snapshot rows written",
		},
		[]string{"window"},
	)

	NormalizerCorrections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindshare_normalizer_corrections_total",
			Help: "Total number of basis point sum corrections applied",
		},
		[]string{"window"},
	)

	ProjectBps = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mindshare_project_bps",
			Help: "Latest mindshare allocation per project in basis points",
		},
		[]string{"window", "project"},
	)

	// Database metrics
	DBQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindshare_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"database", "operation", "status"}, // database: postgres|clickhouse|redis
	)

	DBQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mindshare_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"database", "operation"},
	)

	// System metrics
	KafkaMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindshare_kafka_messages_total",
			Help: "Total Kafka messages produced",
		},
		[]string{"topic", "status"},
	)
)

// Init registers all metrics with Prometheus
func Init() {
	// Worker metrics
	prometheus.MustRegister(WorkerExecutions)
	prometheus.MustRegister(WorkerDuration)
	prometheus.MustRegister(WorkerLastRun)

	// Ingestion metrics
	prometheus.MustRegister(TweetsIngested)
	prometheus.MustRegister(TweetsMatched)
	prometheus.MustRegister(TwitterAPICalls)
	prometheus.MustRegister(TwitterAPILatency)

	// Snapshot metrics
	prometheus.MustRegister(SnapshotsWritten)
	prometheus.MustRegister(NormalizerCorrections)
	prometheus.MustRegister(ProjectBps)

	// Database metrics
	prometheus.MustRegister(DBQueries)
	prometheus.MustRegister(DBQueryDuration)

	// System metrics
	prometheus.MustRegister(KafkaMessages)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordWorkerExecution records a worker execution
func RecordWorkerExecution(worker string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	WorkerExecutions.WithLabelValues(worker, status).Inc()
	WorkerDuration.WithLabelValues(worker).Observe(duration.Seconds())
	WorkerLastRun.WithLabelValues(worker).SetToCurrentTime()
}

// RecordTwitterAPICall records a Twitter API call
func RecordTwitterAPICall(endpoint string, latency time.Duration, err error) {
	status := "success"
	switch {
	case errors.Is(err, errors.ErrRateLimitExceeded):
		status = "rate_limited"
	case err != nil:
		status = "error"
	}

	TwitterAPICalls.WithLabelValues(endpoint, status).Inc()
	TwitterAPILatency.WithLabelValues(endpoint).Observe(latency.Seconds())
}

// RecordDBQuery records a database query
func RecordDBQuery(database, operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	DBQueries.WithLabelValues(database, operation, status).Inc()
	DBQueryDuration.WithLabelValues(database, operation).Observe(duration.Seconds())
}
