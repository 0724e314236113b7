package bootstrap

import (
	chclient "mindshare/internal/adapters/clickhouse"
	"mindshare/internal/adapters/config"
	"mindshare/internal/adapters/kafka"
	pgclient "mindshare/internal/adapters/postgres"
	redisclient "mindshare/internal/adapters/redis"
	telegramadapter "mindshare/internal/adapters/telegram"
	"mindshare/internal/adapters/twitter"
	"mindshare/internal/api"
	"mindshare/internal/api/health"
	"mindshare/internal/domain/catalog"
	"mindshare/internal/domain/snapshot"
	"mindshare/internal/domain/tweet"
	"mindshare/internal/events"
	"mindshare/internal/metrics"
	"mindshare/internal/mindshare"
	chrepo "mindshare/internal/repository/clickhouse"
	pgrepo "mindshare/internal/repository/postgres"
	redisrepo "mindshare/internal/repository/redis"
	"mindshare/internal/workers"
	"mindshare/internal/workers/ingest"
	snapshotworker "mindshare/internal/workers/snapshot"
	"mindshare/pkg/errors"
	"mindshare/pkg/logger"
)

// Container holds all application dependencies in initialization order
type Container struct {
	Config       *config.Config
	Log          *logger.Logger
	ErrorTracker errors.Tracker

	// Data stores
	PG    *pgclient.Client
	CH    *chclient.Client
	Redis *redisclient.Client

	// Messaging and alerting
	KafkaProducer *kafka.Producer
	Publisher     *events.Publisher
	Notifier      *telegramadapter.Notifier

	// Repositories
	Repos *Repositories

	// Background processing and HTTP surface
	Scheduler  *workers.Scheduler
	Collector  *ingest.TwitterCollector
	HTTPServer *api.Server
}

// Repositories groups all domain repositories
type Repositories struct {
	Catalog     catalog.Repository
	Tweets      tweet.Repository
	Snapshots   snapshot.Repository
	Allocations snapshot.AllocationCache
}

// Build wires the full dependency graph. Components are constructed in
// dependency order; any connection failure aborts startup.
func Build(cfg *config.Config, log *logger.Logger, errorTracker errors.Tracker) (*Container, error) {
	c := &Container{
		Config:       cfg,
		Log:          log,
		ErrorTracker: errorTracker,
	}

	// Data stores
	pg, err := pgclient.NewClient(cfg.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "connect postgres")
	}
	c.PG = pg

	ch, err := chclient.NewClient(cfg.ClickHouse)
	if err != nil {
		return nil, errors.Wrap(err, "connect clickhouse")
	}
	c.CH = ch

	rd, err := redisclient.NewClient(cfg.Redis)
	if err != nil {
		return nil, errors.Wrap(err, "connect redis")
	}
	c.Redis = rd

	log.Info("Databases connected")

	// Metrics
	metrics.Init()
	metrics.RegisterCustomCollector(
		metrics.NewCustomCollector(log, pg.DB(), ch.Conn(), rd.Client()),
	)

	// Repositories
	c.Repos = &Repositories{
		Catalog:     pgrepo.NewCatalogRepository(pg.DB()),
		Tweets:      chrepo.NewTweetRepository(ch.Conn()),
		Snapshots:   chrepo.NewSnapshotRepository(ch.Conn()),
		Allocations: redisrepo.NewAllocationCache(rd.Client()),
	}

	// Messaging
	c.KafkaProducer = kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.Kafka.Brokers})
	c.Publisher = events.NewPublisher(c.KafkaProducer, log)

	// Alerting (optional)
	if cfg.Telegram.Enabled {
		notifier, err := telegramadapter.NewNotifier(telegramadapter.Config{
			BotToken: cfg.Telegram.BotToken,
			ChatID:   cfg.Telegram.AlertChatID,
		})
		if err != nil {
			log.Warnf("Telegram alerts disabled: %v", err)
		} else {
			c.Notifier = notifier
			log.Info("Telegram alerts enabled")
		}
	}

	// Workers
	c.Scheduler = workers.NewScheduler()
	c.Scheduler.SetFailureReporter(c.Publisher)
	c.Collector = buildCollector(cfg, c)
	c.Scheduler.RegisterWorker(c.Collector)
	c.Scheduler.RegisterWorker(buildSnapshotWorker(cfg, c))

	// HTTP surface
	healthHandler := health.New(log, pg.DB(), ch.Conn(), rd.Client(), c.Scheduler, cfg.App.Name, cfg.App.Version)
	allocations := api.NewAllocationsHandler(c.Repos.Allocations, c.Repos.Snapshots, log)
	c.HTTPServer = api.NewServer(api.ServerConfig{
		Port:        cfg.HTTP.Port,
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
	}, healthHandler, allocations, log)

	log.Info("Container built")
	return c, nil
}

func buildCollector(cfg *config.Config, c *Container) *ingest.TwitterCollector {
	client := twitter.NewClient(twitter.Config{
		BearerToken:       cfg.Twitter.BearerToken,
		RequestsPerMinute: cfg.Twitter.RequestsPerMinute,
		MaxResults:        cfg.Twitter.MaxResults,
	})

	return ingest.NewTwitterCollector(
		c.Repos.Catalog,
		c.Repos.Tweets,
		client,
		c.Publisher,
		cfg.Workers.IngestInterval,
		cfg.Workers.IngestEnabled,
	)
}

func buildSnapshotWorker(cfg *config.Config, c *Container) *snapshotworker.Worker {
	pipeline := mindshare.NewPipeline(mindshare.FromScoringConfig(cfg.Scoring), nil)

	var notifier snapshotworker.Alerter
	if c.Notifier != nil {
		notifier = c.Notifier
	}

	return snapshotworker.NewWorker(
		c.Repos.Catalog,
		c.Repos.Tweets,
		c.Repos.Snapshots,
		c.Repos.Allocations,
		pipeline,
		c.Publisher,
		notifier,
		cfg.Workers.Windows,
		cfg.Workers.SnapshotInterval,
		cfg.Workers.SnapshotEnabled,
	)
}
