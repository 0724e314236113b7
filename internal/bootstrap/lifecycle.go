package bootstrap

import (
	"context"
	"time"
)

// shutdownTimeout bounds the whole coordinated shutdown
const shutdownTimeout = 60 * time.Second

// Shutdown performs coordinated cleanup in dependency order:
// 1. HTTP server stops accepting traffic
// 2. Workers finish their current pass
// 3. Tweet batch writer flushes what the collector buffered
// 4. Kafka producer flushes and closes
// 5. Error tracker flushes
// 6. Database connections close last, workers may need them while stopping
func (c *Container) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log := c.Log

	log.Info("[1/6] Stopping HTTP server...")
	httpCtx, httpCancel := context.WithTimeout(ctx, 5*time.Second)
	if err := c.HTTPServer.Shutdown(httpCtx); err != nil {
		log.Error("HTTP server shutdown failed", "error", err)
	} else {
		log.Info("✓ HTTP server stopped")
	}
	httpCancel()

	log.Info("[2/6] Stopping background workers...")
	if err := c.Scheduler.Stop(); err != nil {
		log.Error("Workers shutdown failed", "error", err)
	} else {
		log.Info("✓ Workers stopped")
	}

	log.Info("[3/6] Stopping tweet batch writer...")
	if err := c.Collector.Stop(ctx); err != nil {
		log.Error("Batch writer shutdown failed", "error", err)
	} else {
		log.Info("✓ Batch writer stopped")
	}

	log.Info("[4/6] Closing Kafka producer...")
	if err := c.KafkaProducer.Close(); err != nil {
		log.Error("Kafka producer close failed", "error", err)
	} else {
		log.Info("✓ Kafka producer closed")
	}

	log.Info("[5/6] Flushing error tracker...")
	if c.ErrorTracker != nil {
		if err := c.ErrorTracker.Flush(ctx); err != nil {
			log.Warnf("Failed to flush error tracker: %v", err)
		} else {
			log.Info("✓ Error tracker flushed")
		}
	}

	log.Info("[6/6] Closing database connections...")
	if err := c.Redis.Close(); err != nil {
		log.Error("Redis close failed", "error", err)
	}
	if err := c.CH.Close(); err != nil {
		log.Error("ClickHouse close failed", "error", err)
	}
	if err := c.PG.Close(); err != nil {
		log.Error("Postgres close failed", "error", err)
	}
	log.Info("✓ Database connections closed")

	log.Info("Shutdown complete")
}
