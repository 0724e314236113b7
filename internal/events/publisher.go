package events

import (
	"context"
	"time"

	"mindshare/internal/adapters/kafka"
	"mindshare/pkg/errors"
	"mindshare/pkg/logger"
)

// kafkaProducer is the slice of the Kafka producer the publisher needs
type kafkaProducer interface {
	Publish(ctx context.Context, topic string, key string, event interface{}) error
}

// Publisher publishes events to Kafka
type Publisher struct {
	producer kafkaProducer
	log      *logger.Logger
}

// NewPublisher creates a new event publisher
func NewPublisher(producer kafkaProducer, log *logger.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		log:      log,
	}
}

// PublishSnapshotCompleted publishes a snapshot completed event
func (p *Publisher) PublishSnapshotCompleted(ctx context.Context, window string, asOf time.Time, projectCount int, totalBps int64, matchedTweets int, corrected bool) error {
	event := SnapshotCompletedEvent{
		BaseEvent:     NewBaseEvent(TypeSnapshotCompleted, "snapshot_worker"),
		Window:        window,
		AsOf:          asOf,
		ProjectCount:  projectCount,
		TotalBps:      totalBps,
		MatchedTweets: matchedTweets,
		Corrected:     corrected,
	}

	return p.publish(ctx, kafka.TopicSnapshotEvents, window, event)
}

// PublishSnapshotFailed publishes a snapshot failed event
func (p *Publisher) PublishSnapshotFailed(ctx context.Context, window string, failure error) error {
	event := SnapshotFailedEvent{
		BaseEvent: NewBaseEvent(TypeSnapshotFailed, "snapshot_worker"),
		Window:    window,
		Error:     failure.Error(),
	}

	return p.publish(ctx, kafka.TopicSystemEvents, window, event)
}

// PublishWorkerFailed publishes a worker failure event
func (p *Publisher) PublishWorkerFailed(ctx context.Context, workerName string, failure error, failCount int, lastSuccess *time.Time) error {
	event := WorkerFailedEvent{
		BaseEvent:   NewBaseEvent(TypeWorkerFailed, workerName),
		WorkerName:  workerName,
		Error:       failure.Error(),
		FailCount:   failCount,
		LastSuccess: lastSuccess,
	}

	return p.publish(ctx, kafka.TopicSystemEvents, workerName, event)
}

// PublishSumCorrected publishes a sum correction event
func (p *Publisher) PublishSumCorrected(ctx context.Context, window string, asOf time.Time, projectCount int) error {
	event := SumCorrectedEvent{
		BaseEvent:    NewBaseEvent(TypeSumCorrected, "snapshot_worker"),
		Window:       window,
		AsOf:         asOf,
		ProjectCount: projectCount,
	}

	return p.publish(ctx, kafka.TopicSystemEvents, window, event)
}

// PublishIngestCompleted publishes an ingest completed event
func (p *Publisher) PublishIngestCompleted(ctx context.Context, source string, tweetsSaved, projects int) error {
	event := IngestCompletedEvent{
		BaseEvent:   NewBaseEvent(TypeIngestCompleted, "twitter_collector"),
		Source:      source,
		TweetsSaved: tweetsSaved,
		Projects:    projects,
	}

	return p.publish(ctx, kafka.TopicSystemEvents, source, event)
}

func (p *Publisher) publish(ctx context.Context, topic, key string, event interface{}) error {
	if err := p.producer.Publish(ctx, topic, key, event); err != nil {
		p.log.Error("Failed to publish event",
			"topic", topic,
			"key", key,
			"error", err,
		)
		return errors.Wrap(err, "send to kafka")
	}

	p.log.Debug("Event published",
		"topic", topic,
		"key", key,
	)

	return nil
}
