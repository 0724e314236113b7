package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindshare/internal/adapters/kafka"
	"mindshare/pkg/errors"
	"mindshare/pkg/logger"
)

type publishedMessage struct {
	topic string
	key   string
	event interface{}
}

type fakeProducer struct {
	messages []publishedMessage
	err      error
}

func (f *fakeProducer) Publish(ctx context.Context, topic string, key string, event interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, publishedMessage{topic: topic, key: key, event: event})
	return nil
}

func TestPublisher_SnapshotCompleted(t *testing.T) {
	producer := &fakeProducer{}
	pub := NewPublisher(producer, logger.Get())

	asOf := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	err := pub.PublishSnapshotCompleted(context.Background(), "24h", asOf, 5, 10000, 42, false)
	require.NoError(t, err)

	require.Len(t, producer.messages, 1)
	msg := producer.messages[0]
	assert.Equal(t, kafka.TopicSnapshotEvents, msg.topic)
	assert.Equal(t, "24h", msg.key)

	event, ok := msg.event.(SnapshotCompletedEvent)
	require.True(t, ok)
	assert.Equal(t, TypeSnapshotCompleted, event.Type)
	assert.Equal(t, "snapshot_worker", event.Source)
	assert.Equal(t, "24h", event.Window)
	assert.Equal(t, asOf, event.AsOf)
	assert.Equal(t, 5, event.ProjectCount)
	assert.Equal(t, int64(10000), event.TotalBps)
	assert.Equal(t, 42, event.MatchedTweets)
	assert.False(t, event.Corrected)
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.Timestamp.IsZero())
}

func TestPublisher_WorkerFailed(t *testing.T) {
	producer := &fakeProducer{}
	pub := NewPublisher(producer, logger.Get())

	lastSuccess := time.Now().Add(-time.Hour)
	err := pub.PublishWorkerFailed(context.Background(), "twitter_collector", errors.New("search failed"), 3, &lastSuccess)
	require.NoError(t, err)

	require.Len(t, producer.messages, 1)
	msg := producer.messages[0]
	assert.Equal(t, kafka.TopicSystemEvents, msg.topic)
	assert.Equal(t, "twitter_collector", msg.key)

	event, ok := msg.event.(WorkerFailedEvent)
	require.True(t, ok)
	assert.Equal(t, TypeWorkerFailed, event.Type)
	assert.Equal(t, "twitter_collector", event.WorkerName)
	assert.Equal(t, "search failed", event.Error)
	assert.Equal(t, 3, event.FailCount)
	require.NotNil(t, event.LastSuccess)
}

func TestPublisher_ProducerError(t *testing.T) {
	producer := &fakeProducer{err: errors.New("broker down")}
	pub := NewPublisher(producer, logger.Get())

	err := pub.PublishSnapshotFailed(context.Background(), "7d", errors.New("clickhouse unavailable"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send to kafka")
	assert.Empty(t, producer.messages)
}

func TestNewBaseEvent_UniqueIDs(t *testing.T) {
	a := NewBaseEvent(TypeSnapshotCompleted, "snapshot_worker")
	b := NewBaseEvent(TypeSnapshotCompleted, "snapshot_worker")

	assert.Equal(t, "1.0", a.Version)
	assert.NotEqual(t, a.ID, b.ID)
}
