package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mindshare/internal/domain/snapshot"
	"mindshare/internal/metrics"
	"mindshare/pkg/errors"
)

// AllocationCache implements snapshot.AllocationCache using Redis
type AllocationCache struct {
	client *redis.Client
}

// NewAllocationCache creates a new allocation cache
func NewAllocationCache(client *redis.Client) *AllocationCache {
	return &AllocationCache{
		client: client,
	}
}

// Set stores the latest allocation for a window with TTL
func (c *AllocationCache) Set(ctx context.Context, alloc *snapshot.Allocation, ttl time.Duration) error {
	key := c.getKey(alloc.Window)

	data, err := json.Marshal(alloc)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal allocation: window=%s", alloc.Window)
	}

	start := time.Now()
	err = c.client.Set(ctx, key, data, ttl).Err()
	metrics.RecordDBQuery("redis", "set_allocation", time.Since(start), err)
	if err != nil {
		return errors.Wrapf(err, "failed to save allocation to redis: window=%s", alloc.Window)
	}

	return nil
}

// Get retrieves the latest allocation for a window
func (c *AllocationCache) Get(ctx context.Context, window string) (*snapshot.Allocation, error) {
	key := c.getKey(window)

	start := time.Now()
	data, err := c.client.Get(ctx, key).Result()
	// A miss is a normal outcome, not a failed query
	queryErr := err
	if queryErr == redis.Nil {
		queryErr = nil
	}
	metrics.RecordDBQuery("redis", "get_allocation", time.Since(start), queryErr)
	if err == redis.Nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "allocation not cached for window=%s", window)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get allocation from redis: window=%s", window)
	}

	var alloc snapshot.Allocation
	if err := json.Unmarshal([]byte(data), &alloc); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal allocation: window=%s", window)
	}

	return &alloc, nil
}

func (c *AllocationCache) getKey(window string) string {
	return fmt.Sprintf("mindshare:allocation:%s", window)
}
