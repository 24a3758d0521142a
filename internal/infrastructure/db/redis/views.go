package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ViewCounter tracks per-listing view counts in Redis.
// Key format: views:<property_id>
type ViewCounter struct {
	client *redis.Client
}

// NewViewCounter creates a ViewCounter wrapping the given Redis client.
func NewViewCounter(client *redis.Client) *ViewCounter {
	return &ViewCounter{client: client}
}

// Increment bumps the view count for a listing and returns the new total.
func (v *ViewCounter) Increment(ctx context.Context, id string) (int64, error) {
	n, err := v.client.Incr(ctx, v.key(id)).Result()
	if err != nil {
		return 0, fmt.Errorf("increment views: %w", err)
	}
	return n, nil
}

// Get returns the current view count without incrementing. A missing key
// reads as zero.
func (v *ViewCounter) Get(ctx context.Context, id string) (int64, error) {
	n, err := v.client.Get(ctx, v.key(id)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("get views: %w", err)
	}
	return n, nil
}

func (v *ViewCounter) key(id string) string {
	return "views:" + id
}
