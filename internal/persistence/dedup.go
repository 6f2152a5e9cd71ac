package persistence

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupKeyPrefix = "outage:root:"

// RedisDeduper implements alert suppression on top of SET NX with a TTL:
// the first alert for a root device claims the key for the suppression
// window, every later alert inside the window sees the key and is dropped.
type RedisDeduper struct {
	client *redis.Client
	window time.Duration
}

// NewRedisDeduper builds a deduper; a nil client or non-positive window
// disables suppression.
func NewRedisDeduper(r *Redis, window time.Duration) *RedisDeduper {
	var client *redis.Client
	if r != nil {
		client = r.Client
	}
	return &RedisDeduper{client: client, window: window}
}

// MarkIfFirst returns true when this is the first alert for the root
// device inside the current suppression window.
func (d *RedisDeduper) MarkIfFirst(ctx context.Context, rootDeviceID string) (bool, error) {
	if d == nil || d.client == nil || d.window <= 0 {
		return true, nil
	}
	return d.client.SetNX(ctx, dedupKeyPrefix+rootDeviceID, time.Now().Unix(), d.window).Result()
}
