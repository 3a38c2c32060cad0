package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	dom "taskapi/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyGeneration = "task:gen"
	keyListPrefix = "task:list:"
)

// TaskCache caches the full task list in Redis.
//
// Snapshots are stored per generation. Every write bumps the generation, so a
// snapshot read from the store before a write can only land under a key that
// no reader will ask for again.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

// Generation returns the current list generation, 0 if no write has happened yet.
func (c *TaskCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, keyGeneration).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// GetList returns the list cached for gen, or nil if miss.
func (c *TaskCache) GetList(ctx context.Context, gen int64) ([]dom.Task, error) {
	b, err := c.rdb.Get(ctx, listKey(gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Task
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the list read under generation gen.
func (c *TaskCache) SetList(ctx context.Context, gen int64, list []dom.Task) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(gen), b, c.ttl).Err()
}

// Invalidate starts a new generation after a write.
func (c *TaskCache) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, keyGeneration).Err()
}

func listKey(gen int64) string {
	return keyListPrefix + strconv.FormatInt(gen, 10)
}
