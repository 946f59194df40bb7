package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/shubham03062002/ChillScreen-Backend/internal/domain"
)

// ProfileCache is a Redis backed read-through cache for the public profile
// projection. It is a latency optimisation only: every miss or failure falls
// back to the store, and list mutations invalidate the owning user's entry.
// A nil *ProfileCache is a valid no-op cache.
type ProfileCache struct {
	client  *redis.Client
	logger  *slog.Logger
	ttl     time.Duration
	prefix  string
	timeout time.Duration
}

// NewProfileCache connects to Redis and verifies the connection.
func NewProfileCache(addr, password string, db int, ttl time.Duration, logger *slog.Logger) (*ProfileCache, error) {
	opts := &redis.Options{Addr: addr, Password: password, DB: db}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &ProfileCache{
		client:  client,
		logger:  logger,
		ttl:     ttl,
		prefix:  "chillscreen:profile:",
		timeout: 250 * time.Millisecond,
	}, nil
}

// Get returns the cached profile for userID, if any.
func (c *ProfileCache) Get(ctx context.Context, userID string) (*domain.Profile, bool) {
	if c == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.client.Get(ctx, c.prefix+userID).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logRedisError("get", err)
		}
		return nil, false
	}
	var profile domain.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		c.logRedisError("decode", err)
		return nil, false
	}
	return &profile, true
}

// Set stores the profile under the user's key with the configured TTL.
func (c *ProfileCache) Set(ctx context.Context, userID string, profile domain.Profile) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		c.logRedisError("encode", err)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.client.Set(ctx, c.prefix+userID, raw, c.ttl).Err(); err != nil {
		c.logRedisError("set", err)
	}
}

// Invalidate drops the cached profile for userID.
func (c *ProfileCache) Invalidate(ctx context.Context, userID string) {
	if c == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.client.Del(ctx, c.prefix+userID).Err(); err != nil {
		c.logRedisError("del", err)
	}
}

// Close releases the Redis connection.
func (c *ProfileCache) Close() {
	if c != nil && c.client != nil {
		_ = c.client.Close()
	}
}

func (c *ProfileCache) logRedisError(op string, err error) {
	if c.logger == nil {
		return
	}
	c.logger.Error("profile cache error", "op", op, "error", err)
}
