package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/realtora/EstateHub/internal/domain"
)

const (
	advertisedKey = "estatehub:properties:advertised"
	advertisedTTL = 2 * time.Minute
)

// ErrCacheMiss is returned when the requested key is absent.
var ErrCacheMiss = errors.New("cache miss")

// PropertyCache caches the advertised-listing strip in Redis. A nil Redis
// client disables caching; every method then behaves as a miss or no-op.
type PropertyCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewPropertyCache creates a Redis-backed property cache.
func NewPropertyCache(client *redis.Client, logger *slog.Logger) *PropertyCache {
	return &PropertyCache{
		client: client,
		logger: logger,
	}
}

// GetAdvertised returns the cached advertised listings, or ErrCacheMiss.
func (c *PropertyCache) GetAdvertised(ctx context.Context) ([]domain.Property, error) {
	if c.client == nil {
		return nil, ErrCacheMiss
	}

	raw, err := c.client.Get(ctx, advertisedKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("get advertised cache: %w", err)
	}

	var properties []domain.Property
	if err := json.Unmarshal(raw, &properties); err != nil {
		return nil, fmt.Errorf("decode advertised cache: %w", err)
	}

	return properties, nil
}

// SetAdvertised stores the advertised listings with a short TTL.
func (c *PropertyCache) SetAdvertised(ctx context.Context, properties []domain.Property) error {
	if c.client == nil {
		return nil
	}

	raw, err := json.Marshal(properties)
	if err != nil {
		return fmt.Errorf("encode advertised cache: %w", err)
	}

	if err := c.client.Set(ctx, advertisedKey, raw, advertisedTTL).Err(); err != nil {
		return fmt.Errorf("set advertised cache: %w", err)
	}

	return nil
}

// InvalidateAdvertised drops the cached advertised listings. Called whenever
// a property changes in a way that could alter the strip.
func (c *PropertyCache) InvalidateAdvertised(ctx context.Context) {
	if c.client == nil {
		return
	}

	if err := c.client.Del(ctx, advertisedKey).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to invalidate advertised cache",
			slog.String("error", err.Error()),
		)
	}
}
