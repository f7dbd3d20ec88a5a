package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultTTL = 10 * time.Minute

// NewRedisClient connects and pings Redis.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Address, err)
	}
	return rdb, nil
}

// ListingCache keeps detail lookups under listing:<category>:<id>.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

func NewListingCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *ListingCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &ListingCache{client: client, ttl: ttl, logger: log.Named("ListingCache")}
}

func key(c domain.Category, id string) string {
	return "listing:" + string(c) + ":" + id
}

// GetListing returns (nil, nil) on a miss.
func (c *ListingCache) GetListing(ctx context.Context, category domain.Category, id string) (*domain.Listing, error) {
	data, err := c.client.Get(ctx, key(category, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key(category, id), err)
	}
	var l domain.Listing
	if err := json.Unmarshal(data, &l); err != nil {
		c.logger.Warn("Dropping undecodable cache entry", zap.String("key", key(category, id)), zap.Error(err))
		_ = c.client.Del(ctx, key(category, id)).Err()
		return nil, nil
	}
	return &l, nil
}

func (c *ListingCache) SetListing(ctx context.Context, l *domain.Listing) error {
	data, err := json.Marshal(l)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key(l.Category, l.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key(l.Category, l.ID), err)
	}
	return nil
}

func (c *ListingCache) DeleteListing(ctx context.Context, category domain.Category, id string) error {
	if err := c.client.Del(ctx, key(category, id)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key(category, id), err)
	}
	return nil
}
