//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingCache_Redis(t *testing.T) {
	pool, err := dockertest.NewPool("")
	require.NoError(t, err)

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{Repository: "redis", Tag: "7-alpine"}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	var client *redis.Client
	require.NoError(t, pool.Retry(func() error {
		var errRetry error
		client, errRetry = NewRedisClient(context.Background(), config.RedisConfig{Address: resource.GetHostPort("6379/tcp")})
		return errRetry
	}))
	t.Cleanup(func() { _ = client.Close() })

	c := NewListingCache(client, time.Minute, logger.NewNop())
	ctx := context.Background()

	miss, err := c.GetListing(ctx, domain.CategoryTaxi, "abc")
	require.NoError(t, err)
	assert.Nil(t, miss)

	p := 0.0
	in := &domain.Listing{ID: "abc", Category: domain.CategoryTaxi, Title: "Kasun", Price: &p, Images: []string{}}
	require.NoError(t, c.SetListing(ctx, in))

	hit, err := c.GetListing(ctx, domain.CategoryTaxi, "abc")
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, "Kasun", hit.Title)
	require.NotNil(t, hit.Price)
	assert.Equal(t, 0.0, *hit.Price)

	require.NoError(t, c.DeleteListing(ctx, domain.CategoryTaxi, "abc"))
	miss, err = c.GetListing(ctx, domain.CategoryTaxi, "abc")
	require.NoError(t, err)
	assert.Nil(t, miss)
}
