//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/cradoe/memberreg/internal/cache"
	"github.com/cradoe/memberreg/internal/models"
)

func newRedisCache(t *testing.T) *cache.Cache {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	opts, err := redis.ParseURL(url)
	require.NoError(t, err)

	c := cache.NewFromClient(redis.NewClient(opts))
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Ping(ctx))
	return c
}

func TestMemberCache(t *testing.T) {
	c := newRedisCache(t)
	members := cache.NewMemberCache(c, time.Minute)

	_, found, err := members.GetMember(7)
	require.NoError(t, err)
	assert.False(t, found)

	person := &models.Person{
		ID:        7,
		FirstName: "Ama",
		LastName:  "Mensah",
		Birthday:  models.NewDate(1985, time.June, 2),
		Children: []models.Child{
			{ID: 3, PersonID: 7, FullName: "Esi Mensah", Birthday: models.NewDate(2012, time.January, 5)},
		},
		Parents: []models.Parent{},
	}
	require.NoError(t, members.SetMember(person))

	cached, found, err := members.GetMember(7)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Mensah", cached.LastName)
	assert.Equal(t, person.Birthday, cached.Birthday)
	assert.True(t, cached.SpouseBirthday.IsZero())
	require.Len(t, cached.Children, 1)
	assert.Equal(t, "Esi Mensah", cached.Children[0].FullName)

	require.NoError(t, members.DeleteMember(7))

	_, found, err = members.GetMember(7)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheGetMissingKey(t *testing.T) {
	c := newRedisCache(t)

	_, err := c.Get("nothing-here")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}
