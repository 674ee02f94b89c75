package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	City string `json:"city"`
	Temp int    `json:"temp"`
}

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCacheAside_MissThenHit(t *testing.T) {
	mr, client := newTestClient(t)
	ctx := context.Background()
	calls := 0

	fetch := func(dest *payload) func() error {
		return func() error {
			calls++
			*dest = payload{City: "Trabzon", Temp: 14}
			return nil
		}
	}

	var first payload
	hit, err := CacheAside(ctx, client, "weather:trabzon", &first, time.Minute, fetch(&first))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "Trabzon", first.City)
	assert.True(t, mr.Exists("weather:trabzon"))

	var second payload
	hit, err = CacheAside(ctx, client, "weather:trabzon", &second, time.Minute, fetch(&second))
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("weather:trabzon"))
}

func TestCacheAside_FetchErrorNotCached(t *testing.T) {
	mr, client := newTestClient(t)
	boom := errors.New("upstream down")

	var dest payload
	_, err := CacheAside(context.Background(), client, "k", &dest, time.Minute, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("k"))
}

func TestNilClientIsAMiss(t *testing.T) {
	var client *redis.Client
	var dest payload

	found, err := GetJSON(context.Background(), client, "k", &dest)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, SetJSON(context.Background(), client, "k", dest, time.Minute))

	hit, err := CacheAside(context.Background(), nil, "k", &dest, time.Minute, func() error {
		dest.City = "Rize"
		return nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "Rize", dest.City)
}

func TestNewRedisClient(t *testing.T) {
	client, err := NewRedisClient(context.Background(), "", "", 0)
	require.NoError(t, err)
	assert.Nil(t, client)

	mr := miniredis.RunT(t)
	client, err = NewRedisClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	require.NotNil(t, client)
	_ = client.Close()
}
