package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"worksync/internal/model"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisClient_SetGetInvalidate(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{client: db}
	ctx := context.Background()

	mock.ExpectSet("k", []byte("v"), time.Minute).SetVal("OK")
	require.NoError(t, client.Set(ctx, "k", []byte("v"), time.Minute))

	mock.ExpectGet("k").SetVal("v")
	got, err := client.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))

	mock.ExpectGet("missing").RedisNil()
	_, err = client.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	mock.ExpectDel("k").SetVal(1)
	require.NoError(t, client.Invalidate(ctx, "k"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisClient_GetError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{client: db}

	mock.ExpectGet("k").SetErr(errors.New("connection refused"))
	_, err := client.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestRedisBlacklist(t *testing.T) {
	db, mock := redismock.NewClientMock()
	bl := NewRedisBlacklist(&RedisClient{client: db})
	ctx := context.Background()

	mock.ExpectSet("worksync:blacklist:abc", []byte("1"), 10*time.Minute).SetVal("OK")
	require.NoError(t, bl.Revoke(ctx, "abc", 10*time.Minute))

	mock.ExpectExists("worksync:blacklist:abc").SetVal(1)
	revoked, err := bl.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	mock.ExpectExists("worksync:blacklist:other").SetVal(0)
	revoked, err = bl.IsRevoked(ctx, "other")
	require.NoError(t, err)
	assert.False(t, revoked)

	// already expired tokens are not stored
	require.NoError(t, bl.Revoke(ctx, "old", 0))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryBlacklist_Expires(t *testing.T) {
	bl := NewMemoryBlacklist()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	bl.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, bl.Revoke(ctx, "abc", time.Minute))
	revoked, _ := bl.IsRevoked(ctx, "abc")
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, _ = bl.IsRevoked(ctx, "abc")
	assert.False(t, revoked)

	require.NoError(t, bl.Revoke(ctx, "def", time.Minute))
	assert.NotContains(t, bl.entries, "abc")
}

func TestRedisProductCache(t *testing.T) {
	db, mock := redismock.NewClientMock()
	pc := NewRedisProductCache(&RedisClient{client: db}, time.Minute)
	ctx := context.Background()

	products := []model.Product{{ID: 1, Title: "Toner", Price: decimal.RequireFromString("49.5"), Stock: 3}}
	data, err := json.Marshal(products)
	require.NoError(t, err)

	mock.ExpectGet(productsKey).RedisNil()
	_, err = pc.Get(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)

	mock.ExpectSet(productsKey, data, time.Minute).SetVal("OK")
	require.NoError(t, pc.Set(ctx, products))

	mock.ExpectGet(productsKey).SetVal(string(data))
	got, err := pc.Get(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Toner", got[0].Title)
	assert.True(t, got[0].Price.Equal(decimal.RequireFromString("49.5")))

	mock.ExpectDel(productsKey).SetVal(1)
	require.NoError(t, pc.Invalidate(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGuardedProductCache_DropsListingReadBeforeInvalidate(t *testing.T) {
	db, mock := redismock.NewClientMock()
	pc := NewGuardedProductCache(NewRedisProductCache(&RedisClient{client: db}, time.Minute))
	assert.Same(t, pc, NewGuardedProductCache(pc))
	ctx := context.Background()

	products := []model.Product{{ID: 1, Title: "Toner", Price: decimal.RequireFromString("49.5"), Stock: 3}}
	data, err := json.Marshal(products)
	require.NoError(t, err)

	gen := pc.Generation()
	mock.ExpectDel(productsKey).SetVal(1)
	require.NoError(t, pc.Invalidate(ctx))

	// no SET is expected for the outdated listing
	kept, err := pc.SetIfCurrent(ctx, gen, products)
	require.NoError(t, err)
	assert.False(t, kept)

	mock.ExpectSet(productsKey, data, time.Minute).SetVal("OK")
	kept, err = pc.SetIfCurrent(ctx, pc.Generation(), products)
	require.NoError(t, err)
	assert.True(t, kept)

	assert.NoError(t, mock.ExpectationsWereMet())
}
