package entitlement_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datera/datera-backend/internal/cache"
	"github.com/datera/datera-backend/internal/config"
	"github.com/datera/datera-backend/internal/entitlement"
)

func setupCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := &config.Config{}
	cfg.Redis.Addr = mr.Addr()
	return cache.NewRedisCache(cfg), mr
}

func TestStaticOracle(t *testing.T) {
	ctx := context.Background()

	ok, err := entitlement.Static(false).IsEntitled(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = entitlement.Static(true).IsEntitled(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisOracleMissingKeyMeansNotEntitled(t *testing.T) {
	ctx := context.Background()
	rc, _ := setupCache(t)

	oracle := entitlement.NewRedisOracle(rc)
	ok, err := oracle.IsEntitled(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisOracleReadsFlag(t *testing.T) {
	ctx := context.Background()
	rc, mr := setupCache(t)
	oracle := entitlement.NewRedisOracle(rc)

	mr.Set("entitlement:42", "1")
	ok, err := oracle.IsEntitled(ctx, 42)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.Set("entitlement:42", "0")
	ok, err = oracle.IsEntitled(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFromConfig(t *testing.T) {
	rc, _ := setupCache(t)

	cfg := &config.Config{}
	cfg.Entitlement.Source = "static"
	cfg.Entitlement.Default = true
	oracle := entitlement.FromConfig(cfg, rc)
	ok, err := oracle.IsEntitled(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)

	cfg.Entitlement.Source = "redis"
	_, isRedis := entitlement.FromConfig(cfg, rc).(*entitlement.RedisOracle)
	assert.True(t, isRedis)
}
