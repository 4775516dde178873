package entitlement

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/datera/datera-backend/internal/cache"
	"github.com/datera/datera-backend/internal/config"
)

// Oracle answers whether a user has paid/subscribed access. The message
// gate treats the answer as an opaque boolean; how it is computed
// (billing provider, subscription table, promo flag) lives behind this
// interface.
type Oracle interface {
	IsEntitled(ctx context.Context, userID uint64) (bool, error)
}

// Static answers the same for every user. Useful as the default until a
// billing integration lands, and in tests.
type Static bool

func (s Static) IsEntitled(ctx context.Context, userID uint64) (bool, error) {
	return bool(s), nil
}

// RedisOracle reads the per-user entitlement flag the billing pipeline
// writes into Redis. A missing key means "not entitled".
type RedisOracle struct {
	cache *cache.RedisCache
}

func NewRedisOracle(c *cache.RedisCache) *RedisOracle {
	return &RedisOracle{cache: c}
}

func (o *RedisOracle) IsEntitled(ctx context.Context, userID uint64) (bool, error) {
	val, err := o.cache.Get(ctx, o.cache.KeyForEntitlement(userID))
	if errors.Is(err, redis.Nil) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	switch val {
	case "1", "true", "yes":
		return true, nil
	}
	return false, nil
}

// FromConfig builds the oracle selected by ENTITLEMENT_SOURCE.
func FromConfig(cfg *config.Config, c *cache.RedisCache) Oracle {
	if cfg.Entitlement.Source == "redis" {
		return NewRedisOracle(c)
	}
	return Static(cfg.Entitlement.Default)
}
