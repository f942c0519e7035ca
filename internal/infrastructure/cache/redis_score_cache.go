package cache

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/autofin/credit-engine/internal/domain/port"
	"github.com/autofin/credit-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// RedisScoreCache – read-through cache in front of the score oracle
// ---------------------------------------------------------------------------

const scoreKeyPrefix = "credit_engine:score:"

// RedisScoreCache decorates a port.ScoreOracle with a Redis read-through
// cache so repeat applications for the same document skip the remote
// authority. Cache failures degrade to pass-through: they are logged, never
// surfaced.
type RedisScoreCache struct {
	inner  port.ScoreOracle
	client *goredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisScoreCache creates the decorator.
func NewRedisScoreCache(inner port.ScoreOracle, client *goredis.Client, ttl time.Duration, logger *slog.Logger) *RedisScoreCache {
	return &RedisScoreCache{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// GetScore returns the cached score when present, otherwise consults the
// inner oracle and caches its answer. Only real oracle answers are cached;
// failures are returned as-is so the gateway's resilience layers see them.
func (c *RedisScoreCache) GetScore(ctx context.Context, document valueobject.DocumentNumber) (int, error) {
	key := scoreKeyPrefix + document.Value()

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		if score, convErr := strconv.Atoi(cached); convErr == nil {
			return score, nil
		}
		// Corrupt entry: drop it and fall through to the oracle.
		c.client.Del(ctx, key)
	} else if !errors.Is(err, goredis.Nil) {
		c.logger.Warn("score cache read failed, passing through", "error", err)
	}

	score, err := c.inner.GetScore(ctx, document)
	if err != nil {
		return 0, err
	}

	if err := c.client.Set(ctx, key, strconv.Itoa(score), c.ttl).Err(); err != nil {
		c.logger.Warn("score cache write failed", "error", err)
	}
	return score, nil
}
