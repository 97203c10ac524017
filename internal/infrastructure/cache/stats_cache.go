package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
	"github.com/oksasatya/vidtube-api/internal/domain/repository"
	"github.com/oksasatya/vidtube-api/pkg/helpers"
)

// StatsCache stores channel stats as JSON in Redis. Redis errors degrade to misses.
type StatsCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger logrus.FieldLogger
}

func NewStatsCache(rdb *redis.Client, ttl time.Duration, logger logrus.FieldLogger) *StatsCache {
	return &StatsCache{rdb: rdb, ttl: ttl, logger: logger}
}

func statsKey(channelID string) string {
	return "channel:stats:" + channelID
}

func (c *StatsCache) Get(ctx context.Context, channelID string) (*entity.ChannelStats, bool) {
	var s entity.ChannelStats
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, statsKey(channelID), &s)
	if err != nil {
		c.logger.WithError(err).WithField("channel_id", channelID).Warn("stats cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return &s, true
}

func (c *StatsCache) Set(ctx context.Context, channelID string, s *entity.ChannelStats) {
	if err := helpers.RedisSetJSON(ctx, c.rdb, statsKey(channelID), s, c.ttl); err != nil {
		c.logger.WithError(err).WithField("channel_id", channelID).Warn("stats cache write failed")
	}
}

func (c *StatsCache) Invalidate(ctx context.Context, channelID string) {
	if err := c.rdb.Del(ctx, statsKey(channelID)).Err(); err != nil {
		c.logger.WithError(err).WithField("channel_id", channelID).Warn("stats cache invalidate failed")
	}
}

var _ repository.StatsCache = (*StatsCache)(nil)
