package repository

import (
	"context"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
)

// StatsCache memoizes channel stats for a short time. Writes that change a
// channel's counters call Invalidate.
type StatsCache interface {
	Get(ctx context.Context, channelID string) (*entity.ChannelStats, bool)
	Set(ctx context.Context, channelID string, s *entity.ChannelStats)
	Invalidate(ctx context.Context, channelID string)
}
