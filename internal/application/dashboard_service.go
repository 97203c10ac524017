package application

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
	repo "github.com/oksasatya/vidtube-api/internal/domain/repository"
	"github.com/oksasatya/vidtube-api/pkg/pagination"
)

type DashboardService struct {
	Stats  repo.DashboardRepository
	Videos repo.VideoRepository
	Cache  repo.StatsCache // optional
	Logger logrus.FieldLogger
}

func NewDashboardService(stats repo.DashboardRepository, videos repo.VideoRepository, cache repo.StatsCache, logger logrus.FieldLogger) *DashboardService {
	return &DashboardService{Stats: stats, Videos: videos, Cache: cache, Logger: logger}
}

// GetChannelStats runs the four counters concurrently. Missing aggregates are
// zero, so a channel id with no user behind it reports all zeroes.
func (s *DashboardService) GetChannelStats(ctx context.Context, channelID string) (*entity.ChannelStats, error) {
	if err := parseID("channelId", channelID); err != nil {
		return nil, err
	}
	if s.Cache != nil {
		if st, ok := s.Cache.Get(ctx, channelID); ok {
			return st, nil
		}
	}
	st := &entity.ChannelStats{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.TotalVideos, err = s.Stats.CountVideos(gctx, channelID)
		return err
	})
	g.Go(func() (err error) {
		st.TotalSubscribers, err = s.Stats.CountSubscribers(gctx, channelID)
		return err
	})
	g.Go(func() (err error) {
		st.TotalVideosViews, err = s.Stats.SumViews(gctx, channelID)
		return err
	})
	g.Go(func() (err error) {
		st.TotalVideosLikes, err = s.Stats.CountVideoLikes(gctx, channelID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, channelID, st)
	}
	return st, nil
}

// GetChannelVideos pages through every video of the channel, newest first.
func (s *DashboardService) GetChannelVideos(ctx context.Context, channelID string, p pagination.Params) (*entity.ChannelVideos, error) {
	if err := parseID("channelId", channelID); err != nil {
		return nil, err
	}
	p.Search, p.SortBy, p.Desc = "", "createdAt", true
	videos, total, err := s.Videos.ListByOwner(ctx, channelID, p)
	if err != nil {
		return nil, err
	}
	if videos == nil {
		videos = []entity.Video{}
	}
	return &entity.ChannelVideos{Videos: videos, Page: p.Page, Limit: p.Limit, TotalVideos: total}, nil
}
