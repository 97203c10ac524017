package repository

import "context"

// DashboardRepository exposes the per-channel counters. Each is a single query so
// callers can run them concurrently.
type DashboardRepository interface {
	CountVideos(ctx context.Context, channelID string) (int64, error)
	CountSubscribers(ctx context.Context, channelID string) (int64, error)
	SumViews(ctx context.Context, channelID string) (int64, error)
	CountVideoLikes(ctx context.Context, channelID string) (int64, error)
}
