package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/vidtube-api/internal/domain/repository"
)

type DashboardRepository struct {
	pool *pgxpool.Pool
}

func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

func (r *DashboardRepository) count(ctx context.Context, query, channelID string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, query, channelID).Scan(&n)
	return n, mapErr(err, "channel", channelID)
}

func (r *DashboardRepository) CountVideos(ctx context.Context, channelID string) (int64, error) {
	return r.count(ctx, `SELECT count(*) FROM videos WHERE owner_id = $1`, channelID)
}

func (r *DashboardRepository) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	return r.count(ctx, `SELECT count(*) FROM subscriptions WHERE channel_id = $1`, channelID)
}

func (r *DashboardRepository) SumViews(ctx context.Context, channelID string) (int64, error) {
	return r.count(ctx, `SELECT COALESCE(sum(views), 0)::bigint FROM videos WHERE owner_id = $1`, channelID)
}

func (r *DashboardRepository) CountVideoLikes(ctx context.Context, channelID string) (int64, error) {
	return r.count(ctx, `
		SELECT count(*)
		FROM likes l
		JOIN videos v ON v.id = l.target_id
		WHERE l.target_type = 'video' AND v.owner_id = $1
	`, channelID)
}

var _ repository.DashboardRepository = (*DashboardRepository)(nil)
