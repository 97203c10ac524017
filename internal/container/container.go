// Package container builds the application graph once at startup and hands
// it to the router. Optional collaborators stay nil when not configured.
package container

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vidtube-api/config"
	"github.com/oksasatya/vidtube-api/internal/application"
	"github.com/oksasatya/vidtube-api/internal/domain/repository"
	"github.com/oksasatya/vidtube-api/internal/infrastructure/cache"
	pginfra "github.com/oksasatya/vidtube-api/internal/infrastructure/postgres"
	"github.com/oksasatya/vidtube-api/pkg/helpers"
)

// Infra holds the clients opened by main.
type Infra struct {
	Config *config.Config
	Logger *logrus.Logger
	Pool   *pgxpool.Pool
	Redis  *redis.Client               // optional
	Media  repository.MediaStore
	Index  repository.VideoSearchIndex // optional
	Events application.EventPublisher  // optional
}

type Container struct {
	Infra

	JWT      *helpers.JWTManager
	Cookies  *helpers.Manager
	Sessions application.SessionStore // nil without Redis

	Users         *application.UserService
	Videos        *application.VideoService
	Comments      *application.CommentService
	Tweets        *application.TweetService
	Likes         *application.LikeService
	Subscriptions *application.SubscriptionService
	Playlists     *application.PlaylistService
	Dashboard     *application.DashboardService
	Health        *application.HealthService
}

func New(in Infra) *Container {
	cfg, log := in.Config, in.Logger
	c := &Container{
		Infra:   in,
		JWT:     helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL),
		Cookies: helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
	}

	var statsCache repository.StatsCache
	if in.Redis != nil {
		c.Sessions = cache.NewSessionStore(in.Redis)
		statsCache = cache.NewStatsCache(in.Redis, cfg.StatsCacheTTL, log)
	}

	users := pginfra.NewUserRepository(in.Pool)
	videos := pginfra.NewVideoRepository(in.Pool)

	c.Users = application.NewUserService(users, in.Media, c.JWT, c.Sessions, in.Events, log)
	c.Videos = application.NewVideoService(videos, users, in.Media, in.Index, in.Events, log)
	c.Comments = application.NewCommentService(pginfra.NewCommentRepository(in.Pool), videos, log)
	c.Tweets = application.NewTweetService(pginfra.NewTweetRepository(in.Pool), users, log)
	c.Likes = application.NewLikeService(pginfra.NewLikeRepository(in.Pool), log)
	c.Subscriptions = application.NewSubscriptionService(pginfra.NewSubscriptionRepository(in.Pool), users, log)
	c.Playlists = application.NewPlaylistService(pginfra.NewPlaylistRepository(in.Pool), videos, log)
	c.Dashboard = application.NewDashboardService(pginfra.NewDashboardRepository(in.Pool), videos, statsCache, log)
	c.Videos.Stats = statsCache
	c.Likes.Videos, c.Likes.Stats = videos, statsCache
	c.Subscriptions.Stats = statsCache

	c.Health = application.NewHealthService(log)
	c.Health.Register("postgres", in.Pool.Ping)
	if in.Redis != nil {
		rdb := in.Redis
		c.Health.Register("redis", func(ctx context.Context) error { return helpers.RedisPing(ctx, rdb) })
	}
	return c
}
