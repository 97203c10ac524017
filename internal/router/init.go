package router

import (
	"time"

	"github.com/oksasatya/vidtube-api/internal/container"
	handlers "github.com/oksasatya/vidtube-api/internal/interface/http"
	"github.com/oksasatya/vidtube-api/internal/interface/middleware"
	"github.com/oksasatya/vidtube-api/internal/router/modules"
)

func buildGuards(c *container.Container) modules.Guards {
	var sessions middleware.SessionChecker
	if c.Sessions != nil {
		sessions = c.Sessions
	}
	cfg := c.Config
	return modules.Guards{
		Auth: middleware.Auth(c.JWT, sessions),
		// mutating routes only
		Write: middleware.RateLimit(c.Redis, cfg.RateLimitPerMin, time.Minute, middleware.KeyByIP(), middleware.AllowReadOnly(), c.Logger),
		Login: middleware.RateLimit(c.Redis, cfg.AuthRateLimitPerMin, time.Minute, middleware.KeyByIPAndPath(), nil, c.Logger),
	}
}

// InitModules builds every feature module from the container and adds it to the registry.
func InitModules(r *Registry, c *container.Container) {
	g := buildGuards(c)

	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(c.Health)))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(c.Users, c.Cookies), g))
	r.Add(modules.NewVideoModule(handlers.NewVideoHandler(c.Videos), g))
	r.Add(modules.NewCommentModule(handlers.NewCommentHandler(c.Comments), g))
	r.Add(modules.NewTweetModule(handlers.NewTweetHandler(c.Tweets), g))
	r.Add(modules.NewLikeModule(handlers.NewLikeHandler(c.Likes), g))
	r.Add(modules.NewSubscriptionModule(handlers.NewSubscriptionHandler(c.Subscriptions), g))
	r.Add(modules.NewPlaylistModule(handlers.NewPlaylistHandler(c.Playlists), g))
	r.Add(modules.NewDashboardModule(handlers.NewDashboardHandler(c.Dashboard), g))
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(c.Redis, c.Logger))
	}
}
