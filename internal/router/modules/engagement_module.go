package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
	handlers "github.com/oksasatya/vidtube-api/internal/interface/http"
)

type LikeModule struct {
	Handler *handlers.LikeHandler
	Guards  Guards
}

func NewLikeModule(h *handlers.LikeHandler, g Guards) *LikeModule {
	return &LikeModule{Handler: h, Guards: g}
}

func (m *LikeModule) Register(rg *gin.RouterGroup) {
	l := m.Guards.protected(rg, "/like")
	{
		l.POST("/toggle/v/:videoId", m.Handler.Toggle(entity.LikeTargetVideo, "videoId"))
		l.POST("/toggle/c/:commentId", m.Handler.Toggle(entity.LikeTargetComment, "commentId"))
		l.POST("/toggle/t/:tweetId", m.Handler.Toggle(entity.LikeTargetTweet, "tweetId"))
		l.GET("/videos", m.Handler.LikedVideos)
		l.GET("/v/:videoId", m.Handler.Count(entity.LikeTargetVideo, "videoId"))
		l.GET("/c/:commentId", m.Handler.Count(entity.LikeTargetComment, "commentId"))
		l.GET("/t/:tweetId", m.Handler.Count(entity.LikeTargetTweet, "tweetId"))
	}
}

type SubscriptionModule struct {
	Handler *handlers.SubscriptionHandler
	Guards  Guards
}

func NewSubscriptionModule(h *handlers.SubscriptionHandler, g Guards) *SubscriptionModule {
	return &SubscriptionModule{Handler: h, Guards: g}
}

func (m *SubscriptionModule) Register(rg *gin.RouterGroup) {
	s := m.Guards.protected(rg, "/subscription")
	{
		s.POST("/:channelId", m.Handler.Toggle)
		s.GET("/c/:channelId", m.Handler.Subscribers)
		s.GET("/u/:subscriberId", m.Handler.SubscribedChannels)
	}
}

type DashboardModule struct {
	Handler *handlers.DashboardHandler
	Guards  Guards
}

func NewDashboardModule(h *handlers.DashboardHandler, g Guards) *DashboardModule {
	return &DashboardModule{Handler: h, Guards: g}
}

func (m *DashboardModule) Register(rg *gin.RouterGroup) {
	d := m.Guards.protected(rg, "/dashboard")
	{
		d.GET("/stats/:channelId", m.Handler.Stats)
		d.GET("/videos/:channelId", m.Handler.Videos)
	}
}
