package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/vidtube-api/internal/interface/http"
)

type TweetModule struct {
	Handler *handlers.TweetHandler
	Guards  Guards
}

func NewTweetModule(h *handlers.TweetHandler, g Guards) *TweetModule {
	return &TweetModule{Handler: h, Guards: g}
}

func (m *TweetModule) Register(rg *gin.RouterGroup) {
	t := m.Guards.protected(rg, "/tweet")
	{
		t.POST("", m.Handler.Create)
		t.GET("", m.Handler.List)
		t.GET("/user/:userId", m.Handler.UserTweets)
		t.PATCH("/:tweetId", m.Handler.Update)
		t.DELETE("/:tweetId", m.Handler.Delete)
	}
}
