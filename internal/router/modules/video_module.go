package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/vidtube-api/internal/interface/http"
)

type VideoModule struct {
	Handler *handlers.VideoHandler
	Guards  Guards
}

func NewVideoModule(h *handlers.VideoHandler, g Guards) *VideoModule {
	return &VideoModule{Handler: h, Guards: g}
}

func (m *VideoModule) Register(rg *gin.RouterGroup) {
	v := m.Guards.protected(rg, "/video")
	{
		v.GET("", m.Handler.ListVideos)
		v.POST("", m.Handler.Publish)
		v.GET("/search", m.Handler.Search)
		v.GET("/:videoId", m.Handler.GetVideo)
		v.PATCH("/:videoId", m.Handler.UpdateVideo)
		v.DELETE("/:videoId", m.Handler.DeleteVideo)
		v.PATCH("/toggle/publish/:videoId", m.Handler.TogglePublishStatus)
	}
}
