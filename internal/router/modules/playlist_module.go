package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/vidtube-api/internal/interface/http"
)

type PlaylistModule struct {
	Handler *handlers.PlaylistHandler
	Guards  Guards
}

func NewPlaylistModule(h *handlers.PlaylistHandler, g Guards) *PlaylistModule {
	return &PlaylistModule{Handler: h, Guards: g}
}

func (m *PlaylistModule) Register(rg *gin.RouterGroup) {
	p := m.Guards.protected(rg, "/playlist")
	{
		p.POST("", m.Handler.Create)
		p.GET("/user/:userId", m.Handler.UserPlaylists)
		p.GET("/:playlistId", m.Handler.Get)
		p.PATCH("/:playlistId", m.Handler.Update)
		p.DELETE("/:playlistId", m.Handler.Delete)
		p.PATCH("/add/:videoId/:playlistId", m.Handler.AddVideo)
		p.PATCH("/remove/:videoId/:playlistId", m.Handler.RemoveVideo)
	}
}
