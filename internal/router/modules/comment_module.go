package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/vidtube-api/internal/interface/http"
)

type CommentModule struct {
	Handler *handlers.CommentHandler
	Guards  Guards
}

func NewCommentModule(h *handlers.CommentHandler, g Guards) *CommentModule {
	return &CommentModule{Handler: h, Guards: g}
}

func (m *CommentModule) Register(rg *gin.RouterGroup) {
	cm := m.Guards.protected(rg, "/comment")
	{
		cm.GET("/:videoId", m.Handler.List)
		cm.POST("/:videoId", m.Handler.Add)
		cm.PATCH("/c/:commentId", m.Handler.Update)
		cm.DELETE("/c/:commentId", m.Handler.Delete)
	}
}
