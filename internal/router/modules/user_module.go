package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/vidtube-api/internal/interface/http"
)

// UserModule serves account and auth routes under /users.
// Public: register, login, refresh-token. Everything else needs a session.
type UserModule struct {
	Handler *handlers.UserHandler
	Guards  Guards
}

func NewUserModule(h *handlers.UserHandler, g Guards) *UserModule {
	return &UserModule{Handler: h, Guards: g}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	pub := rg.Group("/users")
	pub.POST("/register", m.Guards.Login, m.Handler.Register)
	pub.POST("/login", m.Guards.Login, m.Handler.Login)
	pub.POST("/refresh-token", m.Guards.Write, m.Handler.RefreshToken)

	auth := m.Guards.protected(rg, "/users")
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/current-user", m.Handler.CurrentUser)
		auth.POST("/change-password", m.Handler.ChangePassword)
		auth.PATCH("/update-account", m.Handler.UpdateAccount)
		auth.PATCH("/avatar", m.Handler.UpdateAvatar)
		auth.PATCH("/cover-image", m.Handler.UpdateCoverImage)
		auth.GET("/c/:username", m.Handler.ChannelProfile)
		auth.GET("/history", m.Handler.WatchHistory)
	}
}
