package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/vidtube-api/pkg/apperror"
	"github.com/oksasatya/vidtube-api/pkg/helpers"
)

// SessionChecker returns the active session id of a user.
type SessionChecker interface {
	Current(ctx context.Context, userID string) (string, error)
}

// Auth validates the access token and, when sessions is non-nil, that the
// token's session is still the active one. It sets userID on success.
func Auth(jwt *helpers.JWTManager, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			abortWith(c, apperror.Unauthorized("Unauthorized request"))
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			abortWith(c, apperror.Unauthorized("Invalid access token"))
			return
		}
		if sessions != nil {
			sid, err := sessions.Current(c.Request.Context(), claims.UserID)
			if err != nil {
				abortWith(c, apperror.Unavailable("session store unavailable", err))
				return
			}
			if sid == "" || sid != claims.SessionID {
				abortWith(c, apperror.Unauthorized("Session expired"))
				return
			}
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
