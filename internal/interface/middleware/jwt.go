package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/vidtube-api/pkg/helpers"
)

const CtxUserIDKey = "userID"

// UserID is the authenticated user set by Auth, or "".
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}

// accessToken reads the access token from the cookie, then the Authorization header.
func accessToken(c *gin.Context) string {
	if t, err := c.Cookie(helpers.AccessCookie); err == nil && t != "" {
		return t
	}
	h := c.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}
