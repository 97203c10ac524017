package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP bypasses the limiter for loopback and private-range clients.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(clientIP(c))
		return parsed != nil && (parsed.IsLoopback() || parsed.IsPrivate())
	}
}

// AllowReadOnly bypasses the limiter for GET and HEAD requests.
func AllowReadOnly() AllowFunc {
	return func(c *gin.Context) bool {
		m := strings.ToUpper(c.Request.Method)
		return m == "GET" || m == "HEAD"
	}
}
