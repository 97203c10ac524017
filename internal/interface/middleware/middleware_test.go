package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/vidtube-api/pkg/apperror"
	"github.com/oksasatya/vidtube-api/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type sessionsFunc func(ctx context.Context, userID string) (string, error)

func (f sessionsFunc) Current(ctx context.Context, userID string) (string, error) { return f(ctx, userID) }

type errEnvelope struct {
	Status  int    `json:"status"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func newJWT() *helpers.JWTManager {
	return helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
}

func authRouter(jwt *helpers.JWTManager, sessions SessionChecker) *gin.Engine {
	logger, _ := test.NewNullLogger()
	r := gin.New()
	r.Use(ErrorResponder(logger))
	r.GET("/me", Auth(jwt, sessions), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) errEnvelope {
	t.Helper()
	var env errEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestAuth_MissingToken(t *testing.T) {
	r := authRouter(newJWT(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "unauthorized", env.Error.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	r := authRouter(newJWT(), nil)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid access token", decode(t, w).Message)
}

func TestAuth_BearerAndCookie(t *testing.T) {
	jwt := newJWT()
	uid := uuid.NewString()
	token, _, err := jwt.GenerateAccessToken(uid, "sid-1")
	require.NoError(t, err)
	r := authRouter(jwt, nil)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uid, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AccessCookie, Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_SessionMismatch(t *testing.T) {
	jwt := newJWT()
	token, _, err := jwt.GenerateAccessToken(uuid.NewString(), "old-session")
	require.NoError(t, err)
	r := authRouter(jwt, sessionsFunc(func(context.Context, string) (string, error) {
		return "new-session", nil
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Session expired", decode(t, w).Message)
}

func TestAuth_SessionStoreDown(t *testing.T) {
	jwt := newJWT()
	token, _, err := jwt.GenerateAccessToken(uuid.NewString(), "sid")
	require.NoError(t, err)
	r := authRouter(jwt, sessionsFunc(func(context.Context, string) (string, error) {
		return "", errors.New("connection refused")
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestErrorResponder(t *testing.T) {
	logger, hook := test.NewNullLogger()
	r := gin.New()
	r.Use(RequestID(), ErrorResponder(logger))
	r.GET("/validation", func(c *gin.Context) {
		_ = c.Error(apperror.Validation("title", "Title is required"))
	})
	r.GET("/internal", func(c *gin.Context) {
		_ = c.Error(errors.New("pq: connection reset"))
	})
	r.GET("/written", func(c *gin.Context) {
		c.String(http.StatusTeapot, "already")
		_ = c.Error(apperror.Conflict("late"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/validation", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.Equal(t, "Title is required", env.Message)
	assert.Equal(t, "validation_error", env.Error.Code)
	assert.Equal(t, map[string]string{"title": "Title is required"}, env.Error.Details)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/internal", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env = decode(t, w)
	assert.Equal(t, "internal server error", env.Message)
	assert.NotContains(t, w.Body.String(), "connection reset")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "request failed", hook.LastEntry().Message)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/written", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "already", w.Body.String())
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRequestIDKey)) })

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Body.String())
	assert.Equal(t, incoming, w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err)
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8, 1024))
	r.POST("/", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"content":"way past the limit"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRateLimit_DisabledWithoutRedis(t *testing.T) {
	r := gin.New()
	r.POST("/", RateLimit(nil, 1, time.Minute, KeyByIP(), nil, nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestAllowFuncs(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, AllowReadOnly()(c))
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	assert.False(t, AllowReadOnly()(c))

	c.Set(CtxRealIPKey, "10.0.0.3")
	assert.True(t, AllowPrivateIP()(c))
	c.Set(CtxRealIPKey, "8.8.8.8")
	assert.False(t, AllowPrivateIP()(c))
}
