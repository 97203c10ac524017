package handlers

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
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/vidtube-api/internal/application"
	"github.com/oksasatya/vidtube-api/internal/domain/entity"
	"github.com/oksasatya/vidtube-api/internal/domain/repository"
	"github.com/oksasatya/vidtube-api/internal/interface/middleware"
	"github.com/oksasatya/vidtube-api/pkg/apperror"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func nullLogger() logrus.FieldLogger {
	l, _ := test.NewNullLogger()
	return l
}

// newRouter mounts the error boundary and, when userID is set, an
// authenticated actor.
func newRouter(userID string) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorResponder(nullLogger()))
	if userID != "" {
		r.Use(func(c *gin.Context) { c.Set(middleware.CtxUserIDKey, userID) })
	}
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

// stubTweets implements only what the tweet handler tests reach.
type stubTweets struct {
	repository.TweetRepository
	created []entity.Tweet
}

func (s *stubTweets) Create(_ context.Context, t *entity.Tweet) error {
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	s.created = append(s.created, *t)
	return nil
}

func TestHealth_Live(t *testing.T) {
	h := NewHealthHandler(application.NewHealthService(nullLogger()))
	r := newRouter("")
	r.GET("/healthCheck", h.Live)

	w, env := do(t, r, http.MethodGet, "/healthCheck", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Everything is OK", env.Message)
	assert.JSONEq(t, `{"status":"Ok"}`, string(env.Data))
}

func TestHealth_ReadyFailure(t *testing.T) {
	svc := application.NewHealthService(nullLogger())
	svc.Register("postgres", func(context.Context) error { return nil })
	svc.Register("redis", func(context.Context) error { return errors.New("dial tcp: refused") })
	h := NewHealthHandler(svc)
	r := newRouter("")
	r.GET("/healthCheck/ready", h.Ready)

	w, env := do(t, r, http.MethodGet, "/healthCheck/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "unavailable", env.Error.Code)
}

func TestTweet_Create(t *testing.T) {
	owner := uuid.NewString()
	repo := &stubTweets{}
	h := NewTweetHandler(application.NewTweetService(repo, nil, nullLogger()))
	r := newRouter(owner)
	r.POST("/tweet", h.Create)

	w, env := do(t, r, http.MethodPost, "/tweet", `{"content":"  first post  "}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Tweet created successfully", env.Message)

	var got entity.Tweet
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "first post", got.Content)
	assert.Equal(t, owner, got.OwnerID)
	assert.Len(t, repo.created, 1)
}

func TestTweet_CreateBlankRejected(t *testing.T) {
	repo := &stubTweets{}
	h := NewTweetHandler(application.NewTweetService(repo, nil, nullLogger()))
	r := newRouter(uuid.NewString())
	r.POST("/tweet", h.Create)

	w, env := do(t, r, http.MethodPost, "/tweet", `{"content":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "validation_error", env.Error.Code)
	assert.Contains(t, env.Error.Details, "content")
	assert.Empty(t, repo.created)
}

func TestTweet_MalformedJSON(t *testing.T) {
	h := NewTweetHandler(application.NewTweetService(&stubTweets{}, nil, nullLogger()))
	r := newRouter(uuid.NewString())
	r.POST("/tweet", h.Create)

	w, env := do(t, r, http.MethodPost, "/tweet", `{"content":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid payload", env.Message)
}

func TestVideo_GetInvalidID(t *testing.T) {
	h := NewVideoHandler(application.NewVideoService(nil, nil, nil, nil, nil, nullLogger()))
	r := newRouter(uuid.NewString())
	r.GET("/video/:videoId", h.GetVideo)

	w, env := do(t, r, http.MethodGet, "/video/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "videoId")
}

func TestVideo_PublishRequiresMultipart(t *testing.T) {
	h := NewVideoHandler(application.NewVideoService(nil, nil, nil, nil, nil, nullLogger()))
	r := newRouter(uuid.NewString())
	r.POST("/video", h.Publish)

	w, env := do(t, r, http.MethodPost, "/video", `{"title":"t","description":"d"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, apperror.Code(apperror.Validation("", "")), env.Error.Code)
}
