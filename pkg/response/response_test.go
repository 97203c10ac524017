package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")
	return c, w
}

func TestSuccess(t *testing.T) {
	c, w := newContext()
	Success(c, http.StatusCreated, map[string]string{"id": "1"}, "created", nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 201, body["status"])
	assert.Equal(t, "created", body["message"])
	assert.Equal(t, "req-1", body["request_id"])
	assert.NotContains(t, body, "error")
	assert.NotContains(t, body, "meta")
}

func TestOKDefaultsStatus(t *testing.T) {
	c, w := newContext()
	resp := Success(c, 0, []int{}, "ok", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusOK, resp.Status)
}

func TestError(t *testing.T) {
	c, w := newContext()
	Error(c, http.StatusNotFound, "video not found", ErrorBody{Code: "not_found"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, c.IsAborted())
	var body struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   ErrorBody       `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "null", string(body.Data))
	assert.Equal(t, "not_found", body.Error.Code)
}
