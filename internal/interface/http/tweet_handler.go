package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/vidtube-api/internal/application"
	"github.com/oksasatya/vidtube-api/pkg/response"
)

type TweetHandler struct {
	Svc *application.TweetService
}

func NewTweetHandler(svc *application.TweetService) *TweetHandler {
	return &TweetHandler{Svc: svc}
}

func (h *TweetHandler) Create(c *gin.Context) {
	var req contentRequest
	if !bind(c, &req) {
		return
	}
	t, err := h.Svc.CreateTweet(c.Request.Context(), actor(c), req.Content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, t, "Tweet created successfully", nil)
}

func (h *TweetHandler) List(c *gin.Context) {
	page, err := h.Svc.ListTweets(c.Request.Context(), actor(c), listParams(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, page, "Tweets fetched successfully")
}

func (h *TweetHandler) UserTweets(c *gin.Context) {
	tweets, err := h.Svc.GetUserTweets(c.Request.Context(), c.Param("userId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, tweets, "User tweets fetched successfully")
}

func (h *TweetHandler) Update(c *gin.Context) {
	var req contentRequest
	if !bind(c, &req) {
		return
	}
	t, err := h.Svc.UpdateTweet(c.Request.Context(), actor(c), c.Param("tweetId"), req.Content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, t, "Tweet updated successfully")
}

func (h *TweetHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteTweet(c.Request.Context(), actor(c), c.Param("tweetId")); err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, gin.H{}, "Tweet deleted successfully")
}
