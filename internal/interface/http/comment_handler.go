package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/vidtube-api/internal/application"
	"github.com/oksasatya/vidtube-api/pkg/response"
)

type CommentHandler struct {
	Svc *application.CommentService
}

func NewCommentHandler(svc *application.CommentService) *CommentHandler {
	return &CommentHandler{Svc: svc}
}

// contentRequest is shared by comments and tweets.
type contentRequest struct {
	Content string `json:"content"`
}

func (h *CommentHandler) List(c *gin.Context) {
	page, err := h.Svc.ListVideoComments(c.Request.Context(), c.Param("videoId"), listParams(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, page, "Comments fetched successfully")
}

func (h *CommentHandler) Add(c *gin.Context) {
	var req contentRequest
	if !bind(c, &req) {
		return
	}
	cm, err := h.Svc.AddComment(c.Request.Context(), actor(c), c.Param("videoId"), req.Content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, cm, "Comment added successfully", nil)
}

func (h *CommentHandler) Update(c *gin.Context) {
	var req contentRequest
	if !bind(c, &req) {
		return
	}
	cm, err := h.Svc.UpdateComment(c.Request.Context(), actor(c), c.Param("commentId"), req.Content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, cm, "Comment updated successfully")
}

func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteComment(c.Request.Context(), actor(c), c.Param("commentId")); err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, gin.H{}, "Comment deleted successfully")
}
