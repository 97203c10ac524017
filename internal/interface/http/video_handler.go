package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/vidtube-api/internal/application"
	"github.com/oksasatya/vidtube-api/pkg/apperror"
	"github.com/oksasatya/vidtube-api/pkg/response"
)

type VideoHandler struct {
	Svc *application.VideoService
}

func NewVideoHandler(svc *application.VideoService) *VideoHandler {
	return &VideoHandler{Svc: svc}
}

type videoForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Duration    string `form:"duration"`
}

func (h *VideoHandler) ListVideos(c *gin.Context) {
	page, err := h.Svc.ListVideos(c.Request.Context(), actor(c), listParams(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, page, "Videos fetched successfully")
}

func (h *VideoHandler) Search(c *gin.Context) {
	p := listParams(c)
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		p.Search = q
	}
	page, err := h.Svc.Search(c.Request.Context(), p)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, page, "Videos fetched successfully")
}

func (h *VideoHandler) Publish(c *gin.Context) {
	var form videoForm
	if !bind(c, &form) {
		return
	}
	var duration float64
	if form.Duration != "" {
		d, err := strconv.ParseFloat(form.Duration, 64)
		if err != nil {
			_ = c.Error(apperror.Validation("duration", "Duration must be a number"))
			return
		}
		duration = d
	}
	videoFile, err := formFile(c, "videoFile")
	if err != nil {
		_ = c.Error(err)
		return
	}
	thumbnail, err := formFile(c, "thumbnail")
	if err != nil {
		_ = c.Error(err)
		return
	}
	v, err := h.Svc.Publish(c.Request.Context(), actor(c), application.PublishVideoInput{
		Title:       form.Title,
		Description: form.Description,
		Duration:    duration,
		VideoFile:   videoFile,
		Thumbnail:   thumbnail,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, v, "Video published successfully", nil)
}

func (h *VideoHandler) GetVideo(c *gin.Context) {
	v, err := h.Svc.GetVideo(c.Request.Context(), actor(c), c.Param("videoId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, v, "Video fetched successfully")
}

func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	var form videoForm
	if !bind(c, &form) {
		return
	}
	thumbnail, err := formFile(c, "thumbnail")
	if err != nil {
		_ = c.Error(err)
		return
	}
	v, err := h.Svc.UpdateVideo(c.Request.Context(), actor(c), c.Param("videoId"), form.Title, form.Description, thumbnail)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, v, "Video updated successfully")
}

func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	if err := h.Svc.DeleteVideo(c.Request.Context(), actor(c), c.Param("videoId")); err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, gin.H{}, "Video deleted successfully")
}

func (h *VideoHandler) TogglePublishStatus(c *gin.Context) {
	st, err := h.Svc.TogglePublishStatus(c.Request.Context(), actor(c), c.Param("videoId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, st, "Video publish status toggled successfully")
}
