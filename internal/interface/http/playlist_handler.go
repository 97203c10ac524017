package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/vidtube-api/internal/application"
	"github.com/oksasatya/vidtube-api/pkg/response"
)

type PlaylistHandler struct {
	Svc *application.PlaylistService
}

func NewPlaylistHandler(svc *application.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{Svc: svc}
}

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *PlaylistHandler) Create(c *gin.Context) {
	var req playlistRequest
	if !bind(c, &req) {
		return
	}
	pl, err := h.Svc.CreatePlaylist(c.Request.Context(), actor(c), req.Name, req.Description)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, pl, "Playlist created successfully", nil)
}

func (h *PlaylistHandler) UserPlaylists(c *gin.Context) {
	lists, err := h.Svc.GetUserPlaylists(c.Request.Context(), c.Param("userId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, lists, "User playlists fetched successfully")
}

func (h *PlaylistHandler) Get(c *gin.Context) {
	pl, err := h.Svc.GetPlaylist(c.Request.Context(), c.Param("playlistId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, pl, "Playlist fetched successfully")
}

func (h *PlaylistHandler) Update(c *gin.Context) {
	var req playlistRequest
	if !bind(c, &req) {
		return
	}
	pl, err := h.Svc.UpdatePlaylist(c.Request.Context(), actor(c), c.Param("playlistId"), req.Name, req.Description)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, pl, "Playlist updated successfully")
}

func (h *PlaylistHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeletePlaylist(c.Request.Context(), actor(c), c.Param("playlistId")); err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, gin.H{}, "Playlist deleted successfully")
}

func (h *PlaylistHandler) AddVideo(c *gin.Context) {
	pl, err := h.Svc.AddVideo(c.Request.Context(), actor(c), c.Param("videoId"), c.Param("playlistId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, pl, "Video added to playlist successfully")
}

func (h *PlaylistHandler) RemoveVideo(c *gin.Context) {
	pl, err := h.Svc.RemoveVideo(c.Request.Context(), actor(c), c.Param("videoId"), c.Param("playlistId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, pl, "Video removed from playlist successfully")
}
