package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/vidtube-api/internal/application"
	"github.com/oksasatya/vidtube-api/internal/domain/entity"
	"github.com/oksasatya/vidtube-api/pkg/response"
)

type LikeHandler struct {
	Svc *application.LikeService
}

func NewLikeHandler(svc *application.LikeService) *LikeHandler {
	return &LikeHandler{Svc: svc}
}

// Toggle returns a handler flipping the actor's like on target, read from param.
func (h *LikeHandler) Toggle(target entity.LikeTarget, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := h.Svc.Toggle(c.Request.Context(), actor(c), target, c.Param(param))
		if err != nil {
			_ = c.Error(err)
			return
		}
		response.OK(c, res, res.Message())
	}
}

func (h *LikeHandler) Count(target entity.LikeTarget, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := h.Svc.Count(c.Request.Context(), target, c.Param(param))
		if err != nil {
			_ = c.Error(err)
			return
		}
		response.OK(c, n, "Likes fetched successfully")
	}
}

func (h *LikeHandler) LikedVideos(c *gin.Context) {
	videos, err := h.Svc.LikedVideos(c.Request.Context(), actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, videos, "Liked videos fetched successfully")
}

type SubscriptionHandler struct {
	Svc *application.SubscriptionService
}

func NewSubscriptionHandler(svc *application.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{Svc: svc}
}

func (h *SubscriptionHandler) Toggle(c *gin.Context) {
	res, err := h.Svc.ToggleSubscription(c.Request.Context(), actor(c), c.Param("channelId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, res, res.Message())
}

func (h *SubscriptionHandler) Subscribers(c *gin.Context) {
	subs, err := h.Svc.ChannelSubscribers(c.Request.Context(), c.Param("channelId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, subs, "Subscribers fetched successfully")
}

func (h *SubscriptionHandler) SubscribedChannels(c *gin.Context) {
	chans, err := h.Svc.SubscribedChannels(c.Request.Context(), c.Param("subscriberId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, chans, "Subscribed channels fetched successfully")
}

type DashboardHandler struct {
	Svc *application.DashboardService
}

func NewDashboardHandler(svc *application.DashboardService) *DashboardHandler {
	return &DashboardHandler{Svc: svc}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.Svc.GetChannelStats(c.Request.Context(), c.Param("channelId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, stats, "Channel stats are fetched successfully")
}

func (h *DashboardHandler) Videos(c *gin.Context) {
	res, err := h.Svc.GetChannelVideos(c.Request.Context(), c.Param("channelId"), listParams(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, res, "Channel videos fetched successfully")
}
