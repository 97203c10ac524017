package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/vidtube-api/internal/application"
	"github.com/oksasatya/vidtube-api/pkg/response"
)

type HealthHandler struct {
	Svc *application.HealthService
}

func NewHealthHandler(svc *application.HealthService) *HealthHandler {
	return &HealthHandler{Svc: svc}
}

func (h *HealthHandler) Live(c *gin.Context) {
	response.OK(c, gin.H{"status": "Ok"}, "Everything is OK")
}

func (h *HealthHandler) Ready(c *gin.Context) {
	checks, err := h.Svc.Ready(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, gin.H{"status": "Ok", "checks": checks}, "Everything is OK")
}
