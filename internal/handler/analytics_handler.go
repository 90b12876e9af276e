package handler

import (
	"net/http"

	"civicdesk/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Handles GET /analytics - recomputed per request, never cached.
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	summary, err := h.analyticsService.Summarize()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch analytics"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
