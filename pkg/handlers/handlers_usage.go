package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tserv/shift-control/pkg/database"
	"github.com/tserv/shift-control/pkg/scheduler"
	"github.com/tserv/shift-control/pkg/upstream"
)

// IntegrationRoster returns the shifts covering a day for external systems,
// read with the service's own roster token
func (h *Handler) IntegrationRoster(c *gin.Context) {
	date := c.Param("date")
	if _, err := scheduler.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if h.ServiceToken == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Integration roster is not configured"})
		return
	}

	c.Request = c.Request.WithContext(upstream.WithToken(c.Request.Context(), h.ServiceToken))
	s, ok := h.snapshot(c)
	if !ok {
		return
	}
	shifts, err := scheduler.OnDay(date, s.Shifts)
	if err != nil {
		h.fail(c, err)
		return
	}
	scheduler.SortDayFirst(shifts)
	views, ok := h.views(c, shifts, s)
	if !ok {
		return
	}

	h.RecordUsage(c, len(views))
	c.JSON(http.StatusOK, gin.H{"date": date, "shifts": views})
}

// GetMyUsage returns usage stats for the authenticated API key
func (h *Handler) GetMyUsage(c *gin.Context) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "API Key context missing"})
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	var usage []database.APIUsage
	if err := h.DB.Where("key_id = ?", apiKey.ID).Order("date desc").Limit(30).Find(&usage).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch usage details"})
		return
	}

	var totalRequests, totalShifts int64
	for _, u := range usage {
		totalRequests += int64(u.RequestCount)
		totalShifts += int64(u.TotalShifts)
	}

	c.JSON(http.StatusOK, gin.H{
		"key_name":      apiKey.Name,
		"rate_limit":    apiKey.RateLimit,
		"usage_history": usage,
		"totals": gin.H{
			"requests": totalRequests,
			"shifts":   totalShifts,
		},
	})
}
