package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter wires every route of the service
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(h.Logger), gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Shift Control API",
			"version": h.Version,
		})
	})
	r.GET("/healthz", h.Health)

	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	// Operator Endpoints
	api := r.Group("/api")
	api.Use(h.BearerMiddleware())
	{
		api.GET("/shifts", h.ListShifts)
		api.GET("/shifts/active", h.ActiveShifts)
		api.GET("/shifts/upcoming", h.UpcomingShifts)
		api.GET("/shifts/day/:date", h.DayShifts)
		api.GET("/shifts/:id/status", h.ShiftStatus)
		api.GET("/shifts/:id/successor", h.ShiftSuccessor)
		api.POST("/shifts", h.CreateShift)
		api.POST("/shifts/validate", h.ValidateShift)
		api.PUT("/shifts/:id", h.UpdateShift)
		api.DELETE("/shifts/:id", h.DeleteShift)

		api.GET("/calendar/:month", h.Calendar)
		api.GET("/dashboard", h.Dashboard)

		api.GET("/users", h.ListUsers)
		api.GET("/users/me", h.CurrentUser)
		api.PUT("/users/me", h.UpdateProfile)
		api.POST("/users", h.CreateUser)
		api.PUT("/users/:id", h.UpdateUser)
		api.DELETE("/users/:id", h.DeleteUser)

		api.GET("/assets", h.ListAssets)
		api.POST("/assets", h.CreateAsset)
		api.DELETE("/assets/:id", h.DeleteAsset)

		api.GET("/handovers", h.ListHandovers)
		api.GET("/handovers/draft", h.HandoverDraft)
		api.POST("/handovers", h.CreateHandover)
		api.PUT("/handovers/:id", h.UpdateHandover)
		api.DELETE("/handovers/:id", h.DeleteHandover)
	}

	// Integration Endpoints
	integrations := r.Group("/integrations")
	integrations.Use(h.APIKeyMiddleware())
	{
		integrations.GET("/roster/:date", h.IntegrationRoster)
		integrations.GET("/usage", h.GetMyUsage)
	}

	return r
}
