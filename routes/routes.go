package routes

import (
	"net/http"

	"barberbook/handlers"
	"barberbook/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterCatalogRoutes registers the public reference-data endpoints.
func RegisterCatalogRoutes(r *gin.Engine, catalog *handlers.CatalogHandler) {
	api := r.Group("/api")
	{
		api.GET("/services", catalog.ListServices)
		api.GET("/business-hours", catalog.GetBusinessHours)
		api.GET("/appointments/available-times", catalog.GetAvailableTimes)
	}
}

// RegisterAppointmentRoutes registers appointment listing and management.
func RegisterAppointmentRoutes(r *gin.Engine, appointments *handlers.AppointmentHandler) {
	api := r.Group("/api/appointments")
	{
		api.GET("", appointments.ListByDate)
		api.PATCH("/:id/status", appointments.UpdateStatus)
		api.DELETE("/:id", appointments.Cancel)
	}

	mine := r.Group("/api/my-appointments")
	{
		mine.Use(middleware.RequireAuthMiddleware())
		mine.GET("", appointments.ListMine)
	}
}

// RegisterFamilyRoutes registers family-member management (authenticated only).
func RegisterFamilyRoutes(r *gin.Engine, family *handlers.FamilyHandler) {
	api := r.Group("/api/family-members")
	{
		api.Use(middleware.RequireAuthMiddleware())
		api.GET("", family.List)
		api.POST("", family.Create)
		api.PUT("/:id", family.Update)
		api.DELETE("/:id", family.Delete)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "barberbook is up"})
	})
}
