package routes

import (
	"barberbook/handlers"
	"barberbook/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking wizard.
// Auth is optional: the wizard branches on auth state rather than requiring it.
func RegisterBookingRoutes(r *gin.Engine, booking *handlers.BookingHandler) {
	api := r.Group("/api/booking")
	{
		api.Use(middleware.OptionalAuthMiddleware())
		api.POST("/session", booking.StartSession)                 // Phase 1: start the wizard
		api.GET("/session/:sessionID", booking.GetSession)         // Inspect current state
		api.PUT("/session/:sessionID", booking.UpdateSession)      // Phase 2: step events
		api.POST("/confirm", booking.Confirm)                      // Phase 3: confirm booking
		api.DELETE("/session/:sessionID", booking.CancelSession)   // Abandon
	}
}
