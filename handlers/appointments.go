package handlers

import (
	"net/http"

	appointmentRepo "barberbook/database/repository/appointment"
	"barberbook/middleware"
	"barberbook/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppointmentHandler serves the appointment listings and status changes the
// admin calendar and "my appointments" pages use.
type AppointmentHandler struct {
	Appointments appointmentRepo.AppointmentRepository
	Logger       *zap.Logger
}

func NewAppointmentHandler(appointments appointmentRepo.AppointmentRepository, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{Appointments: appointments, Logger: logger}
}

// ListByDate returns all appointments on ?date=.
func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}
	if _, err := models.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	appts, err := h.Appointments.ListByDate(c.Request.Context(), date)
	if err != nil {
		h.Logger.Error("failed to list appointments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load appointments"})
		return
	}
	c.JSON(http.StatusOK, appts)
}

// ListMine returns the authenticated client's appointments.
func (h *AppointmentHandler) ListMine(c *gin.Context) {
	appts, err := h.Appointments.ListByClient(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.Logger.Error("failed to list client appointments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load appointments"})
		return
	}
	c.JSON(http.StatusOK, appts)
}

// UpdateStatus changes an appointment's status (confirm, cancel, complete).
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	switch input.Status {
	case models.StatusPending, models.StatusConfirmed, models.StatusCancelled, models.StatusCompleted:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status: " + input.Status})
		return
	}

	if err := h.Appointments.UpdateStatus(c.Request.Context(), c.Param("id"), input.Status); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": input.Status})
}

// Cancel marks the appointment cancelled, freeing its interval for rebooking.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	if err := h.Appointments.UpdateStatus(c.Request.Context(), c.Param("id"), models.StatusCancelled); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.StatusCancelled})
}
