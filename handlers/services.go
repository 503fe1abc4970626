package handlers

import (
	"net/http"

	appointmentRepo "barberbook/database/repository/appointment"
	catalogRepo "barberbook/database/repository/catalog"
	"barberbook/models"
	"barberbook/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogHandler serves the service list, business hours, and the stateless
// available-times endpoint the booking page polls.
type CatalogHandler struct {
	Catalog      catalogRepo.CatalogRepository
	Appointments appointmentRepo.AppointmentRepository
	Granularity  int
	Logger       *zap.Logger
}

func NewCatalogHandler(catalog catalogRepo.CatalogRepository, appointments appointmentRepo.AppointmentRepository, granularity int, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		Catalog:      catalog,
		Appointments: appointments,
		Granularity:  granularity,
		Logger:       logger,
	}
}

// ListServices returns the full service catalogue.
func (h *CatalogHandler) ListServices(c *gin.Context) {
	services, err := h.Catalog.ListServices(c.Request.Context())
	if err != nil {
		h.Logger.Error("failed to list services", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load services"})
		return
	}
	c.JSON(http.StatusOK, services)
}

// GetBusinessHours returns the weekly opening windows.
func (h *CatalogHandler) GetBusinessHours(c *gin.Context) {
	week, err := h.Catalog.ListWeekHours(c.Request.Context())
	if err != nil {
		h.Logger.Error("failed to list business hours", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load business hours"})
		return
	}
	c.JSON(http.StatusOK, week)
}

// GetAvailableTimes computes the bookable start times for ?date=&serviceId=,
// rendered as "HH:MM" strings.
func (h *CatalogHandler) GetAvailableTimes(c *gin.Context) {
	date := c.Query("date")
	serviceID := c.Query("serviceId")
	if date == "" || serviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date and serviceId are required"})
		return
	}
	day, err := models.ParseDate(date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	svc, err := h.Catalog.GetServiceByID(ctx, serviceID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
		return
	}
	hours, err := h.Catalog.GetDayHours(ctx, day.Weekday())
	if err != nil {
		h.Logger.Error("failed to load business hours", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load business hours"})
		return
	}
	booked, err := h.Appointments.ListBookedIntervals(ctx, date)
	if err != nil {
		h.Logger.Error("failed to load booked intervals", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load availability"})
		return
	}

	starts := booking.AvailableStartTimes(svc.Duration, h.Granularity, *hours, booked)
	times := make([]string, 0, len(starts))
	for _, start := range starts {
		times = append(times, models.MinutesToClock(start))
	}
	c.JSON(http.StatusOK, times)
}
