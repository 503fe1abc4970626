package handlers

import (
	"net/http"

	"barberbook/middleware"
	"barberbook/models"
	"barberbook/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking wizard over HTTP.
type BookingHandler struct {
	Service booking.BookingSessionService
	Logger  *zap.Logger
}

func NewBookingHandler(svc booking.BookingSessionService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// sessionResponse is what every wizard endpoint returns: the session, the
// transition outcome, and the offered times rendered as "HH:MM".
type sessionResponse struct {
	Session        *models.BookingSession `json:"session"`
	Result         booking.StepResult     `json:"result"`
	AvailableTimes []string               `json:"availableTimes,omitempty"`
}

func newSessionResponse(session *models.BookingSession, result booking.StepResult) sessionResponse {
	resp := sessionResponse{Session: session, Result: result}
	for _, start := range session.Availability {
		resp.AvailableTimes = append(resp.AvailableTimes, models.MinutesToClock(start))
	}
	return resp
}

// StartSession creates a new booking session. Guests get a guest session;
// a valid bearer token binds the session to the user.
func (h *BookingHandler) StartSession(c *gin.Context) {
	session, err := h.Service.StartSession(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(session, booking.StepResult{OK: true, Step: session.Step}))
}

// GetSession returns the current wizard state.
func (h *BookingHandler) GetSession(c *gin.Context) {
	session, err := h.Service.GetSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(session, booking.StepResult{OK: true, Step: session.Step}))
}

// stepEventInput carries one wizard interaction. Action selects which other
// fields apply.
type stepEventInput struct {
	Action         string              `json:"action" binding:"required"`
	ServiceID      string              `json:"serviceId,omitempty"`
	Date           string              `json:"date,omitempty"`
	Time           string              `json:"time,omitempty"` // "HH:MM"
	FamilyMemberID string              `json:"familyMemberId,omitempty"`
	BookForSelf    bool                `json:"bookForSelf,omitempty"`
	ContactInfo    *models.ContactInfo `json:"contactInfo,omitempty"`
	Step           *int                `json:"step,omitempty"` // target for "back"
}

// UpdateSession applies a wizard step event to the session.
func (h *BookingHandler) UpdateSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input stepEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	var (
		session *models.BookingSession
		result  booking.StepResult
		err     error
	)

	switch input.Action {
	case "selectService":
		session, result, err = h.Service.SelectService(ctx, sessionID, input.ServiceID)
	case "selectDate":
		session, result, err = h.Service.SelectDate(ctx, sessionID, input.Date)
	case "selectTime":
		start, convErr := models.ClockToMinutes(input.Time)
		if convErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": convErr.Error()})
			return
		}
		session, result, err = h.Service.SelectTime(ctx, sessionID, start)
	case "selectSubject":
		session, result, err = h.Service.SelectSubject(ctx, sessionID, input.FamilyMemberID, input.BookForSelf)
	case "setContactInfo":
		if input.ContactInfo == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "contactInfo is required"})
			return
		}
		session, result, err = h.Service.SetContactInfo(ctx, sessionID, *input.ContactInfo)
	case "back":
		if input.Step == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "step is required for back"})
			return
		}
		session, result, err = h.Service.Back(ctx, sessionID, models.WizardStep(*input.Step))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action: " + input.Action})
		return
	}

	if err != nil {
		h.respondError(c, err)
		return
	}
	status := http.StatusOK
	if !result.OK {
		// Precondition failures are structured results, rendered inline.
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, newSessionResponse(session, result))
}

// Confirm finalizes the booking.
func (h *BookingHandler) Confirm(c *gin.Context) {
	var input struct {
		SessionID string `json:"sessionID" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, result, err := h.Service.Confirm(c.Request.Context(), input.SessionID)
	if err != nil {
		if booking.CodeOf(err) == booking.CodeSlotConflict {
			// Selections are retained; the client should re-fetch the grid.
			c.JSON(http.StatusConflict, gin.H{
				"error":   err.Error(),
				"code":    booking.CodeSlotConflict,
				"session": session,
			})
			return
		}
		h.respondError(c, err)
		return
	}
	if !result.OK {
		c.JSON(http.StatusUnprocessableEntity, newSessionResponse(session, result))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bookingRef": session.BookingRef,
		"session":    session,
	})
}

// CancelSession abandons an in-progress booking session.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	if err := h.Service.CancelSession(c.Request.Context(), c.Param("sessionID")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func (h *BookingHandler) respondError(c *gin.Context, err error) {
	switch booking.CodeOf(err) {
	case booking.CodeSessionNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case booking.CodeUnauthenticated:
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case booking.CodeValidationError:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case booking.CodeSlotConflict:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case booking.CodeCollaboratorFailure:
		h.Logger.Error("booking collaborator failure", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "a backing service is unavailable; please try again"})
	default:
		h.Logger.Error("booking handler error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
