// File: services/booking/session.go
package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	appointmentRepo "barberbook/database/repository/appointment"
	"barberbook/models"
	"barberbook/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func sessionKey(sessionID string) string {
	return "booking:session:" + sessionID
}

// StartSession creates a new booking session at the service-selection step,
// assigns it a unique SessionID and stores it in Redis. userID is empty for
// guest sessions.
func (s *DefaultBookingSessionService) StartSession(ctx context.Context, userID string) (*models.BookingSession, error) {
	session := &models.BookingSession{
		SessionID: uuid.New().String(),
		UserID:    userID,
		Step:      models.StepServiceSelect,
		CreatedAt: time.Now(),
	}
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession retrieves the current session state.
func (s *DefaultBookingSessionService) GetSession(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	return s.loadSession(ctx, sessionID)
}

// SelectService sets the chosen service and advances to date selection.
func (s *DefaultBookingSessionService) SelectService(ctx context.Context, sessionID, serviceID string) (*models.BookingSession, StepResult, error) {
	svc, err := s.Catalog.GetServiceByID(ctx, serviceID)
	if err != nil {
		return nil, StepResult{}, NewCollaboratorError("load service", err)
	}
	return s.withSession(ctx, sessionID, func(w *Wizard) StepResult {
		return w.SelectService(*svc)
	})
}

// SelectDate sets the chosen date and advances to time selection, which
// triggers an availability fetch.
func (s *DefaultBookingSessionService) SelectDate(ctx context.Context, sessionID, date string) (*models.BookingSession, StepResult, error) {
	if date != "" {
		if _, err := models.ParseDate(date); err != nil {
			return nil, StepResult{}, NewValidationError(err.Error())
		}
	}
	return s.withSession(ctx, sessionID, func(w *Wizard) StepResult {
		return w.SelectDate(date)
	})
}

// SelectTime sets the chosen start time. The time must be one of the starts
// last offered for the current (date, service) pair.
func (s *DefaultBookingSessionService) SelectTime(ctx context.Context, sessionID string, start int) (*models.BookingSession, StepResult, error) {
	return s.withSession(ctx, sessionID, func(w *Wizard) StepResult {
		return w.SelectTime(start)
	}, s.requireOfferedTime(start))
}

// SelectSubject books for self (bookForSelf) or for a family member.
// Authenticated sessions only; the in-progress selection is preserved on
// rejection so a guest can sign in and resume.
func (s *DefaultBookingSessionService) SelectSubject(ctx context.Context, sessionID, familyMemberID string, bookForSelf bool) (*models.BookingSession, StepResult, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, StepResult{}, err
	}
	if !session.Authenticated() {
		return session, StepResult{}, NewUnauthenticatedError("sign in to choose who this appointment is for")
	}

	var member *models.FamilyMember
	if !bookForSelf {
		member, err = s.Family.GetByID(ctx, session.UserID, familyMemberID)
		if err != nil {
			return session, StepResult{}, NewCollaboratorError("load family member", err)
		}
	}

	return s.withSession(ctx, sessionID, func(w *Wizard) StepResult {
		if bookForSelf {
			return w.ChooseSelf()
		}
		return w.ChooseFamilyMember(*member)
	})
}

// SetContactInfo records guest contact details for the appointment.
func (s *DefaultBookingSessionService) SetContactInfo(ctx context.Context, sessionID string, info models.ContactInfo) (*models.BookingSession, StepResult, error) {
	return s.withSession(ctx, sessionID, func(w *Wizard) StepResult {
		return w.SetContactInfo(info)
	})
}

// Back re-enters an earlier wizard step.
func (s *DefaultBookingSessionService) Back(ctx context.Context, sessionID string, to models.WizardStep) (*models.BookingSession, StepResult, error) {
	return s.withSession(ctx, sessionID, func(w *Wizard) StepResult {
		return w.Back(to)
	})
}

// Confirm submits the appointment. On a slot conflict the session stays in
// the confirm step with its selections intact and the cached availability
// invalidated, so the caller can re-fetch the grid and let the user retry.
func (s *DefaultBookingSessionService) Confirm(ctx context.Context, sessionID string) (*models.BookingSession, StepResult, error) {
	logger := utils.GetLogger()

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, StepResult{}, err
	}

	w := s.wizardFor(session)
	if res := w.ValidateConfirm(); !res.OK {
		return session, res, nil
	}

	sel := session.Selection
	appt := models.Appointment{
		ServiceID:   sel.Service.ID,
		ServiceName: sel.Service.Name,
		Duration:    sel.Service.Duration,
		Date:        sel.Date,
		Start:       *sel.Start,
		Status:      models.StatusPending,
		CreatedAt:   time.Now(),
	}
	if session.Authenticated() {
		appt.ClientID = session.UserID
		appt.FamilyMember = sel.FamilyMember
	} else {
		appt.ClientInfo = sel.ContactInfo
	}

	if err := s.Appointments.Create(ctx, &appt); err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotConflict) {
			// The grid is stale; drop it so the next fetch recomputes.
			s.invalidateAvailability(session)
			if saveErr := s.saveSession(ctx, session); saveErr != nil {
				logger.Error("Confirm: failed to save session after conflict",
					zap.String("sessionID", session.SessionID), zap.Error(saveErr))
			}
			return session, StepResult{OK: false, Step: session.Step}, NewSlotConflictError()
		}
		return session, StepResult{}, NewCollaboratorError("create appointment", err)
	}

	session.BookingRef = appt.ID
	w.Complete()
	session.Step = w.Step
	if err := s.saveSession(ctx, session); err != nil {
		return session, StepResult{}, err
	}

	if s.Completions != nil {
		if err := s.Completions.ScheduleCompletion(ctx, appt); err != nil {
			logger.Error("Confirm: failed to schedule completion task",
				zap.String("appointmentID", appt.ID), zap.Error(err))
		}
	}

	return session, StepResult{OK: true, Step: session.Step}, nil
}

// CancelSession allows the client to explicitly abandon a booking session.
func (s *DefaultBookingSessionService) CancelSession(ctx context.Context, sessionID string) error {
	if err := s.Cache.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to cancel booking session: %w", err)
	}
	return nil
}

// sessionCheck runs against the loaded session before the wizard transition.
type sessionCheck func(session *models.BookingSession, w *Wizard) *StepResult

// requireOfferedTime rejects a start time that is not in the availability
// last offered for the session's current (date, service) pair.
func (s *DefaultBookingSessionService) requireOfferedTime(start int) sessionCheck {
	return func(session *models.BookingSession, w *Wizard) *StepResult {
		sel := session.Selection
		if sel.Service == nil || sel.Date == "" {
			return nil // wizard rejects with the precise reason
		}
		key := models.AvailabilityKey{Date: sel.Date, ServiceID: sel.Service.ID}
		if session.AvailabilityFor != key {
			return nil // no grid fetched yet for this pair
		}
		for _, t := range session.Availability {
			if t == start {
				return nil
			}
		}
		return &StepResult{
			OK:          false,
			Step:        w.Step,
			Reason:      ReasonMissingTime,
			FieldErrors: map[string]string{"time": "the selected time is not available"},
		}
	}
}

// withSession loads the session, applies the wizard transition, refreshes
// availability when the session lands on time selection, and persists the
// result when the transition succeeded.
func (s *DefaultBookingSessionService) withSession(ctx context.Context, sessionID string, fn func(*Wizard) StepResult, checks ...sessionCheck) (*models.BookingSession, StepResult, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, StepResult{}, err
	}

	w := s.wizardFor(session)
	for _, check := range checks {
		if res := check(session, w); res != nil {
			return session, *res, nil
		}
	}

	prevKey := models.AvailabilityKey{ServiceID: serviceID(session), Date: session.Selection.Date}
	res := fn(w)
	session.Step = w.Step
	if !res.OK {
		return session, res, nil
	}

	// Service or date changed: the cached grid no longer applies, and any
	// in-flight fetch for the old pair must be discarded when it lands.
	newKey := models.AvailabilityKey{ServiceID: serviceID(session), Date: session.Selection.Date}
	if newKey != prevKey {
		s.invalidateAvailability(session)
	}

	if session.Step == models.StepTimeSelect {
		if err := s.refreshAvailability(ctx, session); err != nil {
			return session, res, err
		}
	}

	if err := s.saveSession(ctx, session); err != nil {
		return session, res, err
	}
	return session, res, nil
}

func (s *DefaultBookingSessionService) wizardFor(session *models.BookingSession) *Wizard {
	return &Wizard{
		Step:          session.Step,
		Authenticated: session.Authenticated(),
		Selection:     &session.Selection,
	}
}

func serviceID(session *models.BookingSession) string {
	if session.Selection.Service == nil {
		return ""
	}
	return session.Selection.Service.ID
}

// invalidateAvailability drops the cached grid and bumps the fetch sequence
// so a stale in-flight result can never be installed.
func (s *DefaultBookingSessionService) invalidateAvailability(session *models.BookingSession) {
	session.Availability = nil
	session.AvailabilityFor = models.AvailabilityKey{}
	session.AvailabilitySeq++
}

// refreshAvailability recomputes the slot grid for the session's current
// (date, service) pair unless a result for that exact pair is already cached.
func (s *DefaultBookingSessionService) refreshAvailability(ctx context.Context, session *models.BookingSession) error {
	sel := session.Selection
	if sel.Service == nil || sel.Date == "" {
		return nil
	}
	key := models.AvailabilityKey{Date: sel.Date, ServiceID: sel.Service.ID}
	if session.AvailabilityFor == key && session.Availability != nil {
		return nil
	}

	session.AvailabilitySeq++
	seq := session.AvailabilitySeq

	slots, err := s.fetchAvailability(ctx, sel.Service.Duration, sel.Date)
	if err != nil {
		return err
	}

	s.applyAvailability(session, seq, key, slots)
	return nil
}

// applyAvailability installs a fetch result unless a newer fetch was issued
// after seq was taken. Returns whether the result was installed.
func (s *DefaultBookingSessionService) applyAvailability(session *models.BookingSession, seq uint64, key models.AvailabilityKey, slots []int) bool {
	if seq != session.AvailabilitySeq {
		utils.GetLogger().Debug("discarding stale availability result",
			zap.String("sessionID", session.SessionID),
			zap.Uint64("resultSeq", seq),
			zap.Uint64("currentSeq", session.AvailabilitySeq))
		return false
	}
	session.Availability = slots
	session.AvailabilityFor = key
	return true
}

// fetchAvailability resolves business hours and booked intervals for the
// date and runs them through the slot grid.
func (s *DefaultBookingSessionService) fetchAvailability(ctx context.Context, durationMinutes int, date string) ([]int, error) {
	day, err := models.ParseDate(date)
	if err != nil {
		return nil, NewValidationError(err.Error())
	}
	hours, err := s.Catalog.GetDayHours(ctx, day.Weekday())
	if err != nil {
		return nil, NewCollaboratorError("load business hours", err)
	}
	booked, err := s.Appointments.ListBookedIntervals(ctx, date)
	if err != nil {
		return nil, NewCollaboratorError("load booked intervals", err)
	}
	return AvailableStartTimes(durationMinutes, s.granularity(), *hours, booked), nil
}

func (s *DefaultBookingSessionService) loadSession(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	data, err := s.Cache.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, NewSessionNotFoundError(sessionID)
	}
	if err != nil {
		return nil, NewCollaboratorError("load booking session", err)
	}
	var session models.BookingSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse booking session: %w", err)
	}
	return &session, nil
}

func (s *DefaultBookingSessionService) saveSession(ctx context.Context, session *models.BookingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	if err := s.Cache.Set(ctx, sessionKey(session.SessionID), data, s.sessionTTL()).Err(); err != nil {
		return NewCollaboratorError("store booking session", err)
	}
	return nil
}
