package booking

import (
	"context"
	"time"

	appointmentRepo "barberbook/database/repository/appointment"
	catalogRepo "barberbook/database/repository/catalog"
	familyRepo "barberbook/database/repository/family"
	"barberbook/models"

	"github.com/go-redis/redis/v8"
)

// BookingSessionService defines the interface for managing a stateful booking session.
type BookingSessionService interface {
	StartSession(ctx context.Context, userID string) (*models.BookingSession, error)
	GetSession(ctx context.Context, sessionID string) (*models.BookingSession, error)
	SelectService(ctx context.Context, sessionID, serviceID string) (*models.BookingSession, StepResult, error)
	SelectDate(ctx context.Context, sessionID, date string) (*models.BookingSession, StepResult, error)
	SelectTime(ctx context.Context, sessionID string, start int) (*models.BookingSession, StepResult, error)
	SelectSubject(ctx context.Context, sessionID, familyMemberID string, bookForSelf bool) (*models.BookingSession, StepResult, error)
	SetContactInfo(ctx context.Context, sessionID string, info models.ContactInfo) (*models.BookingSession, StepResult, error)
	Back(ctx context.Context, sessionID string, to models.WizardStep) (*models.BookingSession, StepResult, error)
	Confirm(ctx context.Context, sessionID string) (*models.BookingSession, StepResult, error)
	CancelSession(ctx context.Context, sessionID string) error
}

// CompletionScheduler enqueues the task that marks an appointment completed
// once its end time has passed.
type CompletionScheduler interface {
	ScheduleCompletion(ctx context.Context, appt models.Appointment) error
}

// DefaultBookingSessionService implements BookingSessionService.
type DefaultBookingSessionService struct {
	Catalog      catalogRepo.CatalogRepository
	Appointments appointmentRepo.AppointmentRepository
	Family       familyRepo.FamilyRepository
	Cache        *redis.Client
	Completions  CompletionScheduler // optional

	SessionTTL  time.Duration // defaults to 30 minutes
	Granularity int           // slot increment in minutes, defaults to 15
}

func (s *DefaultBookingSessionService) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return 30 * time.Minute
}

func (s *DefaultBookingSessionService) granularity() int {
	if s.Granularity > 0 {
		return s.Granularity
	}
	return 15
}
