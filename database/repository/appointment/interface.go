// File: database/repository/appointment/interface.go
package appointmentRepo

import (
	"context"
	"errors"

	"barberbook/database"
	"barberbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrSlotConflict is returned by Create when the requested interval collides
// with a pending or confirmed appointment created in the meantime.
var ErrSlotConflict = errors.New("requested time slot is already taken")

// AppointmentRepository persists appointments and answers interval queries
// for the availability grid.
type AppointmentRepository interface {
	// Create inserts the appointment after re-checking the interval against
	// blocking appointments on the same date. Returns ErrSlotConflict on
	// collision.
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	ListByDate(ctx context.Context, date string) ([]models.Appointment, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Appointment, error)
	// ListBookedIntervals returns the intervals of pending/confirmed
	// appointments on the date, ordered by start.
	ListBookedIntervals(ctx context.Context, date string) ([]models.BookedInterval, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// MarkCompleted flips a pending/confirmed appointment to completed.
	// A no-op for cancelled or already-completed appointments.
	MarkCompleted(ctx context.Context, id string) error
}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs a new MongoDB AppointmentRepository.
func NewMongoAppointmentRepo() AppointmentRepository {
	return &mongoAppointmentRepo{
		coll: database.DB().Collection("appointments"),
	}
}
