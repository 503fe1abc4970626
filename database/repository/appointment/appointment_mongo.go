// File: database/repository/appointment/appointment_mongo.go
package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"barberbook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// blockingFilter matches pending/confirmed appointments on date whose
// half-open interval [start, start+duration) intersects [start, end).
func blockingFilter(date string, start, end int) bson.M {
	return bson.M{
		"date":   date,
		"status": bson.M{"$in": []string{models.StatusPending, models.StatusConfirmed}},
		"start":  bson.M{"$lt": end},
		"$expr": bson.M{
			"$gt": bson.A{bson.M{"$add": bson.A{"$start", "$duration"}}, start},
		},
	}
}

func (r *mongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = time.Now()
	}

	// Re-check the interval right before inserting. Availability may be
	// stale by the time the user confirms.
	count, err := r.coll.CountDocuments(ctx, blockingFilter(appt.Date, appt.Start, appt.End()))
	if err != nil {
		return fmt.Errorf("error checking for conflicting appointments: %w", err)
	}
	if count > 0 {
		return ErrSlotConflict
	}

	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		return fmt.Errorf("error creating appointment: %w", err)
	}
	return nil
}

func (r *mongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&appt); err != nil {
		return nil, fmt.Errorf("error fetching appointment with id %s: %w", id, err)
	}
	return &appt, nil
}

func (r *mongoAppointmentRepo) ListByDate(ctx context.Context, date string) ([]models.Appointment, error) {
	return r.list(ctx, bson.M{"date": date})
}

func (r *mongoAppointmentRepo) ListByClient(ctx context.Context, clientID string) ([]models.Appointment, error) {
	return r.list(ctx, bson.M{"clientId": clientID})
}

func (r *mongoAppointmentRepo) list(ctx context.Context, filter bson.M) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	return appts, nil
}

func (r *mongoAppointmentRepo) ListBookedIntervals(ctx context.Context, date string) ([]models.BookedInterval, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"date":   date,
		"status": bson.M{"$in": []string{models.StatusPending, models.StatusConfirmed}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching booked intervals for %s: %w", date, err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("error decoding booked intervals: %w", err)
	}

	intervals := make([]models.BookedInterval, 0, len(appts))
	for _, a := range appts {
		intervals = append(intervals, models.BookedInterval{Start: a.Start, Duration: a.Duration})
	}
	return intervals, nil
}

func (r *mongoAppointmentRepo) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("error updating appointment status: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("appointment %s not found", id)
	}
	return nil
}

func (r *mongoAppointmentRepo) MarkCompleted(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": []string{models.StatusPending, models.StatusConfirmed}},
	}
	if _, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"status": models.StatusCompleted}}); err != nil {
		return fmt.Errorf("error completing appointment %s: %w", id, err)
	}
	return nil
}
