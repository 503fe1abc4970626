// File: database/repository/catalog/catalog_mongo.go
package catalogRepo

import (
	"context"
	"fmt"
	"time"

	"barberbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoCatalogRepo) ListServices(ctx context.Context) ([]models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.serviceColl.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("error decoding services: %w", err)
	}
	return services, nil
}

func (r *mongoCatalogRepo) GetServiceByID(ctx context.Context, serviceID string) (*models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var svc models.Service
	if err := r.serviceColl.FindOne(ctx, bson.M{"_id": serviceID}).Decode(&svc); err != nil {
		return nil, fmt.Errorf("error fetching service with id %s: %w", serviceID, err)
	}
	return &svc, nil
}

// GetDayHours returns the opening window for the given weekday. A weekday
// with no stored document is treated as closed.
func (r *mongoCatalogRepo) GetDayHours(ctx context.Context, weekday time.Weekday) (*models.DayHours, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var hours models.DayHours
	err := r.hoursColl.FindOne(ctx, bson.M{"weekday": int(weekday)}).Decode(&hours)
	if err == mongo.ErrNoDocuments {
		return &models.DayHours{Weekday: weekday, Closed: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching business hours for %s: %w", weekday, err)
	}
	return &hours, nil
}

func (r *mongoCatalogRepo) ListWeekHours(ctx context.Context) ([]models.DayHours, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "weekday", Value: 1}})
	cursor, err := r.hoursColl.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching business hours: %w", err)
	}
	defer cursor.Close(ctx)

	var week []models.DayHours
	if err := cursor.All(ctx, &week); err != nil {
		return nil, fmt.Errorf("error decoding business hours: %w", err)
	}
	return week, nil
}
