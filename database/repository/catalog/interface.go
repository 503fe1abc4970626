// File: database/repository/catalog/interface.go
package catalogRepo

import (
	"context"
	"time"

	"barberbook/database"
	"barberbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// CatalogRepository serves the shop's reference data: the service list and
// the weekly business hours.
type CatalogRepository interface {
	ListServices(ctx context.Context) ([]models.Service, error)
	GetServiceByID(ctx context.Context, serviceID string) (*models.Service, error)
	GetDayHours(ctx context.Context, weekday time.Weekday) (*models.DayHours, error)
	ListWeekHours(ctx context.Context) ([]models.DayHours, error)
}

type mongoCatalogRepo struct {
	serviceColl *mongo.Collection
	hoursColl   *mongo.Collection
}

// NewMongoCatalogRepo constructs a new MongoDB CatalogRepository.
func NewMongoCatalogRepo() CatalogRepository {
	db := database.DB()
	return &mongoCatalogRepo{
		serviceColl: db.Collection("services"),
		hoursColl:   db.Collection("business_hours"),
	}
}
