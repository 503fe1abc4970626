// File: database/repository/family/interface.go
package familyRepo

import (
	"context"

	"barberbook/database"
	"barberbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// FamilyRepository manages the family members an authenticated user can
// book appointments for.
type FamilyRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.FamilyMember, error)
	GetByID(ctx context.Context, userID, memberID string) (*models.FamilyMember, error)
	Create(ctx context.Context, member *models.FamilyMember) error
	Update(ctx context.Context, member *models.FamilyMember) error
	Delete(ctx context.Context, userID, memberID string) error
}

type mongoFamilyRepo struct {
	coll *mongo.Collection
}

// NewMongoFamilyRepo constructs a new MongoDB FamilyRepository.
func NewMongoFamilyRepo() FamilyRepository {
	return &mongoFamilyRepo{
		coll: database.DB().Collection("family_members"),
	}
}
