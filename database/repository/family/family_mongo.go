// File: database/repository/family/family_mongo.go
package familyRepo

import (
	"context"
	"fmt"
	"time"

	"barberbook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoFamilyRepo) ListByUser(ctx context.Context, userID string) ([]models.FamilyMember, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("error fetching family members: %w", err)
	}
	defer cursor.Close(ctx)

	var members []models.FamilyMember
	if err := cursor.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("error decoding family members: %w", err)
	}
	return members, nil
}

func (r *mongoFamilyRepo) GetByID(ctx context.Context, userID, memberID string) (*models.FamilyMember, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var member models.FamilyMember
	filter := bson.M{"_id": memberID, "userId": userID}
	if err := r.coll.FindOne(ctx, filter).Decode(&member); err != nil {
		return nil, fmt.Errorf("error fetching family member %s: %w", memberID, err)
	}
	return &member, nil
}

func (r *mongoFamilyRepo) Create(ctx context.Context, member *models.FamilyMember) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if _, err := r.coll.InsertOne(ctx, member); err != nil {
		return fmt.Errorf("error creating family member: %w", err)
	}
	return nil
}

func (r *mongoFamilyRepo) Update(ctx context.Context, member *models.FamilyMember) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": member.ID, "userId": member.UserID}
	update := bson.M{"$set": bson.M{"name": member.Name, "relation": member.Relation}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error updating family member %s: %w", member.ID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoFamilyRepo) Delete(ctx context.Context, userID, memberID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": memberID, "userId": userID})
	if err != nil {
		return fmt.Errorf("error deleting family member %s: %w", memberID, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
