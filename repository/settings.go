package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sihmcb/backend/models"
)

// SettingsRepository stores the imported MCB test configuration documents.
type SettingsRepository interface {
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, limit int64) ([]*models.TestSetting, error)
	ReplaceAll(ctx context.Context, docs []any) (int, error)
}

type settingsRepository struct {
	collection *mongo.Collection
}

// NewSettingsRepository returns a SettingsRepository over the settings
// collection.
func NewSettingsRepository(db *mongo.Database) SettingsRepository {
	return &settingsRepository{collection: db.Collection("settings")}
}

func (r *settingsRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count settings: %w", err)
	}
	return count, nil
}

func (r *settingsRepository) List(ctx context.Context, limit int64) ([]*models.TestSetting, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer cursor.Close(ctx)

	var settings []*models.TestSetting
	if err := cursor.All(ctx, &settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return settings, nil
}

// ReplaceAll clears the collection and inserts the given documents.
func (r *settingsRepository) ReplaceAll(ctx context.Context, docs []any) (int, error) {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return 0, fmt.Errorf("failed to clear settings: %w", err)
	}
	if len(docs) == 0 {
		return 0, nil
	}
	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("failed to insert settings: %w", err)
	}
	return len(result.InsertedIDs), nil
}
