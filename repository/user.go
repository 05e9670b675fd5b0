package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sihmcb/backend/models"
)

// UserRepository is the credential store consumed by the auth service and
// the CLI tooling.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) (string, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, limit int64) ([]*models.User, error)
}

type userRepository struct {
	collection *mongo.Collection
}

// NewUserRepository returns a UserRepository over the users collection.
// The unique index on username is the authoritative guard against duplicate
// registrations; the service-level existence check is only a fast path.
func NewUserRepository(db *mongo.Database) UserRepository {
	collection := db.Collection("users")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		log.Printf("⚠️ Failed to create unique index on username: %v", err)
	}

	return &userRepository{collection: collection}
}

// FindByUsername retrieves a user by its login name.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// Insert persists a new user record and returns the assigned id. A collision
// on the unique username index is reported as ErrUsernameTaken.
func (r *userRepository) Insert(ctx context.Context, user *models.User) (string, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrUsernameTaken
		}
		return "", fmt.Errorf("failed to insert user: %w", err)
	}
	return user.ID.Hex(), nil
}

// Count returns the total number of user records.
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// List returns up to limit users, newest first.
func (r *userRepository) List(ctx context.Context, limit int64) ([]*models.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}
