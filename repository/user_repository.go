package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Airlectric/E-commerce-notifications-microservice/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrUserNotFound reports a lookup miss. Callers treat it as "skip this
// recipient", not as a message failure.
var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	FindByExternalID(ctx context.Context, id string) (*models.User, error)
	UpsertByExternalID(ctx context.Context, user *models.User) error
}

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{
		collection: db.Collection("users"),
	}
}

func (r *userRepository) FindByExternalID(ctx context.Context, id string) (*models.User, error) {
	filter := bson.M{"id": id}
	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return &user, nil
}

// UpsertByExternalID inserts the projection if absent, otherwise
// overwrites username, email and role in place. Fields outside the
// projection are left untouched.
func (r *userRepository) UpsertByExternalID(ctx context.Context, user *models.User) error {
	filter := bson.M{"id": user.ID}
	update := bson.M{"$set": bson.M{
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	}}
	opts := options.Update().SetUpsert(true)

	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("upsert user %s: %w", user.ID, err)
	}
	return nil
}
