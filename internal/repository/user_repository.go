package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aidynbek/account-service/internal/apperr"
	"github.com/aidynbek/account-service/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository handles database operations on the users collection.
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

// EnsureIndexes creates the unique email index. The index is the final
// authority on email uniqueness; service-level pre-checks only race ahead
// of it.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %v", err)
	}
	return nil
}

// CreateUser inserts a new user into the database.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			logrus.WithField("email", user.Email).Warn("Duplicate email on insert")
			return nil, apperr.Conflict("email already in use")
		}
		logrus.WithError(err).Error("Failed to insert user into database")
		return nil, fmt.Errorf("failed to insert user: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logrus.Error("Failed to cast inserted ID to ObjectID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	user.ID = insertedID

	logrus.WithField("userID", user.ID.Hex()).Info("User inserted successfully")
	return user, nil
}

// GetUserByEmail retrieves a user by normalized email. A missing record is
// reported as (nil, nil) so callers can distinguish absence from failure.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"email": email,
			"error": err,
		}).Error("Failed to find user by email")
		return nil, fmt.Errorf("failed to find user by email: %v", err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by their ID, (nil, nil) when absent.
func (r *UserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"userID": id.Hex(),
			"error":  err,
		}).Error("Failed to find user by ID")
		return nil, fmt.Errorf("failed to find user by id: %v", err)
	}
	return &user, nil
}

// UpdateProfile persists new name and email and returns the updated record.
func (r *UserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, email string) (*models.User, error) {
	update := bson.M{"$set": bson.M{
		"name":       name,
		"email":      email,
		"updated_at": time.Now(),
	}}

	var user models.User
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			logrus.WithField("email", email).Warn("Duplicate email on profile update")
			return nil, apperr.Conflict("email already in use")
		}
		logrus.WithFields(logrus.Fields{
			"userID": id.Hex(),
			"error":  err,
		}).Error("Failed to update user profile")
		return nil, fmt.Errorf("failed to update user: %v", err)
	}

	logrus.WithField("userID", id.Hex()).Info("User profile updated")
	return &user, nil
}

// SetResetCode stores the hashed one-time code and its expiry as a pair. A
// second call overwrites any previous pending code.
func (r *UserRepository) SetResetCode(ctx context.Context, id primitive.ObjectID, codeHash string, expiry time.Time) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"reset_code_hash":   codeHash,
		"reset_code_expiry": expiry,
		"updated_at":        time.Now(),
	}})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"userID": id.Hex(),
			"error":  err,
		}).Error("Failed to store reset code")
		return fmt.Errorf("failed to store reset code: %v", err)
	}

	logrus.WithField("userID", id.Hex()).Info("Reset code stored")
	return nil
}

// CompletePasswordReset swaps in the new password hash and clears the reset
// pair in a single update, keeping the paired-fields invariant.
func (r *UserRepository) CompletePasswordReset(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	update := bson.M{
		"$set": bson.M{
			"password_hash": passwordHash,
			"updated_at":    time.Now(),
		},
		"$unset": bson.M{
			"reset_code_hash":   "",
			"reset_code_expiry": "",
		},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"userID": id.Hex(),
			"error":  err,
		}).Error("Failed to complete password reset")
		return fmt.Errorf("failed to complete password reset: %v", err)
	}

	logrus.WithField("userID", id.Hex()).Info("Password reset completed")
	return nil
}
