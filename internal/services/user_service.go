package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/aidynbek/account-service/internal/apperr"
	"github.com/aidynbek/account-service/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// UserRepository is the store surface the services need. The Mongo
// implementation lives in internal/repository; tests substitute a fake.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, name, email string) (*models.User, error)
	SetResetCode(ctx context.Context, id primitive.ObjectID, codeHash string, expiry time.Time) error
	CompletePasswordReset(ctx context.Context, id primitive.ObjectID, passwordHash string) error
}

// UserService encapsulates registration, login and profile logic.
type UserService struct {
	repo UserRepository
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

// NormalizeEmail lowercases and trims an address. Normalized emails are the
// uniqueness and lookup key everywhere.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterUser validates input, hashes the password and stores a new user.
func (s *UserService) RegisterUser(ctx context.Context, name, email, password string) (*models.User, error) {
	logrus.Info("Registering new user")

	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	if name == "" {
		logrus.Warn("Registration with empty name")
		return nil, apperr.Validation("name is required")
	}
	if !emailRegex.MatchString(email) {
		logrus.WithField("email", email).Warn("Invalid email format during registration")
		return nil, apperr.Validation("invalid email format")
	}
	if len(password) < 6 {
		logrus.Warn("Registration with too short password")
		return nil, apperr.Validation("password must be at least 6 characters")
	}

	// Advisory pre-check; the unique index is the final authority.
	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		logrus.WithField("email", email).Warn("Email already in use")
		return nil, apperr.Conflict("email already in use")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, apperr.Internal("failed to register user", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPwd),
	}

	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("User registration failed")
		return nil, err
	}

	logrus.WithField("userID", createdUser.ID.Hex()).Info("User registered successfully")
	return createdUser, nil
}

// AuthenticateUser verifies the email and password and returns the user if
// the credentials are valid. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	logrus.WithField("email", email).Info("Authenticating user")

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		logrus.WithField("email", email).Warn("Login attempt for unknown email")
		return nil, apperr.Auth("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logrus.WithField("email", email).Warn("Invalid credentials")
		return nil, apperr.Auth("invalid email or password")
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User authenticated successfully")
	return user, nil
}

// GetUser retrieves a user by the id carried in a verified token.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		logrus.WithError(err).Warn("Invalid user ID")
		return nil, apperr.NotFound("user not found")
	}

	user, err := s.repo.GetUserByID(ctx, objID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Token may outlive the record it was issued for.
		logrus.WithField("userID", id).Warn("User not found")
		return nil, apperr.NotFound("user not found")
	}

	return user, nil
}

// UpdateProfile validates and persists a new name and email for the user.
// The uniqueness check excludes the user's own record.
func (s *UserService) UpdateProfile(ctx context.Context, id, name, email string) (*models.User, error) {
	logrus.WithField("userID", id).Info("Updating user profile")

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		logrus.WithError(err).Warn("Invalid user ID")
		return nil, apperr.NotFound("user not found")
	}

	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	if len(name) < 2 {
		return nil, apperr.Validation("name must be at least 2 characters")
	}
	if !emailRegex.MatchString(email) {
		return nil, apperr.Validation("invalid email format")
	}

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != objID {
		logrus.WithField("email", email).Warn("Email already owned by another user")
		return nil, apperr.Conflict("email already in use")
	}

	updated, err := s.repo.UpdateProfile(ctx, objID, name, email)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperr.NotFound("user not found")
	}

	logrus.WithField("userID", id).Info("User profile updated successfully")
	return updated, nil
}
