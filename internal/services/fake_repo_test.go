package services

import (
	"context"
	"time"

	"github.com/aidynbek/account-service/internal/apperr"
	"github.com/aidynbek/account-service/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeUserRepo is an in-memory stand-in for the Mongo repository. It mirrors
// the real repository's contract: (nil, nil) for absent records and a
// conflict error on duplicate emails, as the unique index would produce.
type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return nil, apperr.Conflict("email already in use")
		}
	}

	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	f.users[user.ID] = &stored
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			found := *user
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	found := *user
	return &found, nil
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, email string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	for otherID, other := range f.users {
		if otherID != id && other.Email == email {
			return nil, apperr.Conflict("email already in use")
		}
	}

	user.Name = name
	user.Email = email
	user.UpdatedAt = time.Now()

	updated := *user
	return &updated, nil
}

func (f *fakeUserRepo) SetResetCode(ctx context.Context, id primitive.ObjectID, codeHash string, expiry time.Time) error {
	user, ok := f.users[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	user.ResetCodeHash = codeHash
	user.ResetCodeExpiry = &expiry
	user.UpdatedAt = time.Now()
	return nil
}

func (f *fakeUserRepo) CompletePasswordReset(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	user, ok := f.users[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	user.PasswordHash = passwordHash
	user.ResetCodeHash = ""
	user.ResetCodeExpiry = nil
	user.UpdatedAt = time.Now()
	return nil
}

// expireResetCode rewinds a stored expiry so tests can simulate the passage
// of time.
func (f *fakeUserRepo) expireResetCode(id primitive.ObjectID) {
	if user, ok := f.users[id]; ok && user.ResetCodeExpiry != nil {
		past := time.Now().Add(-time.Minute)
		user.ResetCodeExpiry = &past
	}
}
