package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a user account document. The reset fields are paired:
// either both are set (a reset is pending) or both are absent.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email" json:"email"`
	PasswordHash    string             `bson:"password_hash" json:"-"`
	ResetCodeHash   string             `bson:"reset_code_hash,omitempty" json:"-"`
	ResetCodeExpiry *time.Time         `bson:"reset_code_expiry,omitempty" json:"-"`
	CreatedAt       time.Time          `bson:"created_at" json:"-"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"-"`
}

// PublicUser is the subset of a user record safe to return to clients.
type PublicUser struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

// Public projects the user onto its client-facing shape.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

// HasPendingReset reports whether a reset code is currently stored.
func (u *User) HasPendingReset() bool {
	return u.ResetCodeHash != "" && u.ResetCodeExpiry != nil
}
