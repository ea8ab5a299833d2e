package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/aidynbek/account-service/internal/apperr"
	"github.com/sirupsen/logrus"
)

// resetCodeTTL bounds how long a one-time code stays consumable.
const resetCodeTTL = 10 * time.Minute

// Notifier dispatches the one-time code to the user. When no notifier is
// configured the code is returned to the caller instead, a development-only
// affordance.
type Notifier interface {
	SendResetCode(to, code string) error
}

// ResetService drives the password-reset state machine: a user either has no
// pending reset, or a hashed code with an expiry. Requesting moves into
// pending (overwriting any prior code), consuming moves back out.
type ResetService struct {
	repo     UserRepository
	notifier Notifier
}

// NewResetService creates a new instance of ResetService. notifier may be
// nil when mail is not configured.
func NewResetService(repo UserRepository, notifier Notifier) *ResetService {
	return &ResetService{
		repo:     repo,
		notifier: notifier,
	}
}

// ResetRequestResult is the outcome of a reset request. Code is populated
// only when no notifier is configured.
type ResetRequestResult struct {
	Exists bool
	Code   string
}

// RequestReset starts (or restarts) a reset for the given email. An unknown
// email is not an error: the result only carries Exists=false, so the status
// code alone never reveals whether an account exists.
func (s *ResetService) RequestReset(ctx context.Context, email string) (*ResetRequestResult, error) {
	email = NormalizeEmail(email)

	if !emailRegex.MatchString(email) {
		return nil, apperr.Validation("invalid email format")
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		logrus.WithField("email", email).Info("Reset requested for unknown email")
		return &ResetRequestResult{Exists: false}, nil
	}

	code, err := generateResetCode()
	if err != nil {
		logrus.WithError(err).Error("Failed to generate reset code")
		return nil, apperr.Internal("failed to generate reset code", err)
	}

	// The code gets the same storage discipline as passwords: only its hash
	// is persisted.
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Failed to hash reset code")
		return nil, apperr.Internal("failed to process reset request", err)
	}

	expiry := time.Now().Add(resetCodeTTL)
	if err := s.repo.SetResetCode(ctx, user.ID, string(codeHash), expiry); err != nil {
		return nil, err
	}

	if s.notifier == nil {
		logrus.WithField("userID", user.ID.Hex()).Warn("No mailer configured, returning reset code in response")
		return &ResetRequestResult{Exists: true, Code: code}, nil
	}

	// A delivery failure is a hard error, never a fallback to the raw-code
	// path.
	if err := s.notifier.SendResetCode(user.Email, code); err != nil {
		logrus.WithError(err).Error("Failed to send reset code email")
		return nil, apperr.Internal("failed to send reset code", err)
	}

	logrus.WithField("userID", user.ID.Hex()).Info("Reset code sent")
	return &ResetRequestResult{Exists: true}, nil
}

// ResetPassword consumes a pending reset: it checks expiry before the code
// itself, and on success swaps the password and clears the pending state in
// one update. An expired code is terminal until a fresh request supersedes
// it.
func (s *ResetService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = NormalizeEmail(email)
	code = strings.TrimSpace(code)

	if !emailRegex.MatchString(email) {
		return apperr.Validation("invalid email format")
	}
	if len(code) < 4 {
		return apperr.Validation("invalid reset code")
	}
	if len(newPassword) < 6 {
		return apperr.Validation("password must be at least 6 characters")
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("user not found")
	}

	if !user.HasPendingReset() {
		logrus.WithField("userID", user.ID.Hex()).Warn("Reset attempted with no pending request")
		return apperr.State("no reset request found")
	}

	if time.Now().After(*user.ResetCodeExpiry) {
		logrus.WithField("userID", user.ID.Hex()).Warn("Reset attempted with expired code")
		return apperr.State("code expired")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.ResetCodeHash), []byte(code)); err != nil {
		logrus.WithField("userID", user.ID.Hex()).Warn("Reset attempted with wrong code")
		return apperr.Auth("wrong code")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Failed to hash new password")
		return apperr.Internal("failed to reset password", err)
	}

	if err := s.repo.CompletePasswordReset(ctx, user.ID, string(newHash)); err != nil {
		return err
	}

	logrus.WithField("userID", user.ID.Hex()).Info("Password reset successfully")
	return nil
}

// generateResetCode returns a uniformly random 6-digit numeric code.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}
