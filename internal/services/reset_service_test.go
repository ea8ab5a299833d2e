package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/aidynbek/account-service/internal/apperr"
	"github.com/stretchr/testify/require"
)

var sixDigits = regexp.MustCompile(`^[1-9]\d{5}$`)

type fakeNotifier struct {
	sentTo   string
	sentCode string
	fail     bool
}

func (n *fakeNotifier) SendResetCode(to, code string) error {
	if n.fail {
		return errors.New("smtp unreachable")
	}
	n.sentTo = to
	n.sentCode = code
	return nil
}

func registerAda(t *testing.T, repo *fakeUserRepo) {
	t.Helper()
	_, err := NewUserService(repo).RegisterUser(context.Background(), "Ada", "ada@example.com", "secret1")
	require.NoError(t, err)
}

func TestRequestReset_InvalidEmail(t *testing.T) {
	svc := NewResetService(newFakeUserRepo(), nil)

	_, err := svc.RequestReset(context.Background(), "not-an-email")
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestRequestReset_UnknownEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewResetService(repo, nil)

	result, err := svc.RequestReset(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	require.False(t, result.Exists)
	require.Empty(t, result.Code)
}

func TestRequestReset_NoNotifierReturnsCode(t *testing.T) {
	repo := newFakeUserRepo()
	registerAda(t, repo)
	svc := NewResetService(repo, nil)

	result, err := svc.RequestReset(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.True(t, result.Exists)
	require.Regexp(t, sixDigits, result.Code)

	// Only the hash is stored, never the code itself.
	stored, err := repo.GetUserByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.True(t, stored.HasPendingReset())
	require.NotEqual(t, result.Code, stored.ResetCodeHash)
}

func TestRequestReset_NotifierGetsCode(t *testing.T) {
	repo := newFakeUserRepo()
	registerAda(t, repo)
	notifier := &fakeNotifier{}
	svc := NewResetService(repo, notifier)

	result, err := svc.RequestReset(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.True(t, result.Exists)
	require.Empty(t, result.Code, "code must not leak into the response when a notifier is configured")
	require.Equal(t, "ada@example.com", notifier.sentTo)
	require.Regexp(t, sixDigits, notifier.sentCode)
}

func TestRequestReset_NotifierFailureIsAnError(t *testing.T) {
	repo := newFakeUserRepo()
	registerAda(t, repo)
	svc := NewResetService(repo, &fakeNotifier{fail: true})

	_, err := svc.RequestReset(context.Background(), "ada@example.com")
	require.Error(t, err)
	require.True(t, apperr.IsKind(err, apperr.KindInternal))
}

func TestResetPassword_Validation(t *testing.T) {
	svc := NewResetService(newFakeUserRepo(), nil)
	ctx := context.Background()

	err := svc.ResetPassword(ctx, "bad-email", "123456", "newpass1")
	require.True(t, apperr.IsKind(err, apperr.KindValidation))

	err = svc.ResetPassword(ctx, "ada@example.com", " 123 ", "newpass1")
	require.True(t, apperr.IsKind(err, apperr.KindValidation), "code under 4 chars after trim must fail")

	err = svc.ResetPassword(ctx, "ada@example.com", "123456", "short")
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestResetPassword_UnknownEmail(t *testing.T) {
	svc := NewResetService(newFakeUserRepo(), nil)

	err := svc.ResetPassword(context.Background(), "nobody@example.com", "123456", "newpass1")
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestResetPassword_NoPendingRequest(t *testing.T) {
	repo := newFakeUserRepo()
	registerAda(t, repo)
	svc := NewResetService(repo, nil)

	err := svc.ResetPassword(context.Background(), "ada@example.com", "123456", "newpass1")
	require.True(t, apperr.IsKind(err, apperr.KindState))
	require.Equal(t, "no reset request found", apperr.Message(err))
}

func TestResetPassword_HappyPathAndSingleUse(t *testing.T) {
	repo := newFakeUserRepo()
	registerAda(t, repo)
	resets := NewResetService(repo, nil)
	users := NewUserService(repo)
	ctx := context.Background()

	result, err := resets.RequestReset(ctx, "ada@example.com")
	require.NoError(t, err)

	require.NoError(t, resets.ResetPassword(ctx, "ada@example.com", result.Code, "newpass1"))

	// New password works, old one does not.
	_, err = users.AuthenticateUser(ctx, "ada@example.com", "newpass1")
	require.NoError(t, err)
	_, err = users.AuthenticateUser(ctx, "ada@example.com", "secret1")
	require.True(t, apperr.IsKind(err, apperr.KindAuth))

	// Consuming cleared the pending state, so the same code is dead.
	err = resets.ResetPassword(ctx, "ada@example.com", result.Code, "anotherpass1")
	require.True(t, apperr.IsKind(err, apperr.KindState))
}

func TestResetPassword_ExpiredCodeIsTerminal(t *testing.T) {
	repo := newFakeUserRepo()
	registerAda(t, repo)
	resets := NewResetService(repo, nil)
	users := NewUserService(repo)
	ctx := context.Background()

	result, err := resets.RequestReset(ctx, "ada@example.com")
	require.NoError(t, err)

	stored, err := repo.GetUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	repo.expireResetCode(stored.ID)

	err = resets.ResetPassword(ctx, "ada@example.com", result.Code, "newpass1")
	require.True(t, apperr.IsKind(err, apperr.KindState))
	require.Equal(t, "code expired", apperr.Message(err))

	// Expiry does not clear the fields; only a fresh request recovers.
	stored, err = repo.GetUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.True(t, stored.HasPendingReset())

	// Password unchanged.
	_, err = users.AuthenticateUser(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	// A new request supersedes the expired state.
	result, err = resets.RequestReset(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NoError(t, resets.ResetPassword(ctx, "ada@example.com", result.Code, "newpass1"))
}

func TestResetPassword_WrongCodeLeavesStateIntact(t *testing.T) {
	repo := newFakeUserRepo()
	registerAda(t, repo)
	resets := NewResetService(repo, nil)
	ctx := context.Background()

	result, err := resets.RequestReset(ctx, "ada@example.com")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == result.Code {
		wrong = "000001"
	}
	err = resets.ResetPassword(ctx, "ada@example.com", wrong, "newpass1")
	require.True(t, apperr.IsKind(err, apperr.KindAuth))
	require.Equal(t, "wrong code", apperr.Message(err))

	// The right code still works afterwards.
	require.NoError(t, resets.ResetPassword(ctx, "ada@example.com", result.Code, "newpass1"))
}

func TestRequestReset_OverwritesPriorCode(t *testing.T) {
	repo := newFakeUserRepo()
	registerAda(t, repo)
	resets := NewResetService(repo, nil)
	ctx := context.Background()

	first, err := resets.RequestReset(ctx, "ada@example.com")
	require.NoError(t, err)
	second, err := resets.RequestReset(ctx, "ada@example.com")
	require.NoError(t, err)

	// Only the code matching the final stored state consumes successfully.
	if first.Code != second.Code {
		err = resets.ResetPassword(ctx, "ada@example.com", first.Code, "newpass1")
		require.True(t, apperr.IsKind(err, apperr.KindAuth))
	}
	require.NoError(t, resets.ResetPassword(ctx, "ada@example.com", second.Code, "newpass1"))
}
