package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-bytes"

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(testSecret, "ledgerly", "ledgerly-app", time.Hour)
	require.NoError(t, err)
	return m
}

func TestTokenManager_IssueAndVerify(t *testing.T) {
	m := newTestManager(t)
	userID := uuid.New()

	token, expiresAt, err := m.Issue(userID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(token, ".")))
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, expiresAt.Unix(), claims.ExpiresAt.Unix())
}

func TestTokenManager_VerifyRejectsTamperedToken(t *testing.T) {
	m := newTestManager(t)
	token, _, err := m.Issue(uuid.New(), "alice")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[2] = strings.Repeat("A", len(parts[2]))

	_, err = m.Verify(context.Background(), strings.Join(parts, "."))
	assert.True(t, errors.Is(err, domain.ErrInvalidToken))
}

func TestTokenManager_VerifyRejectsOtherSecret(t *testing.T) {
	issuer := newTestManager(t)
	other, err := NewTokenManager("another-secret-that-is-32-bytes-long!", "ledgerly", "ledgerly-app", time.Hour)
	require.NoError(t, err)

	token, _, err := issuer.Issue(uuid.New(), "alice")
	require.NoError(t, err)

	_, err = other.Verify(context.Background(), token)
	assert.True(t, errors.Is(err, domain.ErrInvalidToken))
}

func TestTokenManager_VerifyRejectsWrongAudience(t *testing.T) {
	issuer := newTestManager(t)
	other, err := NewTokenManager(testSecret, "ledgerly", "someone-else", time.Hour)
	require.NoError(t, err)

	token, _, err := issuer.Issue(uuid.New(), "alice")
	require.NoError(t, err)

	_, err = other.Verify(context.Background(), token)
	assert.True(t, errors.Is(err, domain.ErrInvalidToken))
}

func TestTokenManager_VerifyRejectsExpiredToken(t *testing.T) {
	m := newTestManager(t)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := m.Issue(uuid.New(), "alice")
	require.NoError(t, err)

	_, err = m.Verify(context.Background(), token)
	assert.True(t, errors.Is(err, domain.ErrInvalidToken))
}

func TestTokenManager_VerifyRejectsGarbage(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Verify(context.Background(), "not-a-token")
	assert.True(t, errors.Is(err, domain.ErrInvalidToken))
}

func TestNewTokenManager_Validation(t *testing.T) {
	_, err := NewTokenManager("", "ledgerly", "ledgerly-app", time.Hour)
	assert.Error(t, err)

	_, err = NewTokenManager(testSecret, "ledgerly", "ledgerly-app", 0)
	assert.Error(t, err)
}
