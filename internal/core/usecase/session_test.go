package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rbroggi/accountd/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockSessionStore is a mock implementation of the SessionStore port.
type MockSessionStore struct {
	saved   *model.Session
	saveErr error
}

func (m *MockSessionStore) SaveSession(ctx context.Context, session *model.Session) error {
	m.saved = session
	return m.saveErr
}

func TestSessionCreate(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	store := &MockSessionStore{}
	svc := NewSessionService(
		SessionServiceArgs{Store: store, TTL: 12 * time.Hour},
		WithSessionNowFunc(func() time.Time { return now }),
	)

	session, token, err := svc.Create(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, session)

	assert.NotEqual(t, uuid.Nil, session.ID)
	assert.Equal(t, userID, session.UserID)
	assert.Equal(t, now, session.CreatedAt)
	assert.Equal(t, now.Add(12*time.Hour), session.ExpiresAt)

	// the bearer token is returned to the caller, only its hash is persisted
	require.NotEmpty(t, token)
	sum := sha256.Sum256([]byte(token))
	assert.Equal(t, hex.EncodeToString(sum[:]), session.TokenHash)
	assert.NotEqual(t, token, session.TokenHash)
	require.NotNil(t, store.saved)
	assert.Equal(t, session.TokenHash, store.saved.TokenHash)
}

func TestSessionCreateStoreFailure(t *testing.T) {
	storeErr := errors.New("session store down")
	svc := NewSessionService(SessionServiceArgs{Store: &MockSessionStore{saveErr: storeErr}})

	session, token, err := svc.Create(context.Background(), uuid.New())
	assert.ErrorIs(t, err, storeErr)
	assert.Nil(t, session)
	assert.Empty(t, token)
}

func TestSessionCookie(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewSessionService(SessionServiceArgs{Store: &MockSessionStore{}})

	session := &model.Session{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}

	cookie := svc.Cookie(session, "the-token")
	assert.Equal(t, "session", cookie.Name)
	assert.Equal(t, "the-token", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int((24 * time.Hour).Seconds()), cookie.MaxAge)
	assert.True(t, cookie.HTTPOnly)
	assert.True(t, cookie.Secure)
}
