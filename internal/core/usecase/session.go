package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rbroggi/accountd/internal/core/model"
	"github.com/rbroggi/accountd/internal/core/ports"
)

const (
	sessionCookieName  = "session"
	sessionTokenLength = 32
)

// SessionServiceArgs contains the mandatory arguments for the SessionService.
type SessionServiceArgs struct {
	// Store is the session persistence layer.
	Store ports.SessionStore

	// TTL is the session lifetime. Zero-value defaults to 24h.
	TTL time.Duration
}

// SessionServiceOptArgs are the optional arguments for building a SessionService.
type SessionServiceOptArgs = func(*SessionService)

// WithSessionNowFunc can be used to override the nowFunc. Useful for testing.
func WithSessionNowFunc(nowFunc func() time.Time) SessionServiceOptArgs {
	return func(s *SessionService) {
		s.nowFunc = nowFunc
	}
}

// NewSessionService creates a new SessionService.
func NewSessionService(args SessionServiceArgs, optArgs ...SessionServiceOptArgs) *SessionService {
	ttl := args.TTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	svc := &SessionService{
		store:   args.Store,
		ttl:     ttl,
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range optArgs {
		opt(svc)
	}
	return svc
}

// SessionService is the session authority: it mints sessions for freshly
// created accounts and serializes them for cookie transport.
type SessionService struct {
	store   ports.SessionStore
	ttl     time.Duration
	nowFunc func() time.Time
}

// Create mints a session for the given user and persists it. It returns the
// session and the opaque bearer token. Only the sha256 hash of the token is
// stored.
func (s *SessionService) Create(ctx context.Context, userID uuid.UUID) (*model.Session, string, error) {
	token, err := generateToken(sessionTokenLength)
	if err != nil {
		return nil, "", fmt.Errorf("error generating session token: %w", err)
	}

	now := s.nowFunc()
	session := &model.Session{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: hashToken(token),
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}

	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, "", fmt.Errorf("error saving session in store: %w", err)
	}

	return session, token, nil
}

// Cookie serializes the session to its cookie transport parameters.
func (s *SessionService) Cookie(session *model.Session, token string) model.SessionCookie {
	return model.SessionCookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(session.ExpiresAt.Sub(session.CreatedAt).Seconds()),
		HTTPOnly: true,
		Secure:   true,
	}
}

func generateToken(byteLength int) (string, error) {
	bytes := make([]byte, byteLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
