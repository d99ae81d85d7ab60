package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/rbroggi/accountd/internal/core/model"
	"github.com/rbroggi/accountd/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

// sessionAuthority is the consumer-side view of the session service.
type sessionAuthority interface {
	// Create mints and persists a session for the user, returning the
	// session and the opaque bearer token.
	Create(ctx context.Context, userID uuid.UUID) (*model.Session, string, error)

	// Cookie serializes a session to cookie transport parameters.
	Cookie(session *model.Session, token string) model.SessionCookie
}

// SignupServiceArgs contains the mandatory arguments for the SignupService.
type SignupServiceArgs struct {
	// Repository is the repository for user persistence operations.
	Repository ports.Repository

	// Sessions is the session authority used to issue a session right after
	// a successful account creation.
	Sessions sessionAuthority
}

// SignupServiceOptArgs are the optional arguments for building a SignupService.
type SignupServiceOptArgs = func(*SignupService)

// WithNowFunc can be used to override the nowFunc. Useful for testing.
func WithNowFunc(nowFunc func() time.Time) SignupServiceOptArgs {
	return func(s *SignupService) {
		s.nowFunc = nowFunc
	}
}

// WithHashFunc can be used to override the password hashing function.
// Useful for testing.
func WithHashFunc(hashFunc func(password string) (string, error)) SignupServiceOptArgs {
	return func(s *SignupService) {
		s.hashFunc = hashFunc
	}
}

// NewSignupService creates a new SignupService.
func NewSignupService(args SignupServiceArgs, optArgs ...SignupServiceOptArgs) *SignupService {
	svc := &SignupService{
		repository: args.Repository,
		sessions:   args.Sessions,
		nowFunc:    func() time.Time { return time.Now().UTC() },
		hashFunc: func(password string) (string, error) {
			return argon2id.CreateHash(password, argon2id.DefaultParams)
		},
	}
	for _, opt := range optArgs {
		opt(svc)
	}
	return svc
}

// SignupService gathers the account-registration pipeline.
type SignupService struct {
	repository ports.Repository
	sessions   sessionAuthority
	nowFunc    func() time.Time
	hashFunc   func(password string) (string, error)
}

// NicknameAvailable reports whether no account currently holds the nickname.
// The check is advisory: a concurrent registration can still race past it,
// so the storage-layer uniqueness constraints remain the single source of
// truth (see SignUp).
func (s *SignupService) NicknameAvailable(ctx context.Context, nickname string) (bool, error) {
	_, err := s.repository.UserByNickname(ctx, nickname)
	if errors.Is(err, model.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("error looking up nickname: %w", err)
	}
	return false, nil
}

// SignUp runs the registration pipeline on an already schema-validated input:
// nickname pre-check, password hashing, account creation and session
// issuance, strictly in that order. Conflicts surface as *model.FieldError
// scoped to the offending field; every other failure is logged server-side
// and surfaced as the opaque model.ErrSignUpFailed.
func (s *SignupService) SignUp(ctx context.Context, args model.SignUpArgs) (*model.SignUpResponse, error) {
	// Cheap fail-fast before any hashing or storage cost is paid. The race
	// window it leaves open is closed by the constraint classification below.
	available, err := s.NicknameAvailable(ctx, args.Nickname)
	if err != nil {
		log.WithError(err).Error("could not confirm nickname uniqueness")
		return nil, model.ErrSignUpFailed
	}
	if !available {
		return nil, &model.FieldError{Field: "nickname", Message: "This nickname is already taken."}
	}

	hash, err := s.hashFunc(args.Password)
	if err != nil {
		log.WithError(err).Error("error creating password hash")
		return nil, model.ErrSignUpFailed
	}

	now := s.nowFunc()
	user := &model.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(args.Email),
		Nickname:     args.Nickname,
		PasswordHash: hash,
		Role:         model.RoleUser,
		Verified:     true,
		ReceiveEmail: true,
		Terms:        args.Terms,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repository.SaveUser(ctx, user); err != nil {
		return nil, s.classifySaveError(err)
	}

	// The account exists from here on: attempt session issuance even if the
	// client has already gone away.
	sessionCtx := context.WithoutCancel(ctx)
	session, token, err := s.sessions.Create(sessionCtx, user.ID)
	if err != nil {
		log.WithError(err).WithField("user_id", user.ID).Error("account created but session issuance failed")
		return nil, model.ErrSignUpFailed
	}

	return &model.SignUpResponse{
		User:    *user,
		Session: *session,
		Cookie:  s.sessions.Cookie(session, token),
	}, nil
}

func (s *SignupService) classifySaveError(err error) error {
	var dup *model.DuplicateKeyError
	if errors.As(err, &dup) {
		switch dup.Kind {
		case model.DuplicateEmail:
			return &model.FieldError{Field: "email", Message: "A user with that email already exists."}
		case model.DuplicateNickname:
			// Lost the race the pre-check cannot win.
			return &model.FieldError{Field: "nickname", Message: "This nickname is already taken."}
		}
	}
	log.WithError(err).Error("error saving user in repository")
	return model.ErrSignUpFailed
}
