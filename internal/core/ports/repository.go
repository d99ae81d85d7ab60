package ports

import (
	"context"

	"github.com/rbroggi/accountd/internal/core/model"
)

// Repository is the interface for the user persistence layer. Uniqueness of
// email and nickname is enforced here, at the storage layer: implementations
// must return *model.DuplicateKeyError from SaveUser when a uniqueness
// constraint rejects the insert.
type Repository interface {
	// SaveUser durably saves the user.
	SaveUser(ctx context.Context, user *model.User) error

	// UserByNickname returns the user with the given nickname, or
	// model.ErrNotFound when no such user exists.
	UserByNickname(ctx context.Context, nickname string) (*model.User, error)
}

// SessionStore is the interface for session persistence.
type SessionStore interface {
	// SaveSession durably saves the session.
	SaveSession(ctx context.Context, session *model.Session) error
}
