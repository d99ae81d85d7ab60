package model

import (
	"time"

	"github.com/google/uuid"
)

// Role qualifies the permissions of a user.
type Role string

const (
	// RoleUser is the default role assigned at sign-up.
	RoleUser Role = "USER"

	// RoleAdmin is the elevated role. Never assigned by the sign-up flow.
	RoleAdmin Role = "ADMIN"
)

// User represents an account in the system.
type User struct {
	// ID unique identifier of the user.
	ID uuid.UUID `json:"id"`

	// Email is the user email. Stored lower-cased and unique.
	Email string `json:"email"`

	// Nickname is the user nickname. Unique.
	Nickname string `json:"nickname"`

	// PasswordHash contains the argon2id password hash.
	PasswordHash string `json:"password_hash,omitempty"`

	// Role is the user role.
	Role Role `json:"role"`

	// Verified indicates whether the user email was verified. Accounts are
	// created verified: email verification is skipped at creation time.
	Verified bool `json:"verified"`

	// ReceiveEmail indicates whether the user opted into email communication.
	ReceiveEmail bool `json:"receive_email"`

	// Terms records the acceptance of the terms of service.
	Terms bool `json:"terms"`

	// CreatedAt is the time at which the user was created in the system.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the time at which the user was last updated.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Session is an authenticated session bound to a user. The bearer token
// handed to the client is never stored: only its hash is.
type Session struct {
	// ID unique identifier of the session.
	ID uuid.UUID `json:"id"`

	// UserID is the id of the user owning the session.
	UserID uuid.UUID `json:"user_id"`

	// TokenHash is the sha256 hash of the opaque bearer token.
	TokenHash string `json:"-"`

	// ExpiresAt is the time after which the session is no longer valid.
	ExpiresAt time.Time `json:"expires_at"`

	// CreatedAt is the time at which the session was created.
	CreatedAt time.Time `json:"created_at"`
}

// SessionCookie carries the transport parameters for a session cookie. How
// the cookie is actually written to the response is up to the HTTP actor.
type SessionCookie struct {
	// Name is the cookie name.
	Name string

	// Value is the opaque bearer token.
	Value string

	// Path is the cookie path.
	Path string

	// MaxAge is the cookie lifetime in seconds.
	MaxAge int

	// HTTPOnly marks the cookie as inaccessible to client-side scripts.
	HTTPOnly bool

	// Secure restricts the cookie to TLS transports.
	Secure bool
}
