package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/google/uuid"
	"github.com/rbroggi/accountd/internal/core/model"
)

// Names of the uniqueness constraints declared in db/migrations. The insert
// path classifies integrity violations by these names.
const (
	emailConstraint    = "users_email_unique"
	nicknameConstraint = "users_nickname_unique"
)

// PostgresDB is a postgres adapter for persistence.
type PostgresDB struct {
	db      *pg.DB
	nowFunc func() time.Time
}

// PostgresDBArgs are the mandatory arguments for the creation of a PostgresDB
type PostgresDBArgs struct {
	// DB is a postgres database handle
	DB *pg.DB
}

// PostgresDBOptArgs are the optional arguments for building a PostgresDB
type PostgresDBOptArgs = func(*PostgresDB)

// WithNowFunc can be used to override the nowFunc. Useful for testing.
func WithNowFunc(nowFunc func() time.Time) PostgresDBOptArgs {
	return func(p *PostgresDB) {
		p.nowFunc = nowFunc
	}
}

// NewPostgresDB creates a new PostgresDB.
func NewPostgresDB(args PostgresDBArgs, optArgs ...PostgresDBOptArgs) (*PostgresDB, error) {
	pgDB := &PostgresDB{db: args.DB, nowFunc: func() time.Time { return time.Now().UTC() }}
	for _, opt := range optArgs {
		opt(pgDB)
	}
	return pgDB, nil
}

// SaveUser will save the user in the database. Inserts rejected by one of
// the uniqueness constraints are returned as *model.DuplicateKeyError.
func (p *PostgresDB) SaveUser(ctx context.Context, user *model.User) error {
	if user == nil {
		return errors.New("nil user passed to save method")
	}

	dbUser := p.toDBModel(user)
	if _, err := p.db.ModelContext(ctx, dbUser).Insert(); err != nil {
		return classifyIntegrityError(err)
	}

	user.ID = dbUser.ID
	user.CreatedAt = dbUser.CreatedAt
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// UserByNickname returns the user holding the nickname, or model.ErrNotFound.
func (p *PostgresDB) UserByNickname(ctx context.Context, nickname string) (*model.User, error) {
	dbUser := new(userDB)
	err := p.db.ModelContext(ctx, dbUser).Where("nickname = ?", nickname).Select()
	if err == pg.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	user := translateDBToModel(*dbUser)
	return &user, nil
}

// SaveSession will save the session in the database.
func (p *PostgresDB) SaveSession(ctx context.Context, session *model.Session) error {
	if session == nil {
		return errors.New("nil session passed to save method")
	}

	dbSession := &sessionDB{
		ID:        session.ID,
		UserID:    session.UserID,
		TokenHash: session.TokenHash,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
	}
	if dbSession.CreatedAt.IsZero() {
		dbSession.CreatedAt = p.nowFunc()
	}
	if _, err := p.db.ModelContext(ctx, dbSession).Insert(); err != nil {
		return classifyIntegrityError(err)
	}
	return nil
}

// classifyIntegrityError maps a go-pg integrity violation to the typed
// duplicate-key error the core discriminates on. Any other error passes
// through untouched.
func classifyIntegrityError(err error) error {
	var pgErr pg.Error
	if !errors.As(err, &pgErr) || !pgErr.IntegrityViolation() {
		return err
	}
	constraint := pgErr.Field('n')
	kind := model.DuplicateOther
	switch constraint {
	case emailConstraint:
		kind = model.DuplicateEmail
	case nicknameConstraint:
		kind = model.DuplicateNickname
	}
	return &model.DuplicateKeyError{Kind: kind, Constraint: constraint}
}

func (p *PostgresDB) toDBModel(user *model.User) *userDB {
	dbUser := new(userDB)
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	dbUser.ID = user.ID
	dbUser.Email = user.Email
	dbUser.Nickname = user.Nickname
	dbUser.PasswordHash = user.PasswordHash
	dbUser.Role = string(user.Role)
	dbUser.Verified = user.Verified
	dbUser.ReceiveEmail = user.ReceiveEmail
	dbUser.Terms = user.Terms
	if !user.CreatedAt.IsZero() {
		dbUser.CreatedAt = user.CreatedAt
	} else {
		dbUser.CreatedAt = p.nowFunc()
	}
	dbUser.UpdatedAt = p.nowFunc()
	return dbUser
}

func translateDBToModel(dbUser userDB) model.User {
	return model.User{
		ID:           dbUser.ID,
		Email:        dbUser.Email,
		Nickname:     dbUser.Nickname,
		PasswordHash: dbUser.PasswordHash,
		Role:         model.Role(dbUser.Role),
		Verified:     dbUser.Verified,
		ReceiveEmail: dbUser.ReceiveEmail,
		Terms:        dbUser.Terms,
		CreatedAt:    dbUser.CreatedAt,
		UpdatedAt:    dbUser.UpdatedAt,
	}
}

type userDB struct {
	tableName struct{} `pg:"accountd.users"`

	// ID unique identifier of the user.
	ID uuid.UUID `pg:"id,type:uuid,default:uuid_generate_v4()"`

	// Email is the user email. Unique via users_email_unique.
	Email string `pg:"email"`

	// Nickname is the user nickname. Unique via users_nickname_unique.
	Nickname string `pg:"nickname"`

	// PasswordHash contains the password hash.
	PasswordHash string `pg:"password_hash"`

	// Role is the user role.
	Role string `pg:"role"`

	// Verified indicates whether the user email was verified.
	Verified bool `pg:"verified,use_zero"`

	// ReceiveEmail indicates whether the user opted into email communication.
	ReceiveEmail bool `pg:"receive_email,use_zero"`

	// Terms records the acceptance of the terms of service.
	Terms bool `pg:"terms,use_zero"`

	// CreatedAt is the time at which the user was created in the system.
	CreatedAt time.Time `pg:"created_at"`

	// UpdatedAt is the time at which the user was last updated
	UpdatedAt time.Time `pg:"updated_at"`
}

type sessionDB struct {
	tableName struct{} `pg:"accountd.sessions"`

	// ID unique identifier of the session.
	ID uuid.UUID `pg:"id,type:uuid"`

	// UserID is the id of the user owning the session.
	UserID uuid.UUID `pg:"user_id,type:uuid"`

	// TokenHash is the sha256 hash of the bearer token.
	TokenHash string `pg:"token_hash"`

	// ExpiresAt is the session expiry.
	ExpiresAt time.Time `pg:"expires_at"`

	// CreatedAt is the session creation time.
	CreatedAt time.Time `pg:"created_at"`
}
