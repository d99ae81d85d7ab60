package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rbroggi/accountd/internal/core/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Names of the unique indexes created by EnsureIndexes. The insert path
// classifies duplicate-key errors by sniffing these names in the server
// error message.
const (
	emailIndex    = "email_unique"
	nicknameIndex = "nickname_unique"
)

// MongoDB is a mongo adapter for persistence.
type MongoDB struct {
	userCollection    *mongo.Collection
	sessionCollection *mongo.Collection
	nowFunc           func() time.Time
}

// MongoDBArgs are the mandatory arguments for the creation of a MongoDB
type MongoDBArgs struct {
	// UserCollection is the mongo collection holding users.
	UserCollection *mongo.Collection

	// SessionCollection is the mongo collection holding sessions.
	SessionCollection *mongo.Collection
}

// MongoDBOptArgs are the optional arguments for building a MongoDB
type MongoDBOptArgs = func(*MongoDB)

// WithNowFunc can be used to override the nowFunc. Useful for testing.
func WithNowFunc(nowFunc func() time.Time) MongoDBOptArgs {
	return func(m *MongoDB) {
		m.nowFunc = nowFunc
	}
}

// NewMongoDB creates a new MongoDB.
func NewMongoDB(args MongoDBArgs, optArgs ...MongoDBOptArgs) (*MongoDB, error) {
	mdb := &MongoDB{
		userCollection:    args.UserCollection,
		sessionCollection: args.SessionCollection,
		nowFunc:           func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range optArgs {
		opt(mdb)
	}
	return mdb, nil
}

// EnsureIndexes creates the unique indexes enforcing email and nickname
// uniqueness. It is idempotent and meant to be called at startup.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	_, err := m.userCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(emailIndex).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "nickname", Value: 1}},
			Options: options.Index().SetName(nicknameIndex).SetUnique(true),
		},
	})
	return err
}

// SaveUser will save the user in the database. Inserts rejected by one of
// the unique indexes are returned as *model.DuplicateKeyError.
func (m *MongoDB) SaveUser(ctx context.Context, user *model.User) error {
	if user == nil {
		return errors.New("nil user passed to save method")
	}

	dbUser := m.toDBModel(user)
	if _, err := m.userCollection.InsertOne(ctx, dbUser); err != nil {
		return classifyDuplicateKey(err)
	}

	user.CreatedAt = dbUser.CreatedAt
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// UserByNickname returns the user holding the nickname, or model.ErrNotFound.
func (m *MongoDB) UserByNickname(ctx context.Context, nickname string) (*model.User, error) {
	dbUser := new(userDB)
	err := m.userCollection.FindOne(ctx, bson.D{{Key: "nickname", Value: nickname}}).Decode(dbUser)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return translateDBToModel(*dbUser)
}

// SaveSession will save the session in the database.
func (m *MongoDB) SaveSession(ctx context.Context, session *model.Session) error {
	if session == nil {
		return errors.New("nil session passed to save method")
	}

	dbSession := &sessionDB{
		ID:        session.ID.String(),
		UserID:    session.UserID.String(),
		TokenHash: session.TokenHash,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
	}
	if dbSession.CreatedAt.IsZero() {
		dbSession.CreatedAt = m.nowFunc()
	}
	if _, err := m.sessionCollection.InsertOne(ctx, dbSession); err != nil {
		return classifyDuplicateKey(err)
	}
	return nil
}

// classifyDuplicateKey maps a mongo duplicate-key error to the typed
// duplicate-key error the core discriminates on. Any other error passes
// through untouched.
func classifyDuplicateKey(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}
	msg := err.Error()
	kind := model.DuplicateOther
	constraint := ""
	switch {
	case strings.Contains(msg, emailIndex):
		kind = model.DuplicateEmail
		constraint = emailIndex
	case strings.Contains(msg, nicknameIndex):
		kind = model.DuplicateNickname
		constraint = nicknameIndex
	}
	return &model.DuplicateKeyError{Kind: kind, Constraint: constraint}
}

func (m *MongoDB) toDBModel(user *model.User) *userDB {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	dbUser := &userDB{
		ID:           user.ID.String(),
		Email:        user.Email,
		Nickname:     user.Nickname,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		Verified:     user.Verified,
		ReceiveEmail: user.ReceiveEmail,
		Terms:        user.Terms,
	}
	if !user.CreatedAt.IsZero() {
		dbUser.CreatedAt = user.CreatedAt
	} else {
		dbUser.CreatedAt = m.nowFunc()
	}
	dbUser.UpdatedAt = m.nowFunc()
	return dbUser
}

func translateDBToModel(dbUser userDB) (*model.User, error) {
	id, err := uuid.Parse(dbUser.ID)
	if err != nil {
		return nil, err
	}
	return &model.User{
		ID:           id,
		Email:        dbUser.Email,
		Nickname:     dbUser.Nickname,
		PasswordHash: dbUser.PasswordHash,
		Role:         model.Role(dbUser.Role),
		Verified:     dbUser.Verified,
		ReceiveEmail: dbUser.ReceiveEmail,
		Terms:        dbUser.Terms,
		CreatedAt:    dbUser.CreatedAt,
		UpdatedAt:    dbUser.UpdatedAt,
	}, nil
}

type userDB struct {
	// ID unique identifier of the user.
	ID string `bson:"_id"`

	// Email is the user email. Unique via the email_unique index.
	Email string `bson:"email"`

	// Nickname is the user nickname. Unique via the nickname_unique index.
	Nickname string `bson:"nickname"`

	// PasswordHash contains the password hash.
	PasswordHash string `bson:"password_hash"`

	// Role is the user role.
	Role string `bson:"role"`

	// Verified indicates whether the user email was verified.
	Verified bool `bson:"verified"`

	// ReceiveEmail indicates whether the user opted into email communication.
	ReceiveEmail bool `bson:"receive_email"`

	// Terms records the acceptance of the terms of service.
	Terms bool `bson:"terms"`

	// CreatedAt is the time at which the user was created in the system.
	CreatedAt time.Time `bson:"created_at"`

	// UpdatedAt is the time at which the user was last updated
	UpdatedAt time.Time `bson:"updated_at"`
}

type sessionDB struct {
	// ID unique identifier of the session.
	ID string `bson:"_id"`

	// UserID is the id of the user owning the session.
	UserID string `bson:"user_id"`

	// TokenHash is the sha256 hash of the bearer token.
	TokenHash string `bson:"token_hash"`

	// ExpiresAt is the session expiry.
	ExpiresAt time.Time `bson:"expires_at"`

	// CreatedAt is the session creation time.
	CreatedAt time.Time `bson:"created_at"`
}
