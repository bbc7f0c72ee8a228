// Package service holds the user directory and message ledger behavior that
// sits between HTTP handlers and storage.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hongminglow/messagely-be/internal/models"
	"github.com/hongminglow/messagely-be/internal/storage"
)

const (
	minPasswordLength = 8
	// bcrypt refuses longer inputs.
	maxPasswordBytes = 72
)

// PasswordHasher is the one-way credential function used by Users.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// RegisterInput carries a registration request. Password is plaintext and is
// hashed before it reaches the store.
type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// Users owns the users entity.
type Users struct {
	store  storage.UserStore
	hasher PasswordHasher
	// dummyHash is compared against when the username is unknown so both
	// failure paths cost one hash verification.
	dummyHash string
}

// NewUsers builds the user directory on top of store.
func NewUsers(store storage.UserStore, hasher PasswordHasher) (*Users, error) {
	dummy, err := hasher.Hash("messagely-timing-equalizer")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &Users{store: store, hasher: hasher, dummyHash: dummy}, nil
}

// Register validates input, hashes the password and persists the user.
func (u *Users) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validateRegistration(in); err != nil {
		return models.User{}, err
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := u.store.CreateUser(ctx, models.NewUser{
		Username:     in.Username,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
	})
	if err != nil {
		return models.User{}, fmt.Errorf("create user %s: %w", in.Username, err)
	}
	return user, nil
}

// Authenticate reports whether password is valid for username. Unknown users
// and wrong passwords both yield false with a nil error.
func (u *Users) Authenticate(ctx context.Context, username, password string) (bool, error) {
	user, err := u.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			u.hasher.Verify(password, u.dummyHash)
			return false, nil
		}
		return false, fmt.Errorf("find user %s: %w", username, err)
	}
	return u.hasher.Verify(password, user.PasswordHash), nil
}

// UpdateLoginTimestamp stamps last_login_at. Unknown users yield storage.ErrNotFound.
func (u *Users) UpdateLoginTimestamp(ctx context.Context, username string) (time.Time, error) {
	at, err := u.store.TouchLastLogin(ctx, username)
	if err != nil {
		return time.Time{}, fmt.Errorf("update login timestamp for %s: %w", username, err)
	}
	return at, nil
}

// All lists every user's public profile.
func (u *Users) All(ctx context.Context) ([]models.UserSummary, error) {
	users, err := u.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Get returns the full profile of username.
func (u *Users) Get(ctx context.Context, username string) (models.User, error) {
	user, err := u.store.FindByUsername(ctx, username)
	if err != nil {
		return models.User{}, fmt.Errorf("get user %s: %w", username, err)
	}
	return user, nil
}

// MessagesFrom lists messages sent by username.
func (u *Users) MessagesFrom(ctx context.Context, username string) ([]models.SentMessage, error) {
	messages, err := u.store.MessagesFrom(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("messages from %s: %w", username, err)
	}
	return messages, nil
}

// MessagesTo lists messages received by username.
func (u *Users) MessagesTo(ctx context.Context, username string) ([]models.ReceivedMessage, error) {
	messages, err := u.store.MessagesTo(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("messages to %s: %w", username, err)
	}
	return messages, nil
}

func validateRegistration(in RegisterInput) error {
	if in.Username == "" || in.FirstName == "" || in.LastName == "" || in.Phone == "" {
		return invalid("username, first_name, last_name, and phone are required")
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLength || !utf8.ValidString(in.Password) {
		return invalid("password must be at least %d characters", minPasswordLength)
	}
	if len(in.Password) > maxPasswordBytes {
		return invalid("password must be at most %d bytes", maxPasswordBytes)
	}
	return nil
}
