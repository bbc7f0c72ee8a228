package storage

import (
	"context"
	"errors"
	"time"

	"github.com/hongminglow/messagely-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrInvalidReference indicates a row references a user that does not exist.
var ErrInvalidReference = errors.New("referenced record does not exist")

// UserStore captures persistence operations on the users table.
type UserStore interface {
	CreateUser(ctx context.Context, user models.NewUser) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	TouchLastLogin(ctx context.Context, username string) (time.Time, error)
	ListUsers(ctx context.Context) ([]models.UserSummary, error)
	MessagesFrom(ctx context.Context, username string) ([]models.SentMessage, error)
	MessagesTo(ctx context.Context, username string) ([]models.ReceivedMessage, error)
}

// MessageStore captures persistence operations on the messages table.
type MessageStore interface {
	CreateMessage(ctx context.Context, from, to, body string) (models.Message, error)
	FindMessage(ctx context.Context, id int64) (models.MessageDetail, error)
	MarkRead(ctx context.Context, id int64) (models.ReadReceipt, error)
}
