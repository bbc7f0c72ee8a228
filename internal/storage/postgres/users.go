package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/messagely-be/internal/models"
)

var userColumns = []string{
	"username",
	"password",
	"first_name",
	"last_name",
	"phone",
	"join_at",
	"last_login_at",
}

// CreateUser inserts a new user row. join_at and last_login_at share the
// statement timestamp, so they are equal on creation.
func (s *Store) CreateUser(ctx context.Context, user models.NewUser) (models.User, error) {
	query, args, err := s.builder.Insert("users").
		Columns(userColumns...).
		Values(
			user.Username,
			user.PasswordHash,
			user.FirstName,
			user.LastName,
			user.Phone,
			squirrel.Expr("CURRENT_TIMESTAMP"),
			squirrel.Expr("CURRENT_TIMESTAMP"),
		).
		Suffix("RETURNING username, password, first_name, last_name, phone, join_at, last_login_at").
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("build insert user sql: %w", err)
	}

	created, err := scanUser(s.exec.QueryRow(ctx, query, args...))
	if err != nil {
		return models.User{}, err
	}
	return created, nil
}

// FindByUsername fetches a user by username, including the password hash.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	query, args, err := s.builder.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("build select user sql: %w", err)
	}
	return scanUser(s.exec.QueryRow(ctx, query, args...))
}

// TouchLastLogin stamps last_login_at with the current time and returns it.
func (s *Store) TouchLastLogin(ctx context.Context, username string) (time.Time, error) {
	query, args, err := s.builder.Update("users").
		Set("last_login_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"username": username}).
		Suffix("RETURNING last_login_at").
		ToSql()
	if err != nil {
		return time.Time{}, fmt.Errorf("build update login sql: %w", err)
	}

	var lastLogin time.Time
	if err := s.exec.QueryRow(ctx, query, args...).Scan(&lastLogin); err != nil {
		return time.Time{}, translate(err)
	}
	return lastLogin, nil
}

// ListUsers returns the public profile of every user.
func (s *Store) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	query, args, err := s.builder.Select("username", "first_name", "last_name", "phone").
		From("users").
		OrderBy("username").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users sql: %w", err)
	}

	rows, err := s.exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]models.UserSummary, 0)
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.Username, &u.FirstName, &u.LastName, &u.Phone); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// MessagesFrom lists messages sent by username with each recipient embedded.
func (s *Store) MessagesFrom(ctx context.Context, username string) ([]models.SentMessage, error) {
	query, args, err := s.builder.Select(
		"m.id", "m.body", "m.sent_at", "m.read_at",
		"u.username", "u.first_name", "u.last_name", "u.phone",
	).
		From("messages AS m").
		Join("users AS u ON m.to_username = u.username").
		Where(squirrel.Eq{"m.from_username": username}).
		OrderBy("m.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build messages from sql: %w", err)
	}

	rows, err := s.exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages from %s: %w", username, err)
	}
	defer rows.Close()

	messages := make([]models.SentMessage, 0)
	for rows.Next() {
		var (
			m      models.SentMessage
			readAt sql.NullTime
		)
		if err := rows.Scan(
			&m.ID, &m.Body, &m.SentAt, &readAt,
			&m.ToUser.Username, &m.ToUser.FirstName, &m.ToUser.LastName, &m.ToUser.Phone,
		); err != nil {
			return nil, fmt.Errorf("scan sent message: %w", err)
		}
		m.ReadAt = nullableTimePtr(readAt)
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sent messages: %w", err)
	}
	return messages, nil
}

// MessagesTo lists messages received by username with each sender embedded.
func (s *Store) MessagesTo(ctx context.Context, username string) ([]models.ReceivedMessage, error) {
	query, args, err := s.builder.Select(
		"m.id", "m.body", "m.sent_at", "m.read_at",
		"u.username", "u.first_name", "u.last_name", "u.phone",
	).
		From("messages AS m").
		Join("users AS u ON m.from_username = u.username").
		Where(squirrel.Eq{"m.to_username": username}).
		OrderBy("m.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build messages to sql: %w", err)
	}

	rows, err := s.exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages to %s: %w", username, err)
	}
	defer rows.Close()

	messages := make([]models.ReceivedMessage, 0)
	for rows.Next() {
		var (
			m      models.ReceivedMessage
			readAt sql.NullTime
		)
		if err := rows.Scan(
			&m.ID, &m.Body, &m.SentAt, &readAt,
			&m.FromUser.Username, &m.FromUser.FirstName, &m.FromUser.LastName, &m.FromUser.Phone,
		); err != nil {
			return nil, fmt.Errorf("scan received message: %w", err)
		}
		m.ReadAt = nullableTimePtr(readAt)
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate received messages: %w", err)
	}
	return messages, nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(
		&user.Username,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.JoinAt,
		&user.LastLoginAt,
	); err != nil {
		return models.User{}, translate(err)
	}
	return user, nil
}
