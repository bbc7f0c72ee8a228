package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/hongminglow/messagely-be/internal/models"
)

// CreateMessage inserts an unread message stamped with the current time.
func (s *Store) CreateMessage(ctx context.Context, from, to, body string) (models.Message, error) {
	query, args, err := s.builder.Insert("messages").
		Columns("from_username", "to_username", "body", "sent_at").
		Values(from, to, body, squirrel.Expr("CURRENT_TIMESTAMP")).
		Suffix("RETURNING id, from_username, to_username, body, sent_at, read_at").
		ToSql()
	if err != nil {
		return models.Message{}, fmt.Errorf("build insert message sql: %w", err)
	}

	var (
		msg    models.Message
		readAt sql.NullTime
	)
	if err := s.exec.QueryRow(ctx, query, args...).Scan(
		&msg.ID, &msg.FromUsername, &msg.ToUsername, &msg.Body, &msg.SentAt, &readAt,
	); err != nil {
		return models.Message{}, translate(err)
	}
	msg.ReadAt = nullableTimePtr(readAt)
	return msg, nil
}

// FindMessage fetches a message joined with its sender and recipient profiles.
func (s *Store) FindMessage(ctx context.Context, id int64) (models.MessageDetail, error) {
	query, args, err := s.builder.Select(
		"m.id", "m.body", "m.sent_at", "m.read_at",
		"f.username", "f.first_name", "f.last_name", "f.phone",
		"t.username", "t.first_name", "t.last_name", "t.phone",
	).
		From("messages AS m").
		Join("users AS f ON m.from_username = f.username").
		Join("users AS t ON m.to_username = t.username").
		Where(squirrel.Eq{"m.id": id}).
		ToSql()
	if err != nil {
		return models.MessageDetail{}, fmt.Errorf("build select message sql: %w", err)
	}

	var (
		msg    models.MessageDetail
		readAt sql.NullTime
	)
	if err := s.exec.QueryRow(ctx, query, args...).Scan(
		&msg.ID, &msg.Body, &msg.SentAt, &readAt,
		&msg.FromUser.Username, &msg.FromUser.FirstName, &msg.FromUser.LastName, &msg.FromUser.Phone,
		&msg.ToUser.Username, &msg.ToUser.FirstName, &msg.ToUser.LastName, &msg.ToUser.Phone,
	); err != nil {
		return models.MessageDetail{}, translate(err)
	}
	msg.ReadAt = nullableTimePtr(readAt)
	return msg, nil
}

// MarkRead records the first read of a message. Later calls keep the original
// read_at and return it unchanged.
func (s *Store) MarkRead(ctx context.Context, id int64) (models.ReadReceipt, error) {
	query, args, err := s.builder.Update("messages").
		Set("read_at", squirrel.Expr("COALESCE(read_at, CURRENT_TIMESTAMP)")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, read_at").
		ToSql()
	if err != nil {
		return models.ReadReceipt{}, fmt.Errorf("build mark read sql: %w", err)
	}

	var (
		receipt models.ReadReceipt
		readAt  sql.NullTime
	)
	if err := s.exec.QueryRow(ctx, query, args...).Scan(&receipt.ID, &readAt); err != nil {
		return models.ReadReceipt{}, translate(err)
	}
	receipt.ReadAt = nullableTimePtr(readAt)
	return receipt, nil
}
