package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hongminglow/messagely-be/internal/models"
	"github.com/hongminglow/messagely-be/internal/storage"
)

// Messages owns the messages entity and the rules for who may read it.
type Messages struct {
	store storage.MessageStore
}

// NewMessages builds the message ledger on top of store.
func NewMessages(store storage.MessageStore) *Messages {
	return &Messages{store: store}
}

// Create sends body from one user to another.
func (m *Messages) Create(ctx context.Context, from, to, body string) (models.Message, error) {
	to = strings.TrimSpace(to)
	if to == "" {
		return models.Message{}, invalid("to_username is required")
	}
	if strings.TrimSpace(body) == "" {
		return models.Message{}, invalid("body is required")
	}

	msg, err := m.store.CreateMessage(ctx, from, to, body)
	if err != nil {
		return models.Message{}, fmt.Errorf("create message %s -> %s: %w", from, to, err)
	}
	return msg, nil
}

// Get fetches a message with both participants, without any access check.
func (m *Messages) Get(ctx context.Context, id int64) (models.MessageDetail, error) {
	msg, err := m.store.FindMessage(ctx, id)
	if err != nil {
		return models.MessageDetail{}, fmt.Errorf("get message %d: %w", id, err)
	}
	return msg, nil
}

// View returns the message if actor is its sender or recipient.
func (m *Messages) View(ctx context.Context, actor string, id int64) (models.MessageDetail, error) {
	msg, err := m.Get(ctx, id)
	if err != nil {
		return models.MessageDetail{}, err
	}
	if !msg.IsParticipant(actor) {
		return models.MessageDetail{}, fmt.Errorf("view message %d: %w", id, ErrUnauthorized)
	}
	return msg, nil
}

// MarkRead marks the message read if actor is its recipient. The first read
// time is kept on repeated calls.
func (m *Messages) MarkRead(ctx context.Context, actor string, id int64) (models.ReadReceipt, error) {
	msg, err := m.Get(ctx, id)
	if err != nil {
		return models.ReadReceipt{}, err
	}
	if msg.ToUser.Username != actor {
		return models.ReadReceipt{}, fmt.Errorf("mark message %d read: %w", id, ErrUnauthorized)
	}

	receipt, err := m.store.MarkRead(ctx, id)
	if err != nil {
		return models.ReadReceipt{}, fmt.Errorf("mark message %d read: %w", id, err)
	}
	return receipt, nil
}
