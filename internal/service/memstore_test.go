package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hongminglow/messagely-be/internal/models"
	"github.com/hongminglow/messagely-be/internal/storage"
)

// memStore is an in-memory stand-in for the Postgres store with the same
// constraint behavior.
type memStore struct {
	mu       sync.Mutex
	clock    func() time.Time
	users    map[string]models.User
	messages []models.Message
}

func newMemStore() *memStore {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var tick int64
	return &memStore{
		clock: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		},
		users: make(map[string]models.User),
	}
}

func (s *memStore) CreateUser(_ context.Context, u models.NewUser) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Username]; ok {
		return models.User{}, storage.ErrAlreadyExists
	}
	now := s.clock()
	user := models.User{
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Phone:        u.Phone,
		JoinAt:       now,
		LastLoginAt:  now,
	}
	s.users[u.Username] = user
	return user, nil
}

func (s *memStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[username]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (s *memStore) TouchLastLogin(_ context.Context, username string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[username]
	if !ok {
		return time.Time{}, storage.ErrNotFound
	}
	user.LastLoginAt = s.clock()
	s.users[username] = user
	return user.LastLoginAt, nil
}

func (s *memStore) ListUsers(context.Context) ([]models.UserSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.UserSummary, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *memStore) MessagesFrom(_ context.Context, username string) ([]models.SentMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SentMessage, 0)
	for _, m := range s.messages {
		if m.FromUsername != username {
			continue
		}
		out = append(out, models.SentMessage{
			ID: m.ID, Body: m.Body, SentAt: m.SentAt, ReadAt: m.ReadAt,
			ToUser: s.users[m.ToUsername].Summary(),
		})
	}
	return out, nil
}

func (s *memStore) MessagesTo(_ context.Context, username string) ([]models.ReceivedMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ReceivedMessage, 0)
	for _, m := range s.messages {
		if m.ToUsername != username {
			continue
		}
		out = append(out, models.ReceivedMessage{
			ID: m.ID, Body: m.Body, SentAt: m.SentAt, ReadAt: m.ReadAt,
			FromUser: s.users[m.FromUsername].Summary(),
		})
	}
	return out, nil
}

func (s *memStore) CreateMessage(_ context.Context, from, to, body string) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[from]; !ok {
		return models.Message{}, storage.ErrInvalidReference
	}
	if _, ok := s.users[to]; !ok {
		return models.Message{}, storage.ErrInvalidReference
	}
	msg := models.Message{
		ID:           int64(len(s.messages) + 1),
		FromUsername: from,
		ToUsername:   to,
		Body:         body,
		SentAt:       s.clock(),
	}
	s.messages = append(s.messages, msg)
	return msg, nil
}

func (s *memStore) FindMessage(_ context.Context, id int64) (models.MessageDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 1 || id > int64(len(s.messages)) {
		return models.MessageDetail{}, storage.ErrNotFound
	}
	m := s.messages[id-1]
	return models.MessageDetail{
		ID: m.ID, Body: m.Body, SentAt: m.SentAt, ReadAt: m.ReadAt,
		FromUser: s.users[m.FromUsername].Summary(),
		ToUser:   s.users[m.ToUsername].Summary(),
	}, nil
}

func (s *memStore) MarkRead(_ context.Context, id int64) (models.ReadReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 1 || id > int64(len(s.messages)) {
		return models.ReadReceipt{}, storage.ErrNotFound
	}
	m := &s.messages[id-1]
	if m.ReadAt == nil {
		at := s.clock()
		m.ReadAt = &at
	}
	return models.ReadReceipt{ID: m.ID, ReadAt: m.ReadAt}, nil
}
