package handlers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/hongminglow/messagely-be/internal/models"
	"github.com/hongminglow/messagely-be/internal/service"
)

type userDirectoryMock struct {
	mock.Mock
}

func (m *userDirectoryMock) Register(ctx context.Context, in service.RegisterInput) (models.User, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *userDirectoryMock) Authenticate(ctx context.Context, username, password string) (bool, error) {
	args := m.Called(ctx, username, password)
	return args.Bool(0), args.Error(1)
}

func (m *userDirectoryMock) UpdateLoginTimestamp(ctx context.Context, username string) (time.Time, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *userDirectoryMock) All(ctx context.Context) ([]models.UserSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.UserSummary), args.Error(1)
}

func (m *userDirectoryMock) Get(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *userDirectoryMock) MessagesFrom(ctx context.Context, username string) ([]models.SentMessage, error) {
	args := m.Called(ctx, username)
	return args.Get(0).([]models.SentMessage), args.Error(1)
}

func (m *userDirectoryMock) MessagesTo(ctx context.Context, username string) ([]models.ReceivedMessage, error) {
	args := m.Called(ctx, username)
	return args.Get(0).([]models.ReceivedMessage), args.Error(1)
}

type messageLedgerMock struct {
	mock.Mock
}

func (m *messageLedgerMock) Create(ctx context.Context, from, to, body string) (models.Message, error) {
	args := m.Called(ctx, from, to, body)
	return args.Get(0).(models.Message), args.Error(1)
}

func (m *messageLedgerMock) View(ctx context.Context, actor string, id int64) (models.MessageDetail, error) {
	args := m.Called(ctx, actor, id)
	return args.Get(0).(models.MessageDetail), args.Error(1)
}

func (m *messageLedgerMock) MarkRead(ctx context.Context, actor string, id int64) (models.ReadReceipt, error) {
	args := m.Called(ctx, actor, id)
	return args.Get(0).(models.ReadReceipt), args.Error(1)
}

type tokenIssuerStub struct {
	err error
}

func (s tokenIssuerStub) Generate(username string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-for-" + username, nil
}
