package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"

	"github.com/hongminglow/messagely-be/internal/middleware"
	"github.com/hongminglow/messagely-be/internal/models"
	"github.com/hongminglow/messagely-be/internal/service"
	"github.com/hongminglow/messagely-be/internal/storage"
)

// asUser stands in for RequireAuth: it trusts the X-Test-User header.
func asUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := r.Header.Get("X-Test-User"); user != "" {
			r = r.WithContext(middleware.WithUsername(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

func newProtectedRouter(t *testing.T, users UserDirectory, messages MessageLedger) http.Handler {
	t.Helper()
	log := zaptest.NewLogger(t)
	r := chi.NewRouter()
	r.Use(asUser)
	if users != nil {
		NewUserHandler(users, log).Register(r)
	}
	if messages != nil {
		NewMessageHandler(messages, log).Register(r)
	}
	return r
}

func do(router http.Handler, method, path, actor, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if actor != "" {
		req.Header.Set("X-Test-User", actor)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateMessage(t *testing.T) {
	sent := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	messages := new(messageLedgerMock)
	messages.On("Create", mock.Anything, "alice", "bob", "hi").Return(models.Message{
		ID: 1, FromUsername: "alice", ToUsername: "bob", Body: "hi", SentAt: sent,
	}, nil).Once()

	rec := do(newProtectedRouter(t, nil, messages), http.MethodPost, "/messages", "alice", `{"to_username":"bob","body":"hi"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.JSONEq(t, `{"message":{"id":1,"from_username":"alice","to_username":"bob","body":"hi","sent_at":"2025-01-01T00:00:00Z","read_at":null}}`, string(env.Data))
	messages.AssertExpectations(t)
}

func TestCreateMessageErrors(t *testing.T) {
	tests := []struct {
		name       string
		actor      string
		body       string
		err        error
		wantStatus int
	}{
		{name: "anonymous", body: `{}`, wantStatus: http.StatusUnauthorized},
		{name: "bad json", actor: "alice", body: `nope`, wantStatus: http.StatusBadRequest},
		{name: "unknown recipient", actor: "alice", body: `{"to_username":"ghost","body":"hi"}`, err: storage.ErrInvalidReference, wantStatus: http.StatusBadRequest},
		{name: "empty body", actor: "alice", body: `{"to_username":"bob","body":""}`, err: fmt.Errorf("%w: body is required", service.ErrInvalidInput), wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := new(messageLedgerMock)
			if tt.err != nil {
				messages.On("Create", mock.Anything, "alice", mock.Anything, mock.Anything).Return(models.Message{}, tt.err).Once()
			}
			rec := do(newProtectedRouter(t, nil, messages), http.MethodPost, "/messages", tt.actor, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			messages.AssertExpectations(t)
		})
	}
}

func TestGetMessage(t *testing.T) {
	sent := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	detail := models.MessageDetail{
		ID:       7,
		Body:     "hi",
		SentAt:   sent,
		FromUser: models.UserSummary{Username: "alice", FirstName: "Alice", LastName: "Liddell", Phone: "1"},
		ToUser:   models.UserSummary{Username: "bob", FirstName: "Bob", LastName: "Builder", Phone: "2"},
	}

	tests := []struct {
		name       string
		actor      string
		path       string
		result     models.MessageDetail
		err        error
		wantStatus int
		wantData   string
	}{
		{
			name: "participant", actor: "bob", path: "/messages/7", result: detail, wantStatus: http.StatusOK,
			wantData: `{"message":{"id":7,"body":"hi","sent_at":"2025-01-01T00:00:00Z","read_at":null,` +
				`"from_user":{"username":"alice","first_name":"Alice","last_name":"Liddell","phone":"1"},` +
				`"to_user":{"username":"bob","first_name":"Bob","last_name":"Builder","phone":"2"}}}`,
		},
		{name: "outsider", actor: "carol", path: "/messages/7", err: service.ErrUnauthorized, wantStatus: http.StatusForbidden},
		{name: "missing", actor: "bob", path: "/messages/7", err: storage.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "bad id", actor: "bob", path: "/messages/abc", wantStatus: http.StatusBadRequest},
		{name: "zero id", actor: "bob", path: "/messages/0", wantStatus: http.StatusBadRequest},
		{name: "anonymous", path: "/messages/7", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := new(messageLedgerMock)
			if tt.wantData != "" || tt.err != nil {
				messages.On("View", mock.Anything, tt.actor, int64(7)).Return(tt.result, tt.err).Once()
			}
			rec := do(newProtectedRouter(t, nil, messages), http.MethodGet, tt.path, tt.actor, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantData != "" {
				assert.JSONEq(t, tt.wantData, string(decodeEnvelope(t, rec).Data))
			}
			messages.AssertExpectations(t)
		})
	}
}

func TestMarkMessageRead(t *testing.T) {
	readAt := time.Date(2025, 1, 1, 0, 5, 0, 0, time.UTC)

	t.Run("recipient", func(t *testing.T) {
		messages := new(messageLedgerMock)
		messages.On("MarkRead", mock.Anything, "bob", int64(7)).Return(models.ReadReceipt{ID: 7, ReadAt: &readAt}, nil).Once()

		rec := do(newProtectedRouter(t, nil, messages), http.MethodPost, "/messages/7/read", "bob", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":{"id":7,"read_at":"2025-01-01T00:05:00Z"}}`, string(decodeEnvelope(t, rec).Data))
		messages.AssertExpectations(t)
	})

	t.Run("sender", func(t *testing.T) {
		messages := new(messageLedgerMock)
		messages.On("MarkRead", mock.Anything, "alice", int64(7)).Return(models.ReadReceipt{}, service.ErrUnauthorized).Once()

		rec := do(newProtectedRouter(t, nil, messages), http.MethodPost, "/messages/7/read", "alice", "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		messages := new(messageLedgerMock)
		messages.On("MarkRead", mock.Anything, "bob", int64(7)).Return(models.ReadReceipt{}, errors.New("db down")).Once()

		rec := do(newProtectedRouter(t, nil, messages), http.MethodPost, "/messages/7/read", "bob", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "db down")
	})
}
