package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hongminglow/messagely-be/internal/http/respond"
	"github.com/hongminglow/messagely-be/internal/logger"
	"github.com/hongminglow/messagely-be/internal/models"
	"github.com/hongminglow/messagely-be/internal/models/dto"
	"github.com/hongminglow/messagely-be/internal/service"
)

// UserDirectory is the user-side behavior the handlers depend on.
type UserDirectory interface {
	Register(ctx context.Context, in service.RegisterInput) (models.User, error)
	Authenticate(ctx context.Context, username, password string) (bool, error)
	UpdateLoginTimestamp(ctx context.Context, username string) (time.Time, error)
	All(ctx context.Context) ([]models.UserSummary, error)
	Get(ctx context.Context, username string) (models.User, error)
	MessagesFrom(ctx context.Context, username string) ([]models.SentMessage, error)
	MessagesTo(ctx context.Context, username string) ([]models.ReceivedMessage, error)
}

// TokenIssuer signs tokens for authenticated users.
type TokenIssuer interface {
	Generate(username string) (string, error)
}

// AuthHandler owns register/login endpoints.
type AuthHandler struct {
	users  UserDirectory
	tokens TokenIssuer
	log    *zap.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(users UserDirectory, tokens TokenIssuer, log *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, log: log}
}

// Register attaches auth routes to the router.
func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	// Registration stamps last_login_at itself, so no separate login update here.
	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		respondError(w, r, h.log, err, "")
		return
	}

	token, err := h.tokens.Generate(user.Username)
	if err != nil {
		respondError(w, r, h.log, err, "")
		return
	}
	respond.JSON(w, http.StatusCreated, "user registered", dto.TokenResponse{Token: token})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "username and password are required")
		return
	}

	ok, err := h.users.Authenticate(r.Context(), username, req.Password)
	if err != nil {
		respondError(w, r, h.log, err, "")
		return
	}
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.tokens.Generate(username)
	if err != nil {
		respondError(w, r, h.log, err, "")
		return
	}

	// Best effort: a stale last_login_at does not fail the login.
	if _, err := h.users.UpdateLoginTimestamp(r.Context(), username); err != nil {
		logger.WithContext(r.Context(), h.log).Warn("update login timestamp failed",
			zap.String("username", username),
			zap.Error(err),
		)
	}

	respond.JSON(w, http.StatusOK, "login successful", dto.TokenResponse{Token: token})
}
