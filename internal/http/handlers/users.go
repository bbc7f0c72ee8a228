package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hongminglow/messagely-be/internal/http/respond"
	"github.com/hongminglow/messagely-be/internal/middleware"
	"github.com/hongminglow/messagely-be/internal/models/dto"
)

// UserHandler serves user listings, profiles and per-user mailboxes.
type UserHandler struct {
	users UserDirectory
	log   *zap.Logger
}

// NewUserHandler constructs the handler.
func NewUserHandler(users UserDirectory, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// Register attaches user routes. The router must already require authentication.
func (h *UserHandler) Register(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Route("/{username}", func(r chi.Router) {
			r.Use(middleware.RequireSameUser("username"))
			r.Get("/", h.handleGet)
			r.Get("/to", h.handleMessagesTo)
			r.Get("/from", h.handleMessagesFrom)
		})
	})
}

func (h *UserHandler) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.All(r.Context())
	if err != nil {
		respondError(w, r, h.log, err, "")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", dto.UsersResponse{Users: users})
}

func (h *UserHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		respondError(w, r, h.log, err, "user not found")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", dto.UserResponse{User: user})
}

func (h *UserHandler) handleMessagesTo(w http.ResponseWriter, r *http.Request) {
	messages, err := h.users.MessagesTo(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		respondError(w, r, h.log, err, "user not found")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", dto.ReceivedMessagesResponse{Messages: messages})
}

func (h *UserHandler) handleMessagesFrom(w http.ResponseWriter, r *http.Request) {
	messages, err := h.users.MessagesFrom(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		respondError(w, r, h.log, err, "user not found")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", dto.SentMessagesResponse{Messages: messages})
}
