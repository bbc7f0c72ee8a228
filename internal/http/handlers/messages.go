package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hongminglow/messagely-be/internal/http/respond"
	"github.com/hongminglow/messagely-be/internal/middleware"
	"github.com/hongminglow/messagely-be/internal/models"
	"github.com/hongminglow/messagely-be/internal/models/dto"
)

// MessageLedger is the message-side behavior the handlers depend on.
type MessageLedger interface {
	Create(ctx context.Context, from, to, body string) (models.Message, error)
	View(ctx context.Context, actor string, id int64) (models.MessageDetail, error)
	MarkRead(ctx context.Context, actor string, id int64) (models.ReadReceipt, error)
}

// MessageHandler serves message creation, detail and read receipts.
type MessageHandler struct {
	messages MessageLedger
	log      *zap.Logger
}

// NewMessageHandler constructs the handler.
func NewMessageHandler(messages MessageLedger, log *zap.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, log: log}
}

// Register attaches message routes. The router must already require authentication.
func (h *MessageHandler) Register(r chi.Router) {
	r.Route("/messages", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/{id}", h.handleGet)
		r.Post("/{id}/read", h.handleMarkRead)
	})
}

func (h *MessageHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req dto.CreateMessageRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	msg, err := h.messages.Create(r.Context(), actor, req.ToUsername, req.Body)
	if err != nil {
		respondError(w, r, h.log, err, "")
		return
	}
	respond.JSON(w, http.StatusCreated, "message sent", dto.MessageResponse{Message: msg})
}

func (h *MessageHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	msg, err := h.messages.View(r.Context(), actor, id)
	if err != nil {
		respondError(w, r, h.log, err, "message not found")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", dto.MessageDetailResponse{Message: msg})
}

func (h *MessageHandler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	receipt, err := h.messages.MarkRead(r.Context(), actor, id)
	if err != nil {
		respondError(w, r, h.log, err, "message not found")
		return
	}
	respond.JSON(w, http.StatusOK, "message read", dto.ReadReceiptResponse{Message: receipt})
}

func (h *MessageHandler) actorAndID(w http.ResponseWriter, r *http.Request) (string, int64, bool) {
	actor, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return "", 0, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, http.StatusBadRequest, "invalid message id")
		return "", 0, false
	}
	return actor, id, true
}
