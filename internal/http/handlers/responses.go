package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/hongminglow/messagely-be/internal/http/respond"
	"github.com/hongminglow/messagely-be/internal/logger"
	"github.com/hongminglow/messagely-be/internal/service"
	"github.com/hongminglow/messagely-be/internal/storage"
)

// respondError maps domain errors to HTTP statuses. Unexpected errors are
// logged and reported as 500 without detail.
func respondError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error, notFound string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, notFound)
	case errors.Is(err, storage.ErrAlreadyExists):
		respond.Error(w, http.StatusConflict, "user already exists")
	case errors.Is(err, storage.ErrInvalidReference):
		respond.Error(w, http.StatusBadRequest, "unknown user")
	case errors.Is(err, service.ErrInvalidInput):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		respond.Error(w, http.StatusForbidden, "not authorized")
	default:
		logger.WithContext(r.Context(), log).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
