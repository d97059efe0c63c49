// Package rest exposes the HTTP API: auth, records, disclaimers, and admin
// endpoints. Handlers are thin; validation and policy live in the services.
package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
	"github.com/hankthebldr/cortex-dc-web-sub005/pkg/ctxutil"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error  string         `json:"error"`
	Fields []fieldError   `json:"fields,omitempty"`
	Detail map[string]any `json:"detail,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// handleError maps a service error to an HTTP response. ErrForbidden and
// ErrNotFound collapse to the same 404 for non-admin callers so record
// existence cannot be probed; admins get an honest 403.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var validationErr *domain.ValidationError
	var conflictErr *domain.ConflictError

	switch {
	case errors.As(err, &validationErr):
		fields := make([]fieldError, 0, len(validationErr.Errors))
		for _, fe := range validationErr.Errors {
			fields = append(fields, fieldError{Field: fe.Field, Message: fe.Message})
		}
		writeJSONError(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: fields})

	case errors.Is(err, domain.ErrValidation):
		writeJSONError(w, http.StatusBadRequest, errorResponse{Error: "validation failed"})

	case errors.Is(err, domain.ErrUnauthorized):
		writeJSONError(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})

	case errors.As(err, &conflictErr):
		writeJSONError(w, http.StatusConflict, errorResponse{
			Error: "revision conflict",
			Detail: map[string]any{
				"expected_revision": conflictErr.ExpectedRevision,
				"actual_revision":   conflictErr.ActualRevision,
			},
		})

	case errors.Is(err, domain.ErrConflict):
		writeJSONError(w, http.StatusConflict, errorResponse{Error: "conflict"})

	case errors.Is(err, domain.ErrAlreadyExists):
		writeJSONError(w, http.StatusConflict, errorResponse{Error: "already exists"})

	case errors.Is(err, domain.ErrForbidden):
		if ctxutil.IsAdminCtx(r.Context()) {
			writeJSONError(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
			return
		}
		writeJSONError(w, http.StatusNotFound, errorResponse{Error: "not found"})

	case errors.Is(err, domain.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, errorResponse{Error: "not found"})

	default:
		logger.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeJSONError(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func writeJSONError(w http.ResponseWriter, status int, resp errorResponse) {
	writeJSON(w, status, resp)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
