package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/transport/middleware"
)

// adminUserService defines the role-management interface needed by AdminHandler.
type adminUserService interface {
	SetUserRole(ctx context.Context, targetUserID uuid.UUID, role domain.UserRole) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, int, error)
}

// suggestionAdminService defines the queue-inspection interface needed by AdminHandler.
type suggestionAdminService interface {
	GetStats(ctx context.Context) (domain.SuggestionQueueStats, error)
	ListByStatus(ctx context.Context, status domain.SuggestionStatus, limit, offset int) ([]domain.Suggestion, error)
}

// AdminHandler serves admin REST endpoints. Role checks happen both here
// (fast 403 on the obvious case) and in the services.
type AdminHandler struct {
	users       adminUserService
	suggestions suggestionAdminService
	log         *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(users adminUserService, suggestions suggestionAdminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		users:       users,
		suggestions: suggestions,
		log:         logger.With("handler", "admin"),
	}
}

type setRoleRequest struct {
	Role string `json:"role"`
}

type adminSuggestionResponse struct {
	ID           string  `json:"id"`
	RecordID     string  `json:"recordId"`
	Kind         string  `json:"kind"`
	Status       string  `json:"status"`
	ErrorMessage *string `json:"errorMessage,omitempty"`
}

// SetUserRole handles PUT /admin/users/{id}/role.
func (h *AdminHandler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req setRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.users.SetUserRole(r.Context(), id, domain.UserRole(req.Role))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(updated))
}

// ListUsers handles GET /admin/users?limit=&offset=.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	users, total, err := h.users.ListUsers(r.Context(), queryInt(r, "limit", 0), queryInt(r, "offset", 0))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users": lo.Map(users, func(u domain.User, _ int) userResponse { return toUserResponse(&u) }),
		"total": total,
	})
}

// SuggestionStats handles GET /admin/suggestions/stats.
func (h *AdminHandler) SuggestionStats(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	stats, err := h.suggestions.GetStats(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"pending": stats.Pending,
		"ready":   stats.Ready,
		"failed":  stats.Failed,
		"total":   stats.Total,
	})
}

// ListSuggestions handles GET /admin/suggestions?status=FAILED&limit=&offset=.
func (h *AdminHandler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	status := domain.SuggestionStatus(r.URL.Query().Get("status"))
	items, err := h.suggestions.ListByStatus(r.Context(), status, queryInt(r, "limit", 0), queryInt(r, "offset", 0))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"suggestions": lo.Map(items, func(s domain.Suggestion, _ int) adminSuggestionResponse {
			return adminSuggestionResponse{
				ID:           s.ID.String(),
				RecordID:     s.RecordID.String(),
				Kind:         s.Kind.String(),
				Status:       s.Status.String(),
				ErrorMessage: s.ErrorMessage,
			}
		}),
	})
}

func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if err := middleware.RequireAdmin(r.Context()); err != nil {
		writeError(w, http.StatusForbidden, "admin access required")
		return false
	}
	return true
}
