package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
)

// userService defines the minimal interface needed by UserHandler.
type userService interface {
	GetProfile(ctx context.Context) (*domain.User, error)
	GetPreferences(ctx context.Context) (domain.UserPreferences, error)
	SetAIEnrichment(ctx context.Context, enabled bool) (domain.UserPreferences, error)
}

// UserHandler serves profile and preference REST endpoints.
type UserHandler struct {
	svc userService
	log *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(svc userService, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: logger.With("handler", "user")}
}

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	ManagerID string `json:"managerId,omitempty"`
	TeamID    string `json:"teamId,omitempty"`
}

type preferencesResponse struct {
	AIEnrichmentEnabled bool      `json:"aiEnrichmentEnabled"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

type setPreferencesRequest struct {
	AIEnrichmentEnabled bool `json:"aiEnrichmentEnabled"`
}

// Me handles GET /users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetProfile(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// GetPreferences handles GET /users/me/preferences.
func (h *UserHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.svc.GetPreferences(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toPreferencesResponse(prefs))
}

// SetPreferences handles PUT /users/me/preferences.
func (h *UserHandler) SetPreferences(w http.ResponseWriter, r *http.Request) {
	var req setPreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prefs, err := h.svc.SetAIEnrichment(r.Context(), req.AIEnrichmentEnabled)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toPreferencesResponse(prefs))
}

func toUserResponse(u *domain.User) userResponse {
	resp := userResponse{
		ID:    u.ID.String(),
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role.String(),
	}
	if u.ManagerID != nil {
		resp.ManagerID = u.ManagerID.String()
	}
	if u.TeamID != nil {
		resp.TeamID = u.TeamID.String()
	}
	return resp
}

func toPreferencesResponse(p domain.UserPreferences) preferencesResponse {
	return preferencesResponse{
		AIEnrichmentEnabled: p.AIEnrichmentEnabled,
		UpdatedAt:           p.UpdatedAt,
	}
}
