package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/lo"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
)

// disclaimerService defines the minimal interface needed by DisclaimerHandler.
type disclaimerService interface {
	Status(ctx context.Context) (acknowledged bool, version string, err error)
	Acknowledge(ctx context.Context, version string) error
	History(ctx context.Context) ([]domain.DisclaimerAcknowledgment, error)
}

// DisclaimerHandler serves the AI content policy endpoints.
type DisclaimerHandler struct {
	svc disclaimerService
	log *slog.Logger
}

// NewDisclaimerHandler creates a DisclaimerHandler.
func NewDisclaimerHandler(svc disclaimerService, logger *slog.Logger) *DisclaimerHandler {
	return &DisclaimerHandler{svc: svc, log: logger.With("handler", "disclaimer")}
}

type disclaimerStatusResponse struct {
	Acknowledged  bool   `json:"acknowledged"`
	PolicyVersion string `json:"policyVersion"`
}

type acknowledgeRequest struct {
	PolicyVersion string `json:"policyVersion"`
}

type acknowledgmentResponse struct {
	PolicyVersion  string    `json:"policyVersion"`
	AcknowledgedAt time.Time `json:"acknowledgedAt"`
}

// Status handles GET /disclaimer.
func (h *DisclaimerHandler) Status(w http.ResponseWriter, r *http.Request) {
	acknowledged, version, err := h.svc.Status(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, disclaimerStatusResponse{
		Acknowledged:  acknowledged,
		PolicyVersion: version,
	})
}

// Acknowledge handles POST /disclaimer/ack. The submitted version must match
// the active policy version exactly.
func (h *DisclaimerHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	var req acknowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.Acknowledge(r.Context(), req.PolicyVersion); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// History handles GET /disclaimer/history.
func (h *DisclaimerHandler) History(w http.ResponseWriter, r *http.Request) {
	acks, err := h.svc.History(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"acknowledgments": lo.Map(acks, func(a domain.DisclaimerAcknowledgment, _ int) acknowledgmentResponse {
			return acknowledgmentResponse{
				PolicyVersion:  a.PolicyVersion,
				AcknowledgedAt: a.AcknowledgedAt,
			}
		}),
	})
}
