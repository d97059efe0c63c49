package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/service/gateway"
)

// gatewayService defines the minimal interface needed by RecordHandler.
type gatewayService interface {
	Create(ctx context.Context, input gateway.CreateInput) (*domain.Record, error)
	Fetch(ctx context.Context, recordID uuid.UUID) (*gateway.View, error)
	ListMine(ctx context.Context, limit, offset int) ([]domain.Record, error)
	Mutate(ctx context.Context, recordID uuid.UUID, input gateway.MutateInput) (*domain.Record, error)
	Annotate(ctx context.Context, recordID uuid.UUID, input gateway.AnnotateInput) (*domain.Record, error)
	Delete(ctx context.Context, recordID uuid.UUID) error
}

// RecordHandler serves record REST endpoints.
type RecordHandler struct {
	svc gatewayService
	log *slog.Logger
}

// NewRecordHandler creates a RecordHandler.
func NewRecordHandler(svc gatewayService, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{svc: svc, log: logger.With("handler", "record")}
}

type createRecordRequest struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Visibility string         `json:"visibility"`
	Payload    map[string]any `json:"payload"`
}

type mutateRecordRequest struct {
	Title            *string        `json:"title"`
	Visibility       *string        `json:"visibility"`
	Payload          map[string]any `json:"payload"`
	ExpectedRevision int64          `json:"expectedRevision"`
}

type annotateRequest struct {
	Text             string `json:"text"`
	ExpectedRevision int64  `json:"expectedRevision"`
}

type recordResponse struct {
	ID          string               `json:"id"`
	Type        string               `json:"type"`
	OwnerID     string               `json:"ownerId"`
	Visibility  string               `json:"visibility"`
	Title       string               `json:"title"`
	Payload     map[string]any       `json:"payload"`
	Annotations []annotationResponse `json:"annotations"`
	Revision    int64                `json:"revision"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

type annotationResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type suggestionResponse struct {
	ID          string         `json:"id"`
	Kind        string         `json:"kind"`
	Payload     map[string]any `json:"payload"`
	GeneratedAt *time.Time     `json:"generatedAt,omitempty"`
}

type viewResponse struct {
	Record             recordResponse       `json:"record"`
	Suggestions        []suggestionResponse `json:"suggestions"`
	DisclaimerRequired bool                 `json:"disclaimerRequired"`
}

// Create handles POST /records.
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.svc.Create(r.Context(), gateway.CreateInput{
		Type:       domain.RecordType(req.Type),
		Title:      req.Title,
		Visibility: domain.Visibility(req.Visibility),
		Payload:    req.Payload,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRecordResponse(created))
}

// Get handles GET /records/{id}. The response merges READY suggestions,
// subject to the disclaimer gate.
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	view, err := h.svc.Fetch(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, viewResponse{
		Record:             toRecordResponse(view.Record),
		Suggestions:        lo.Map(view.Suggestions, func(s domain.Suggestion, _ int) suggestionResponse { return toSuggestionResponse(s) }),
		DisclaimerRequired: view.DisclaimerRequired,
	})
}

// List handles GET /records?limit=&offset= (own records only).
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	records, err := h.svc.ListMine(r.Context(), limit, offset)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"records": lo.Map(records, func(rec domain.Record, _ int) recordResponse { return toRecordResponse(&rec) }),
	})
}

// Patch handles PATCH /records/{id}.
func (h *RecordHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req mutateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := gateway.MutateInput{
		Title:            req.Title,
		Payload:          req.Payload,
		ExpectedRevision: req.ExpectedRevision,
	}
	if req.Visibility != nil {
		v := domain.Visibility(*req.Visibility)
		input.Visibility = &v
	}

	updated, err := h.svc.Mutate(r.Context(), id, input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecordResponse(updated))
}

// Annotate handles POST /records/{id}/annotations.
func (h *RecordHandler) Annotate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req annotateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.svc.Annotate(r.Context(), id, gateway.AnnotateInput{
		Text:             req.Text,
		ExpectedRevision: req.ExpectedRevision,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecordResponse(updated))
}

// Delete handles DELETE /records/{id}.
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toRecordResponse(rec *domain.Record) recordResponse {
	return recordResponse{
		ID:         rec.ID.String(),
		Type:       rec.Type.String(),
		OwnerID:    rec.OwnerID.String(),
		Visibility: rec.Visibility.String(),
		Title:      rec.Title,
		Payload:    rec.Payload,
		Annotations: lo.Map(rec.Annotations, func(a domain.Annotation, _ int) annotationResponse {
			return annotationResponse{
				ID:        a.ID.String(),
				AuthorID:  a.AuthorID.String(),
				Text:      a.Text,
				CreatedAt: a.CreatedAt,
			}
		}),
		Revision:  rec.Revision,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func toSuggestionResponse(s domain.Suggestion) suggestionResponse {
	return suggestionResponse{
		ID:          s.ID.String(),
		Kind:        s.Kind.String(),
		Payload:     s.Payload,
		GeneratedAt: s.GeneratedAt,
	}
}

// pathUUID parses a UUID path segment, writing a 404 on failure. A malformed
// ID is indistinguishable from a missing record.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
