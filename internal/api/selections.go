package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sourcepoint/tenderd/internal/store"
	"github.com/sourcepoint/tenderd/internal/workflow"
)

type SelectionsHandler struct {
	store    store.Store
	workflow *workflow.Workflow
}

func NewSelectionsHandler(s store.Store, wf *workflow.Workflow) *SelectionsHandler {
	return &SelectionsHandler{store: s, workflow: wf}
}

type SubmitRequest struct {
	Justification string `json:"justification,omitempty"`
}

// Submit moves a fully-scored event's top-ranked vendor to pending
// approval.
// POST /api/v1/events/{eventID}/selection/submit
func (h *SelectionsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event id"})
		return
	}

	var req SubmitRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	sel, err := h.workflow.SubmitForApproval(r.Context(), eventID, r.Header.Get("X-User-ID"), req.Justification)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sel)
}

// Get returns the latest selection record for an event.
// GET /api/v1/events/{eventID}/selection
func (h *SelectionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event id"})
		return
	}

	sel, err := h.store.GetSelectionByEvent(r.Context(), eventID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if sel == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no selection for event"})
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

// Pending lists pending approvals, optionally filtered by organization.
// GET /api/v1/selections/pending
func (h *SelectionsHandler) Pending(w http.ResponseWriter, r *http.Request) {
	sels, err := h.store.ListPendingSelections(r.Context(), r.URL.Query().Get("organization"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if sels == nil {
		sels = []*store.WinnerSelection{}
	}
	writeJSON(w, http.StatusOK, sels)
}

// Approve finalizes a pending selection.
// POST /api/v1/selections/{id}/approve
func (h *SelectionsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid selection id"})
		return
	}

	sel, err := h.workflow.Approve(r.Context(), id, r.Header.Get("X-User-ID"))
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

// Reject declines a pending selection, keeping the record for audit.
// POST /api/v1/selections/{id}/reject
func (h *SelectionsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid selection id"})
		return
	}

	var req RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Reason == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reason required"})
		return
	}

	sel, err := h.workflow.Reject(r.Context(), id, r.Header.Get("X-User-ID"), req.Reason)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

func writeWorkflowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workflow.ErrSelectionNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, workflow.ErrEvaluationIncomplete), errors.Is(err, workflow.ErrNoVendors):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, workflow.ErrApprovalPending), errors.Is(err, workflow.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
