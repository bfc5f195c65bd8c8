package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sourcepoint/tenderd/internal/catalog"
	"github.com/sourcepoint/tenderd/internal/events"
	"github.com/sourcepoint/tenderd/internal/scoring"
	"github.com/sourcepoint/tenderd/internal/store"
)

type EvaluationsHandler struct {
	store       store.Store
	events      events.Client
	catalog     *catalog.Catalog
	recommender *scoring.Recommender
}

func NewEvaluationsHandler(s store.Store, ev events.Client, cat *catalog.Catalog, rec *scoring.Recommender) *EvaluationsHandler {
	return &EvaluationsHandler{store: s, events: ev, catalog: cat, recommender: rec}
}

type SeedRequest struct {
	VendorIDs      []string `json:"vendor_ids"`
	OrganizationID string   `json:"organization_id,omitempty"`
}

// Seed creates one evaluation row per vendor × catalog criterion,
// prefilled with an AI recommendation. AI scores are write-once here;
// humans override them through the score endpoints.
// POST /api/v1/events/{eventID}/evaluations/seed
func (h *EvaluationsHandler) Seed(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event id"})
		return
	}

	var req SeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.VendorIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "vendor_ids required"})
		return
	}

	existing, err := h.store.ListEvaluations(r.Context(), store.EvaluationFilter{SourcingEventID: &eventID, Limit: 1})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if len(existing) > 0 {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "event already seeded"})
		return
	}

	var created []*store.Evaluation
	for _, vendorID := range req.VendorIDs {
		for _, crit := range h.catalog.Criteria() {
			rec := h.recommender.Recommend(vendorID, crit.Name)
			aiScore := rec.Score
			e := &store.Evaluation{
				SourcingEventID: eventID,
				VendorID:        vendorID,
				CriteriaName:    crit.Name,
				AIScore:         &aiScore,
				Weight:          crit.Weight,
				Justification:   rec.Justification,
				OrganizationID:  req.OrganizationID,
			}
			if err := h.store.CreateEvaluation(r.Context(), e); err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			created = append(created, e)
		}
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectEvaluationSeeded(eventID.String()), events.EvaluationSeededEvent{
			SourcingEventID: eventID.String(),
			VendorIDs:       req.VendorIDs,
			CriteriaCount:   h.catalog.Len(),
			SeededBy:        r.Header.Get("X-User-ID"),
		})
	}

	writeJSON(w, http.StatusCreated, created)
}

// List returns the evaluation matrix for an event.
// GET /api/v1/events/{eventID}/evaluations
func (h *EvaluationsHandler) List(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event id"})
		return
	}

	filter := store.EvaluationFilter{
		SourcingEventID: &eventID,
		VendorID:        r.URL.Query().Get("vendor_id"),
	}
	evals, err := h.store.ListEvaluations(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if evals == nil {
		evals = []*store.Evaluation{}
	}
	writeJSON(w, http.StatusOK, evals)
}

type ScoreRequest struct {
	ManualScore float64 `json:"manual_score"`
}

// Score sets the manual score for one cell. Manual scores take precedence
// over the seeded AI score; last write wins.
// PATCH /api/v1/evaluations/{id}/score
func (h *EvaluationsHandler) Score(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid evaluation id"})
		return
	}

	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.ManualScore < 0 || req.ManualScore > 100 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "manual_score must be in [0,100]"})
		return
	}

	scoredBy := r.Header.Get("X-User-ID")
	e, err := h.store.UpdateEvaluationScore(r.Context(), id, &req.ManualScore, scoredBy)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if e == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "evaluation not found"})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectEvaluationScored(id.String()), events.EvaluationScoredEvent{
			EvaluationID:    id.String(),
			SourcingEventID: e.SourcingEventID.String(),
			VendorID:        e.VendorID,
			CriteriaName:    e.CriteriaName,
			ManualScore:     req.ManualScore,
			ScoredBy:        scoredBy,
		})
	}

	writeJSON(w, http.StatusOK, e)
}

// ClearScore removes the manual score, reverting the cell to its AI score.
// DELETE /api/v1/evaluations/{id}/score
func (h *EvaluationsHandler) ClearScore(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid evaluation id"})
		return
	}

	e, err := h.store.UpdateEvaluationScore(r.Context(), id, nil, "")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if e == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "evaluation not found"})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectEvaluationCleared(id.String()), events.EvaluationClearedEvent{
			EvaluationID:    id.String(),
			SourcingEventID: e.SourcingEventID.String(),
			VendorID:        e.VendorID,
			CriteriaName:    e.CriteriaName,
			ClearedBy:       r.Header.Get("X-User-ID"),
		})
	}

	writeJSON(w, http.StatusOK, e)
}

// Recommendation previews the AI suggestion for a cell without writing
// anything.
// GET /api/v1/evaluations/{id}/recommendation
func (h *EvaluationsHandler) Recommendation(w http.ResponseWriter, r *http.Request) {
	e, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.recommender.Recommend(e.VendorID, e.CriteriaName))
}

// AcceptRecommendation writes the cell's AI score into the manual score,
// attributed to the accepting user. This is the only path by which an AI
// suggestion becomes a human score.
// POST /api/v1/evaluations/{id}/accept-recommendation
func (h *EvaluationsHandler) AcceptRecommendation(w http.ResponseWriter, r *http.Request) {
	e, ok := h.load(w, r)
	if !ok {
		return
	}

	score := 0.0
	if e.AIScore != nil {
		score = *e.AIScore
	} else {
		score = h.recommender.Recommend(e.VendorID, e.CriteriaName).Score
	}

	scoredBy := r.Header.Get("X-User-ID")
	updated, err := h.store.UpdateEvaluationScore(r.Context(), e.ID, &score, scoredBy)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if updated == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "evaluation not found"})
		return
	}

	if h.events != nil {
		_ = h.events.Publish(events.SubjectEvaluationScored(e.ID.String()), events.EvaluationScoredEvent{
			EvaluationID:    e.ID.String(),
			SourcingEventID: e.SourcingEventID.String(),
			VendorID:        e.VendorID,
			CriteriaName:    e.CriteriaName,
			ManualScore:     score,
			ScoredBy:        scoredBy,
		})
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *EvaluationsHandler) load(w http.ResponseWriter, r *http.Request) (*store.Evaluation, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid evaluation id"})
		return nil, false
	}
	e, err := h.store.GetEvaluation(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	if e == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "evaluation not found"})
		return nil, false
	}
	return e, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
