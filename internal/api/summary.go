package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sourcepoint/tenderd/internal/catalog"
	"github.com/sourcepoint/tenderd/internal/scoring"
	"github.com/sourcepoint/tenderd/internal/store"
)

type SummaryHandler struct {
	store   store.Store
	catalog *catalog.Catalog
}

func NewSummaryHandler(s store.Store, cat *catalog.Catalog) *SummaryHandler {
	return &SummaryHandler{store: s, catalog: cat}
}

// Summary returns ranked vendor summaries plus completion for an event.
// Rankings are computed regardless of completion so partial progress can
// be displayed; the candidate winner appears only at 100%.
// GET /api/v1/events/{eventID}/summary
func (h *SummaryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event id"})
		return
	}

	evals, err := h.store.ListEvaluations(r.Context(), store.EvaluationFilter{SourcingEventID: &eventID})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	summaries := scoring.Aggregate(evals)
	completion := scoring.TrackCompletion(evals, h.catalog.Len())

	resp := map[string]interface{}{
		"event_id":   eventID,
		"summaries":  summaries,
		"completion": completion,
	}
	if completion.Complete() {
		if winner, ok := scoring.TopRanked(summaries); ok {
			resp["candidate_winner"] = winner.VendorID
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
