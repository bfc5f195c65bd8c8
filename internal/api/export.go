package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sourcepoint/tenderd/internal/catalog"
	"github.com/sourcepoint/tenderd/internal/directory"
	"github.com/sourcepoint/tenderd/internal/export"
	"github.com/sourcepoint/tenderd/internal/scoring"
	"github.com/sourcepoint/tenderd/internal/store"
)

type ExportHandler struct {
	store     store.Store
	catalog   *catalog.Catalog
	directory directory.Client
}

func NewExportHandler(s store.Store, cat *catalog.Catalog, dir directory.Client) *ExportHandler {
	return &ExportHandler{store: s, catalog: cat, directory: dir}
}

// Export streams the evaluation matrix CSV for an event. Vendor columns
// follow the store's stable listing order, not rank order.
// GET /api/v1/events/{eventID}/export
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
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
	if len(evals) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no evaluations for event"})
		return
	}

	var vendors []export.Vendor
	seen := make(map[string]bool)
	for _, e := range evals {
		if seen[e.VendorID] {
			continue
		}
		seen[e.VendorID] = true
		vendors = append(vendors, export.Vendor{
			ID:          e.VendorID,
			DisplayName: directory.DisplayName(r.Context(), h.directory, e.VendorID),
		})
	}

	csv := export.CSV(h.catalog.Criteria(), vendors, evals, scoring.Aggregate(evals))
	filename := export.Filename(eventID.String(), time.Now().UnixMilli())

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(csv))
}
