package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/sourcepoint/tenderd/internal/store"
)

type summaryResponse struct {
	EventID   string `json:"event_id"`
	Summaries []struct {
		VendorID      string  `json:"vendor_id"`
		WeightedScore float64 `json:"weighted_score"`
		Rank          int     `json:"rank"`
	} `json:"summaries"`
	Completion struct {
		OverallPercent float64 `json:"overall_percent"`
	} `json:"completion"`
	CandidateWinner string `json:"candidate_winner"`
}

func TestSummaryCompleteEvent(t *testing.T) {
	router, ms := setupTestRouter(t)
	eventID := uuid.New()
	seedScoredEvent(t, ms, eventID)

	req := httptest.NewRequest("GET", "/api/v1/events/"+eventID.String()+"/summary", nil)
	req.Header.Set("X-User-ID", "buyer-1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp summaryResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(resp.Summaries))
	}
	if resp.Summaries[0].VendorID != "vendor-b" || resp.Summaries[0].Rank != 1 {
		t.Errorf("expected vendor-b ranked first, got %+v", resp.Summaries[0])
	}
	if resp.Completion.OverallPercent != 100 {
		t.Errorf("expected 100%% completion, got %f", resp.Completion.OverallPercent)
	}
	if resp.CandidateWinner != "vendor-b" {
		t.Errorf("expected candidate winner vendor-b, got %q", resp.CandidateWinner)
	}
}

func TestSummaryPartialEventOmitsCandidate(t *testing.T) {
	router, ms := setupTestRouter(t)
	eventID := uuid.New()
	ai := 75.0
	ms.CreateEvaluation(context.Background(), &store.Evaluation{
		SourcingEventID: eventID, VendorID: "vendor-a", CriteriaName: "Price", AIScore: &ai, Weight: 0.6,
	})

	req := httptest.NewRequest("GET", "/api/v1/events/"+eventID.String()+"/summary", nil)
	req.Header.Set("X-User-ID", "buyer-1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp summaryResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.CandidateWinner != "" {
		t.Errorf("partial evaluation must not name a candidate winner, got %q", resp.CandidateWinner)
	}
	// Rankings still appear so partial progress is visible.
	if len(resp.Summaries) != 1 {
		t.Errorf("expected 1 summary, got %d", len(resp.Summaries))
	}
}
