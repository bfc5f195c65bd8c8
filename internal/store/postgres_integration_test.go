//go:build integration

package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func setupTestDB(t *testing.T) *PostgresStore {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	t.Cleanup(func() {
		_, _ = s.pool.Exec(ctx, "TRUNCATE tender_winner_selections CASCADE")
		_, _ = s.pool.Exec(ctx, "TRUNCATE tender_evaluations CASCADE")
		s.Close()
	})

	return s
}

func fptr(v float64) *float64 { return &v }

func TestCreateAndGetEvaluation(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	e := &Evaluation{
		SourcingEventID: uuid.New(),
		VendorID:        "acme-supply",
		CriteriaName:    "Price Competitiveness",
		AIScore:         fptr(82.5),
		Weight:          0.3,
		Justification:   "Quoted below reference price",
		OrganizationID:  "org-1",
	}

	if err := s.CreateEvaluation(ctx, e); err != nil {
		t.Fatalf("CreateEvaluation failed: %v", err)
	}
	if e.ID == uuid.Nil {
		t.Fatal("expected non-nil evaluation ID after create")
	}
	if e.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}

	got, err := s.GetEvaluation(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetEvaluation failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected evaluation, got nil")
	}
	if got.VendorID != "acme-supply" {
		t.Errorf("expected vendor 'acme-supply', got '%s'", got.VendorID)
	}
	if got.AIScore == nil || *got.AIScore != 82.5 {
		t.Errorf("expected AI score 82.5, got %v", got.AIScore)
	}
	if got.ManualScore != nil {
		t.Errorf("expected no manual score, got %v", got.ManualScore)
	}
	if got.Weight != 0.3 {
		t.Errorf("expected weight 0.3, got %f", got.Weight)
	}
}

func TestListEvaluationsWithFilters(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	eventA := uuid.New()
	eventB := uuid.New()
	rows := []*Evaluation{
		{SourcingEventID: eventA, VendorID: "acme-supply", CriteriaName: "Price Competitiveness", Weight: 0.3},
		{SourcingEventID: eventA, VendorID: "acme-supply", CriteriaName: "Quality Assurance", Weight: 0.15},
		{SourcingEventID: eventA, VendorID: "globex", CriteriaName: "Price Competitiveness", Weight: 0.3},
		{SourcingEventID: eventB, VendorID: "acme-supply", CriteriaName: "Price Competitiveness", Weight: 0.3},
	}
	for _, e := range rows {
		if err := s.CreateEvaluation(ctx, e); err != nil {
			t.Fatalf("CreateEvaluation failed: %v", err)
		}
	}

	result, err := s.ListEvaluations(ctx, EvaluationFilter{SourcingEventID: &eventA})
	if err != nil {
		t.Fatalf("ListEvaluations failed: %v", err)
	}
	if len(result) != 3 {
		t.Errorf("expected 3 evaluations for event A, got %d", len(result))
	}
	// Ordered by vendor id then creation for stable export columns.
	if result[0].VendorID != "acme-supply" || result[2].VendorID != "globex" {
		t.Errorf("unexpected vendor ordering: %s, %s, %s", result[0].VendorID, result[1].VendorID, result[2].VendorID)
	}

	result, err = s.ListEvaluations(ctx, EvaluationFilter{SourcingEventID: &eventA, VendorID: "globex"})
	if err != nil {
		t.Fatalf("ListEvaluations failed: %v", err)
	}
	if len(result) != 1 {
		t.Errorf("expected 1 globex evaluation, got %d", len(result))
	}

	result, err = s.ListEvaluations(ctx, EvaluationFilter{SourcingEventID: &eventA, CriteriaName: "Quality Assurance"})
	if err != nil {
		t.Fatalf("ListEvaluations failed: %v", err)
	}
	if len(result) != 1 {
		t.Errorf("expected 1 quality evaluation, got %d", len(result))
	}
}

func TestUpdateEvaluationScore(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	e := &Evaluation{
		SourcingEventID: uuid.New(),
		VendorID:        "acme-supply",
		CriteriaName:    "Delivery Timeline",
		AIScore:         fptr(78),
		Weight:          0.2,
	}
	if err := s.CreateEvaluation(ctx, e); err != nil {
		t.Fatalf("CreateEvaluation failed: %v", err)
	}

	got, err := s.UpdateEvaluationScore(ctx, e.ID, fptr(85), "buyer-1")
	if err != nil {
		t.Fatalf("UpdateEvaluationScore failed: %v", err)
	}
	if got.ManualScore == nil || *got.ManualScore != 85 {
		t.Errorf("expected manual score 85, got %v", got.ManualScore)
	}
	if got.ScoredBy != "buyer-1" {
		t.Errorf("expected scored_by 'buyer-1', got '%s'", got.ScoredBy)
	}
	if got.AIScore == nil || *got.AIScore != 78 {
		t.Errorf("AI score must survive manual scoring, got %v", got.AIScore)
	}

	// Clearing reverts the cell to AI-sourced.
	got, err = s.UpdateEvaluationScore(ctx, e.ID, nil, "buyer-1")
	if err != nil {
		t.Fatalf("UpdateEvaluationScore clear failed: %v", err)
	}
	if got.ManualScore != nil {
		t.Errorf("expected cleared manual score, got %v", got.ManualScore)
	}
	if got.ScoredBy != "" {
		t.Errorf("expected cleared attribution, got '%s'", got.ScoredBy)
	}
}

func TestCreateWinnerSelectionEnforcesOneActive(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	eventID := uuid.New()
	first := &WinnerSelection{
		SourcingEventID: eventID,
		WinnerVendorID:  "acme-supply",
		TotalScore:      400,
		WeightedScore:   81.25,
		Status:          StatusSelected,
		ApprovalStatus:  ApprovalPending,
		SelectionDate:   time.Now().UTC(),
		SelectedBy:      "buyer-1",
		SubmittedBy:     "buyer-1",
		SubmissionDate:  time.Now().UTC(),
	}
	if err := s.CreateWinnerSelection(ctx, first); err != nil {
		t.Fatalf("CreateWinnerSelection failed: %v", err)
	}
	if first.ID == uuid.Nil {
		t.Fatal("expected non-nil selection ID")
	}

	second := &WinnerSelection{
		SourcingEventID: eventID,
		WinnerVendorID:  "globex",
		Status:          StatusSelected,
		ApprovalStatus:  ApprovalPending,
		SelectionDate:   time.Now().UTC(),
		SubmissionDate:  time.Now().UTC(),
	}
	if err := s.CreateWinnerSelection(ctx, second); err != ErrActiveSelectionExists {
		t.Fatalf("expected ErrActiveSelectionExists, got %v", err)
	}

	// Rejecting the first unblocks the event.
	first.ApprovalStatus = ApprovalRejected
	first.RejectionReason = "pricing stale"
	if err := s.UpdateWinnerSelection(ctx, first); err != nil {
		t.Fatalf("UpdateWinnerSelection failed: %v", err)
	}
	if err := s.CreateWinnerSelection(ctx, second); err != nil {
		t.Fatalf("expected resubmission to succeed after rejection, got %v", err)
	}
}

func TestUpdateWinnerSelectionOnlyWhilePending(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	sel := &WinnerSelection{
		SourcingEventID: uuid.New(),
		WinnerVendorID:  "acme-supply",
		Status:          StatusSelected,
		ApprovalStatus:  ApprovalPending,
		SelectionDate:   time.Now().UTC(),
		SubmissionDate:  time.Now().UTC(),
	}
	if err := s.CreateWinnerSelection(ctx, sel); err != nil {
		t.Fatalf("CreateWinnerSelection failed: %v", err)
	}

	now := time.Now().UTC()
	sel.ApprovalStatus = ApprovalApproved
	sel.ApprovedBy = "manager-1"
	sel.ApprovalDate = &now
	if err := s.UpdateWinnerSelection(ctx, sel); err != nil {
		t.Fatalf("UpdateWinnerSelection failed: %v", err)
	}

	// The row is terminal now; a racing second transition must be refused.
	sel.ApprovalStatus = ApprovalRejected
	sel.RejectionReason = "changed mind"
	if err := s.UpdateWinnerSelection(ctx, sel); err != ErrSelectionNotPending {
		t.Fatalf("expected ErrSelectionNotPending, got %v", err)
	}

	got, err := s.GetWinnerSelection(ctx, sel.ID)
	if err != nil {
		t.Fatalf("GetWinnerSelection failed: %v", err)
	}
	if got.ApprovalStatus != ApprovalApproved {
		t.Errorf("terminal state must survive, got %s", got.ApprovalStatus)
	}
}

func TestGetSelectionByEventReturnsLatest(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	eventID := uuid.New()
	first := &WinnerSelection{
		SourcingEventID: eventID,
		WinnerVendorID:  "acme-supply",
		Status:          StatusSelected,
		ApprovalStatus:  ApprovalRejected,
		SelectionDate:   time.Now().UTC(),
		SubmissionDate:  time.Now().UTC(),
		RejectionReason: "rescoring",
	}
	if err := s.CreateWinnerSelection(ctx, first); err != nil {
		t.Fatalf("CreateWinnerSelection failed: %v", err)
	}

	second := &WinnerSelection{
		SourcingEventID: eventID,
		WinnerVendorID:  "globex",
		Status:          StatusSelected,
		ApprovalStatus:  ApprovalPending,
		SelectionDate:   time.Now().UTC(),
		SubmissionDate:  time.Now().UTC(),
	}
	if err := s.CreateWinnerSelection(ctx, second); err != nil {
		t.Fatalf("CreateWinnerSelection failed: %v", err)
	}

	got, err := s.GetSelectionByEvent(ctx, eventID)
	if err != nil {
		t.Fatalf("GetSelectionByEvent failed: %v", err)
	}
	if got == nil || got.ID != second.ID {
		t.Errorf("expected latest selection %v, got %+v", second.ID, got)
	}
}

func TestListPendingSelections(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	rows := []*WinnerSelection{
		{SourcingEventID: uuid.New(), WinnerVendorID: "a", Status: StatusSelected, ApprovalStatus: ApprovalPending, SelectionDate: time.Now().UTC(), SubmissionDate: time.Now().UTC(), OrganizationID: "org-1"},
		{SourcingEventID: uuid.New(), WinnerVendorID: "b", Status: StatusSelected, ApprovalStatus: ApprovalPending, SelectionDate: time.Now().UTC(), SubmissionDate: time.Now().UTC(), OrganizationID: "org-2"},
		{SourcingEventID: uuid.New(), WinnerVendorID: "c", Status: StatusSelected, ApprovalStatus: ApprovalApproved, SelectionDate: time.Now().UTC(), SubmissionDate: time.Now().UTC(), OrganizationID: "org-1"},
	}
	for _, sel := range rows {
		if err := s.CreateWinnerSelection(ctx, sel); err != nil {
			t.Fatalf("CreateWinnerSelection failed: %v", err)
		}
	}

	pending, err := s.ListPendingSelections(ctx, "")
	if err != nil {
		t.Fatalf("ListPendingSelections failed: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("expected 2 pending selections, got %d", len(pending))
	}

	pending, err = s.ListPendingSelections(ctx, "org-1")
	if err != nil {
		t.Fatalf("ListPendingSelections failed: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("expected 1 pending selection for org-1, got %d", len(pending))
	}
}
