// Package workflow drives the winner selection approval state machine:
// a completed evaluation is submitted (pending approval), then approved
// or rejected. Approved and rejected records are terminal; a rejected
// event can be re-scored and resubmitted as a fresh record.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sourcepoint/tenderd/internal/catalog"
	"github.com/sourcepoint/tenderd/internal/events"
	"github.com/sourcepoint/tenderd/internal/scoring"
	"github.com/sourcepoint/tenderd/internal/store"
)

// Workflow owns winner selection transitions. Reads (rankings, completion)
// stay in the scoring package; only transitions live here.
type Workflow struct {
	store   store.Store
	events  events.Client
	catalog *catalog.Catalog
	logger  *slog.Logger
}

func New(s store.Store, ev events.Client, cat *catalog.Catalog, logger *slog.Logger) *Workflow {
	return &Workflow{store: s, events: ev, catalog: cat, logger: logger}
}

// SubmitForApproval captures the top-ranked vendor as an immutable snapshot
// and moves it to pending approval. It requires 100% manual completion and
// no active (pending or approved) selection for the event.
func (wf *Workflow) SubmitForApproval(ctx context.Context, eventID uuid.UUID, submittedBy, justification string) (*store.WinnerSelection, error) {
	evals, err := wf.store.ListEvaluations(ctx, store.EvaluationFilter{SourcingEventID: &eventID})
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	if len(evals) == 0 {
		return nil, ErrNoVendors
	}

	completion := scoring.TrackCompletion(evals, wf.catalog.Len())
	if !completion.Complete() {
		return nil, fmt.Errorf("%w: %.1f%% complete", ErrEvaluationIncomplete, completion.OverallPercent)
	}

	winner, ok := scoring.TopRanked(scoring.Aggregate(evals))
	if !ok {
		return nil, ErrNoVendors
	}

	now := time.Now().UTC()
	sel := &store.WinnerSelection{
		SourcingEventID: eventID,
		WinnerVendorID:  winner.VendorID,
		TotalScore:      winner.TotalScore,
		WeightedScore:   winner.WeightedScore,
		Status:          store.StatusSelected,
		ApprovalStatus:  store.ApprovalPending,
		SelectionDate:   now,
		SelectedBy:      submittedBy,
		Justification:   justification,
		SubmittedBy:     submittedBy,
		SubmissionDate:  now,
		OrganizationID:  organizationOf(evals),
	}

	if err := wf.store.CreateWinnerSelection(ctx, sel); err != nil {
		if errors.Is(err, store.ErrActiveSelectionExists) {
			return nil, ErrApprovalPending
		}
		return nil, fmt.Errorf("create winner selection: %w", err)
	}

	wf.logger.Info("winner selection submitted",
		"selection_id", sel.ID,
		"event_id", eventID,
		"winner", sel.WinnerVendorID,
		"weighted_score", sel.WeightedScore,
	)

	if wf.events != nil {
		_ = wf.events.Publish(events.SubjectSelectionSubmitted(sel.ID.String()), events.SelectionSubmittedEvent{
			SelectionID:     sel.ID.String(),
			SourcingEventID: eventID.String(),
			WinnerVendorID:  sel.WinnerVendorID,
			WeightedScore:   sel.WeightedScore,
			SubmittedBy:     submittedBy,
			SubmissionDate:  sel.SubmissionDate,
		})
	}
	return sel, nil
}

// Approve moves a pending selection to approved. Terminal.
func (wf *Workflow) Approve(ctx context.Context, id uuid.UUID, approvedBy string) (*store.WinnerSelection, error) {
	sel, err := wf.pending(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sel.ApprovalStatus = store.ApprovalApproved
	sel.ApprovedBy = approvedBy
	sel.ApprovalDate = &now
	sel.UpdatedAt = now

	if err := wf.store.UpdateWinnerSelection(ctx, sel); err != nil {
		if errors.Is(err, store.ErrSelectionNotPending) {
			return nil, fmt.Errorf("%w: finalized concurrently", ErrInvalidTransition)
		}
		return nil, fmt.Errorf("update winner selection: %w", err)
	}

	wf.logger.Info("winner selection approved", "selection_id", id, "approved_by", approvedBy)

	if wf.events != nil {
		_ = wf.events.Publish(events.SubjectSelectionApproved(id.String()), events.SelectionApprovedEvent{
			SelectionID:     id.String(),
			SourcingEventID: sel.SourcingEventID.String(),
			WinnerVendorID:  sel.WinnerVendorID,
			ApprovedBy:      approvedBy,
			ApprovalDate:    now,
		})
	}
	return sel, nil
}

// Reject moves a pending selection to rejected, retaining it for audit.
// A fresh submission for the event creates a new record.
func (wf *Workflow) Reject(ctx context.Context, id uuid.UUID, rejectedBy, reason string) (*store.WinnerSelection, error) {
	sel, err := wf.pending(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sel.ApprovalStatus = store.ApprovalRejected
	sel.ApprovedBy = rejectedBy
	sel.ApprovalDate = &now
	sel.RejectionReason = reason
	sel.UpdatedAt = now

	if err := wf.store.UpdateWinnerSelection(ctx, sel); err != nil {
		if errors.Is(err, store.ErrSelectionNotPending) {
			return nil, fmt.Errorf("%w: finalized concurrently", ErrInvalidTransition)
		}
		return nil, fmt.Errorf("update winner selection: %w", err)
	}

	wf.logger.Info("winner selection rejected", "selection_id", id, "rejected_by", rejectedBy, "reason", reason)

	if wf.events != nil {
		_ = wf.events.Publish(events.SubjectSelectionRejected(id.String()), events.SelectionRejectedEvent{
			SelectionID:     id.String(),
			SourcingEventID: sel.SourcingEventID.String(),
			WinnerVendorID:  sel.WinnerVendorID,
			RejectedBy:      rejectedBy,
			Reason:          reason,
		})
	}
	return sel, nil
}

func (wf *Workflow) pending(ctx context.Context, id uuid.UUID) (*store.WinnerSelection, error) {
	sel, err := wf.store.GetWinnerSelection(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get winner selection: %w", err)
	}
	if sel == nil {
		return nil, ErrSelectionNotFound
	}
	if sel.ApprovalStatus != store.ApprovalPending {
		return nil, fmt.Errorf("%w: status %s", ErrInvalidTransition, sel.ApprovalStatus)
	}
	return sel, nil
}

func organizationOf(evals []*store.Evaluation) string {
	for _, e := range evals {
		if e.OrganizationID != "" {
			return e.OrganizationID
		}
	}
	return ""
}
