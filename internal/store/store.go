package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrActiveSelectionExists is returned by CreateWinnerSelection when a
// pending or approved selection already exists for the sourcing event.
var ErrActiveSelectionExists = errors.New("active winner selection already exists for event")

// ErrSelectionNotPending is returned by UpdateWinnerSelection when the
// stored row is no longer pending approval, typically because a
// concurrent request finalized it first.
var ErrSelectionNotPending = errors.New("selection is no longer pending approval")

// ApprovalStatus tracks a winner selection through the approval workflow.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending_approval"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// StatusSelected is the lifecycle status of every winner selection record.
// Records are created in this status and never deleted.
const StatusSelected = "selected"

// Evaluation is one scoring cell: a (sourcing event, vendor, criterion) row.
// AIScore is write-once at seed time; only ManualScore is mutated afterwards.
type Evaluation struct {
	ID              uuid.UUID `json:"id"`
	SourcingEventID uuid.UUID `json:"sourcing_event_id"`
	VendorID        string    `json:"vendor_id"`
	CriteriaName    string    `json:"criteria_name"`

	AIScore     *float64 `json:"ai_score,omitempty"`
	ManualScore *float64 `json:"manual_score,omitempty"`
	Weight      float64  `json:"weight"`

	Justification string `json:"justification,omitempty"`
	ScoredBy      string `json:"scored_by,omitempty"`

	OrganizationID string    `json:"organization_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// EvaluationFilter narrows evaluation listings.
type EvaluationFilter struct {
	SourcingEventID *uuid.UUID
	VendorID        string
	CriteriaName    string
	Limit           int
	Offset          int
}

// WinnerSelection is the record proposing a vendor as winner of a sourcing
// event, subject to approval. Rejected records are retained for audit.
type WinnerSelection struct {
	ID              uuid.UUID `json:"id"`
	SourcingEventID uuid.UUID `json:"sourcing_event_id"`
	WinnerVendorID  string    `json:"winner_vendor_id"`

	TotalScore    float64 `json:"total_score"`
	WeightedScore float64 `json:"weighted_score"`

	Status         string         `json:"status"`
	ApprovalStatus ApprovalStatus `json:"approval_status"`

	SelectionDate time.Time `json:"selection_date"`
	SelectedBy    string    `json:"selected_by"`
	Justification string    `json:"justification,omitempty"`

	SubmittedBy     string     `json:"submitted_by"`
	SubmissionDate  time.Time  `json:"submission_date"`
	ApprovedBy      string     `json:"approved_by,omitempty"`
	ApprovalDate    *time.Time `json:"approval_date,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`

	OrganizationID string    `json:"organization_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Active reports whether this record blocks a new submission for its event.
func (w *WinnerSelection) Active() bool {
	return w.ApprovalStatus == ApprovalPending || w.ApprovalStatus == ApprovalApproved
}

// Store is the persistence surface for evaluations and winner selections.
type Store interface {
	// Evaluations
	CreateEvaluation(ctx context.Context, e *Evaluation) error
	GetEvaluation(ctx context.Context, id uuid.UUID) (*Evaluation, error)
	ListEvaluations(ctx context.Context, filter EvaluationFilter) ([]*Evaluation, error)
	// UpdateEvaluationScore sets (or, with nil, clears) the manual score.
	// Last write wins; each write stamps updated_at.
	UpdateEvaluationScore(ctx context.Context, id uuid.UUID, manualScore *float64, scoredBy string) (*Evaluation, error)

	// Winner selections
	// CreateWinnerSelection inserts atomically, failing with
	// ErrActiveSelectionExists when a pending or approved record already
	// exists for the same sourcing event.
	CreateWinnerSelection(ctx context.Context, sel *WinnerSelection) error
	GetWinnerSelection(ctx context.Context, id uuid.UUID) (*WinnerSelection, error)
	GetSelectionByEvent(ctx context.Context, eventID uuid.UUID) (*WinnerSelection, error)
	ListPendingSelections(ctx context.Context, organizationID string) ([]*WinnerSelection, error)
	// UpdateWinnerSelection applies an approval transition to a row that
	// is still pending approval, failing with ErrSelectionNotPending
	// otherwise.
	UpdateWinnerSelection(ctx context.Context, sel *WinnerSelection) error

	Close() error
}
