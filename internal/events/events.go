package events

import "time"

type EvaluationSeededEvent struct {
	SourcingEventID string   `json:"sourcing_event_id"`
	VendorIDs       []string `json:"vendor_ids"`
	CriteriaCount   int      `json:"criteria_count"`
	SeededBy        string   `json:"seeded_by"`
}

type EvaluationScoredEvent struct {
	EvaluationID    string  `json:"evaluation_id"`
	SourcingEventID string  `json:"sourcing_event_id"`
	VendorID        string  `json:"vendor_id"`
	CriteriaName    string  `json:"criteria_name"`
	ManualScore     float64 `json:"manual_score"`
	ScoredBy        string  `json:"scored_by"`
}

type EvaluationClearedEvent struct {
	EvaluationID    string `json:"evaluation_id"`
	SourcingEventID string `json:"sourcing_event_id"`
	VendorID        string `json:"vendor_id"`
	CriteriaName    string `json:"criteria_name"`
	ClearedBy       string `json:"cleared_by"`
}

type SelectionSubmittedEvent struct {
	SelectionID     string    `json:"selection_id"`
	SourcingEventID string    `json:"sourcing_event_id"`
	WinnerVendorID  string    `json:"winner_vendor_id"`
	WeightedScore   float64   `json:"weighted_score"`
	SubmittedBy     string    `json:"submitted_by"`
	SubmissionDate  time.Time `json:"submission_date"`
}

type SelectionApprovedEvent struct {
	SelectionID     string    `json:"selection_id"`
	SourcingEventID string    `json:"sourcing_event_id"`
	WinnerVendorID  string    `json:"winner_vendor_id"`
	ApprovedBy      string    `json:"approved_by"`
	ApprovalDate    time.Time `json:"approval_date"`
}

type SelectionRejectedEvent struct {
	SelectionID     string `json:"selection_id"`
	SourcingEventID string `json:"sourcing_event_id"`
	WinnerVendorID  string `json:"winner_vendor_id"`
	RejectedBy      string `json:"rejected_by"`
	Reason          string `json:"reason"`
}
