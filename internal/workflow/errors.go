package workflow

import "errors"

// Error taxonomy for the winner selection workflow. Handlers map these to
// HTTP statuses; everything else is treated as a store/transport failure.
var (
	// ErrSelectionNotFound reports an unknown winner selection id.
	ErrSelectionNotFound = errors.New("winner selection not found")

	// ErrEvaluationIncomplete rejects submission before every vendor ×
	// criterion cell carries a manual score.
	ErrEvaluationIncomplete = errors.New("cannot submit incomplete evaluation")

	// ErrApprovalPending rejects a second submission while a pending or
	// approved selection exists for the event.
	ErrApprovalPending = errors.New("approval already pending for event")

	// ErrInvalidTransition rejects approve/reject on a record that is not
	// pending approval.
	ErrInvalidTransition = errors.New("selection is not pending approval")

	// ErrNoVendors rejects submission for an event with no evaluations.
	ErrNoVendors = errors.New("no evaluations for event")
)
