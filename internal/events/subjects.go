package events

const (
	SubjectSelectionPending = "tender.selection.pending"

	StreamName = "TENDER_EVENTS"
)

func SubjectEvaluationSeeded(eventID string) string { return "tender.event." + eventID + ".seeded" }
func SubjectEvaluationScored(evalID string) string  { return "tender.evaluation." + evalID + ".scored" }
func SubjectEvaluationCleared(evalID string) string { return "tender.evaluation." + evalID + ".cleared" }

func SubjectSelectionSubmitted(selectionID string) string {
	return "tender.selection." + selectionID + ".submitted"
}
func SubjectSelectionApproved(selectionID string) string {
	return "tender.selection." + selectionID + ".approved"
}
func SubjectSelectionRejected(selectionID string) string {
	return "tender.selection." + selectionID + ".rejected"
}
