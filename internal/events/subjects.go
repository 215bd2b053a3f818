package events

const (
	StreamName   = "PANEL_EVENTS"
	StreamMaxAge = "2160h" // 90 days: evaluations are audit material
)

func SubjectEvaluationSubmitted(vendorID string) string {
	return "panel.evaluation." + vendorID + ".submitted"
}

func SubjectEvaluationDrafted(vendorID string) string {
	return "panel.evaluation." + vendorID + ".drafted"
}

func SubjectDecisionRecorded(vendorID string) string {
	return "panel.decision." + vendorID + ".recorded"
}

func SubjectSettingsUpdated() string {
	return "panel.settings.updated"
}
