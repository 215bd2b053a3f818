package events

import "time"

type EvaluationSubmittedEvent struct {
	VendorID     string  `json:"vendor_id"`
	EvaluatorID  string  `json:"evaluator_id"`
	Domain       string  `json:"domain"`
	OverallScore float64 `json:"overall_score"`
	Status       string  `json:"status"`
}

type DecisionRecordedEvent struct {
	VendorID  string    `json:"vendor_id"`
	Decision  string    `json:"decision"`
	DecidedBy string    `json:"decided_by"`
	DecidedAt time.Time `json:"decided_at"`
}

type SettingsUpdatedEvent struct {
	ChatEnabled           bool   `json:"chat_enabled"`
	DirectDecisionEnabled bool   `json:"direct_decision_enabled"`
	PrintEnabled          bool   `json:"print_enabled"`
	ExportEnabled         bool   `json:"export_enabled"`
	UpdatedBy             string `json:"updated_by"`
}
