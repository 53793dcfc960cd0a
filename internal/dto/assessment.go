package dto

import "time"

// AssessmentRequest is a questionnaire submission.
type AssessmentRequest struct {
	Type    string `json:"type" validate:"required"`
	Answers []int  `json:"answers" validate:"required,min=1"`
}

// AssessmentResponse returns the deterministic scoring outcome.
type AssessmentResponse struct {
	Score          int    `json:"score"`
	RiskLevel      string `json:"risk_level"`
	AlertTriggered bool   `json:"alert_triggered"`
}

// AssessmentHistoryItem is one row of a student's assessment history.
type AssessmentHistoryItem struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	TotalScore int       `json:"total_score"`
	IsAlert    bool      `json:"is_alert"`
	CreatedAt  time.Time `json:"created_at"`
}
