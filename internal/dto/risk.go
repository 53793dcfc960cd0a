package dto

import (
	"time"

	"github.com/nefera/wellbeing-api/internal/models"
)

// MoodPoint is one day of the mood timeline in the counselor detail.
type MoodPoint struct {
	ID         string    `json:"id"`
	EntryAt    time.Time `json:"entry_at"`
	Mood       string    `json:"mood"`
	SleepHours int       `json:"sleep_hours"`
}

// StudentDetail is the counselor's single-student view.
type StudentDetail struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	Email        string                  `json:"email"`
	RollNumber   string                  `json:"roll_number"`
	ClassName    *string                 `json:"class_name,omitempty"`
	RiskStatus   models.RiskStatus       `json:"risk_status"`
	StreakCount  int                     `json:"streak_count"`
	RecentMoods  []MoodPoint             `json:"recent_moods"`
	Assessments  []AssessmentHistoryItem `json:"assessments"`
	SafetyEvents []models.SafetyEvent    `json:"safety_events"`
}

// OverrideRequest is a counselor clinical override. The only path that
// may lower a CRISIS status.
type OverrideRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason" validate:"required"`
}
