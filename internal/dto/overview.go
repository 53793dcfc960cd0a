package dto

import "github.com/nefera/wellbeing-api/internal/models"

// SchoolOverview is the principal's school-wide snapshot.
type SchoolOverview struct {
	TotalStudents int                   `json:"total_students"`
	RiskZones     models.RiskZoneCounts `json:"risk_zones"`
}

// ClassSnapshot is the teacher's per-class mood and risk view.
type ClassSnapshot struct {
	ClassID    string                `json:"class_id"`
	MoodCounts map[string]int        `json:"mood_counts"`
	RiskZones  models.RiskZoneCounts `json:"risk_zones"`
}

// ParentView is the guarded per-child summary. CRISIS is masked as
// CONTACT_SCHOOL; parents never see the raw crisis classification.
type ParentView struct {
	StudentName    string `json:"student_name"`
	RiskStatus     string `json:"risk_status"`
	RiskStatusNote string `json:"risk_status_note,omitempty"`
	StreakCount    int    `json:"streak_count"`
}
