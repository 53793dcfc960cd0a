package models

import "time"

// RiskStatus is the aggregate classification stored per student,
// strictly ordered GREEN < ORANGE < RED < CRISIS. Once a profile reaches
// CRISIS no automated path may lower it; only a counselor override can.
type RiskStatus string

const (
	RiskGreen  RiskStatus = "GREEN"
	RiskOrange RiskStatus = "ORANGE"
	RiskRed    RiskStatus = "RED"
	RiskCrisis RiskStatus = "CRISIS"
)

var riskRank = map[RiskStatus]int{
	RiskGreen:  0,
	RiskOrange: 1,
	RiskRed:    2,
	RiskCrisis: 3,
}

// Rank returns the severity order of the status; unknown values rank below GREEN.
func (s RiskStatus) Rank() int {
	if r, ok := riskRank[s]; ok {
		return r
	}
	return -1
}

// Valid reports whether the value is a known status.
func (s RiskStatus) Valid() bool {
	_, ok := riskRank[s]
	return ok
}

// RiskBand is the severity a single instrument or text rule implies in
// isolation. Its value space is wider than RiskStatus: PHQ-9/GAD-7 use
// GREEN/YELLOW/ORANGE/RED, C-SSRS uses GREEN/LOW/MODERATE/HIGH/CRISIS.
type RiskBand string

const (
	BandGreen    RiskBand = "GREEN"
	BandYellow   RiskBand = "YELLOW"
	BandLow      RiskBand = "LOW"
	BandModerate RiskBand = "MODERATE"
	BandOrange   RiskBand = "ORANGE"
	BandHigh     RiskBand = "HIGH"
	BandRed      RiskBand = "RED"
	BandCrisis   RiskBand = "CRISIS"
)

// StudentRiskProfile is the single mutable record the risk engine owns.
// All status writes go through the escalation ladder or the recompute
// pass; callers never set risk_status directly.
type StudentRiskProfile struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"user_id"`
	RollNumber  string     `db:"roll_number" json:"roll_number"`
	ClassID     *string    `db:"class_id" json:"class_id,omitempty"`
	ClassName   *string    `db:"class_name" json:"class_name,omitempty"`
	RiskStatus  RiskStatus `db:"risk_status" json:"risk_status"`
	StreakCount int        `db:"streak_count" json:"streak_count"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// AtRiskStudent is the counselor roster row joining profile and identity.
type AtRiskStudent struct {
	ProfileID  string     `db:"profile_id" json:"id"`
	Name       string     `db:"name" json:"name"`
	Email      string     `db:"email" json:"email"`
	RollNumber string     `db:"roll_number" json:"roll_number"`
	ClassID    *string    `db:"class_id" json:"class_id,omitempty"`
	ClassName  *string    `db:"class_name" json:"class_name,omitempty"`
	RiskStatus RiskStatus `db:"risk_status" json:"risk_status"`
	Streak     int        `db:"streak_count" json:"streak"`
}

// RiskZoneCounts aggregates profiles per status for overview views.
type RiskZoneCounts struct {
	Green  int `json:"green"`
	Orange int `json:"orange"`
	Red    int `json:"red"`
	Crisis int `json:"crisis"`
}

// Total returns the number of profiles counted.
func (c RiskZoneCounts) Total() int {
	return c.Green + c.Orange + c.Red + c.Crisis
}
