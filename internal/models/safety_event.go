package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TriggerType names the rule that produced a safety event.
type TriggerType string

const (
	TriggerJournalSevere  TriggerType = "JOURNAL_SEVERE"
	TriggerPHQ9Item9      TriggerType = "PHQ9_Q9"
	TriggerCSSRS          TriggerType = "CSSRS"
	TriggerManualOverride TriggerType = "MANUAL_OVERRIDE"
)

// SafetyEvent is one immutable audit record of a trigger that caused or
// could justify escalation. The log is append-only and never deduplicated;
// the history, not a set, is the source of truth.
type SafetyEvent struct {
	ID          string       `db:"id" json:"id"`
	StudentID   string       `db:"student_id" json:"student_id"`
	TriggerType TriggerType  `db:"trigger_type" json:"trigger_type"`
	RiskBand    RiskBand     `db:"risk_band" json:"risk_band"`
	Details     EventDetails `db:"details" json:"details"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
}

// EventDetails is a tagged union of per-trigger payloads, stored as JSONB.
// Exactly one branch is set, matching the event's trigger type, which keeps
// the audit trail queryable instead of an open map.
type EventDetails struct {
	JournalSevere *JournalSevereDetails `json:"journal_severe,omitempty"`
	PHQ9          *PHQ9AlertDetails     `json:"phq9,omitempty"`
	CSSRS         *CSSRSDetails         `json:"cssrs,omitempty"`
	Override      *OverrideDetails      `json:"override,omitempty"`
}

// JournalSevereDetails records the lexicon hits behind a JOURNAL_SEVERE event.
type JournalSevereDetails struct {
	Matches map[string][]string `json:"matches"`
	Mood    Mood                `json:"mood"`
	Source  string              `json:"source"`
}

// PHQ9AlertDetails records a positive item-9 submission.
type PHQ9AlertDetails struct {
	Item9Score         int      `json:"item9_score"`
	TotalScore         int      `json:"total_score"`
	DepressionSeverity RiskBand `json:"depression_severity"`
}

// CSSRSDetails preserves the raw answers behind a C-SSRS event.
type CSSRSDetails struct {
	Answers []int `json:"answers"`
}

// OverrideDetails records a counselor clinical override.
type OverrideDetails struct {
	PreviousStatus RiskStatus `json:"previous_status"`
	NewStatus      RiskStatus `json:"new_status"`
	CounselorID    string     `json:"counselor_id"`
	Reason         string     `json:"reason"`
}

// Value marshals the details for storage.
func (d EventDetails) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan unmarshals the stored JSONB payload.
func (d *EventDetails) Scan(src interface{}) error {
	if src == nil {
		*d = EventDetails{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported details type %T", src)
	}
	return json.Unmarshal(raw, d)
}
