package dto

import "time"

// CheckinRequest is the daily check-in payload.
type CheckinRequest struct {
	Mood        string   `json:"mood" validate:"required"`
	SleepHours  int      `json:"sleep_hours" validate:"gte=0,lte=24"`
	JournalText string   `json:"journal_text"`
	Notes       string   `json:"notes"`
	Triggers    []string `json:"triggers"`
}

// CheckinResponse returns the supportive message shown after a check-in.
type CheckinResponse struct {
	Message    string `json:"message"`
	CopingTool string `json:"coping_tool,omitempty"`
}

// JournalEntryOut is a student's own decrypted journal row.
type JournalEntryOut struct {
	ID          string    `json:"id"`
	EntryAt     time.Time `json:"entry_at"`
	Mood        string    `json:"mood"`
	SleepHours  int       `json:"sleep_hours"`
	JournalText string    `json:"journal_text"`
	Notes       string    `json:"notes,omitempty"`
	Triggers    []string  `json:"triggers,omitempty"`
}
