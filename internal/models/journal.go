package models

import (
	"time"

	"github.com/lib/pq"
)

// Mood enumerates the daily check-in moods. Only WORRIED and SAD/FLAT
// feed the rolling-window recompute; the rest are risk-neutral.
type Mood string

const (
	MoodHappy   Mood = "HAPPY"
	MoodCalm    Mood = "CALM"
	MoodWorried Mood = "WORRIED"
	MoodSad     Mood = "SAD"
	MoodFlat    Mood = "FLAT"
	MoodAngry   Mood = "ANGRY"
)

// KnownMoods lists the accepted check-in moods.
var KnownMoods = map[Mood]struct{}{
	MoodHappy:   {},
	MoodCalm:    {},
	MoodWorried: {},
	MoodSad:     {},
	MoodFlat:    {},
	MoodAngry:   {},
}

// CheckinTriggerTags is the closed vocabulary of situational tags a
// student may attach to a check-in. Unknown tags are dropped silently.
var CheckinTriggerTags = map[string]struct{}{
	"EXAMS":    {},
	"FRIENDS":  {},
	"FAMILY":   {},
	"SLEEP":    {},
	"BULLYING": {},
	"HEALTH":   {},
	"OTHER":    {},
}

// JournalEntry is one daily check-in. It is immutable after creation:
// the lexicon flags are computed once from the plaintext and stored,
// while journal_text itself is sealed before it reaches the database.
type JournalEntry struct {
	ID          string         `db:"id" json:"id"`
	StudentID   string         `db:"student_id" json:"student_id"`
	EntryAt     time.Time      `db:"entry_at" json:"entry_at"`
	Mood        Mood           `db:"mood" json:"mood"`
	SleepHours  int            `db:"sleep_hours" json:"sleep_hours"`
	JournalText string         `db:"journal_text" json:"-"`
	Notes       string         `db:"notes" json:"notes,omitempty"`
	TriggerTags pq.StringArray `db:"trigger_tags" json:"trigger_tags,omitempty"`

	HasAnxietyTerms        bool `db:"has_anxiety_terms" json:"has_anxiety_terms"`
	HasLowMoodTerms        bool `db:"has_low_mood_terms" json:"has_low_mood_terms"`
	HasSelfWorthTerms      bool `db:"has_self_worth_terms" json:"has_self_worth_terms"`
	HasSevereSuicidalTerms bool `db:"has_severe_suicidal_terms" json:"has_severe_suicidal_terms"`
}
