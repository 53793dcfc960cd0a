package models

import (
	"time"

	"github.com/lib/pq"
)

// InstrumentType identifies a clinical screening questionnaire.
type InstrumentType string

const (
	InstrumentPHQ9  InstrumentType = "PHQ9"
	InstrumentGAD7  InstrumentType = "GAD7"
	InstrumentCSSRS InstrumentType = "CSSRS"
)

// Valid reports whether the instrument is known.
func (t InstrumentType) Valid() bool {
	switch t {
	case InstrumentPHQ9, InstrumentGAD7, InstrumentCSSRS:
		return true
	}
	return false
}

// AssessmentRecord stores one scored questionnaire submission.
// Immutable once created.
type AssessmentRecord struct {
	ID         string         `db:"id" json:"id"`
	StudentID  string         `db:"student_id" json:"student_id"`
	Type       InstrumentType `db:"type" json:"type"`
	Answers    pq.Int64Array  `db:"answers" json:"answers"`
	TotalScore int            `db:"total_score" json:"total_score"`
	IsAlert    bool           `db:"is_alert" json:"is_alert"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}
