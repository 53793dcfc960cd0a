package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nefera/wellbeing-api/internal/models"
)

// StatusGuard selects the predicate protecting a status write. The
// guards mirror the hand-ordered escalation ladder: each transition
// carries its own condition rather than a generic max comparison, and
// the condition is evaluated inside the UPDATE itself so the check and
// the write are one atomic statement. A plain read-compare-write here
// could race a concurrent escalation and silently downgrade CRISIS.
type StatusGuard int

const (
	// GuardNone writes unconditionally. Used only for CRISIS targets,
	// which are the ceiling, and for counselor overrides.
	GuardNone StatusGuard = iota
	// GuardNotCrisis skips the write when the profile is already CRISIS.
	GuardNotCrisis
	// GuardBelowRed skips the write when the profile is RED or CRISIS.
	GuardBelowRed
)

// EscalationChange is one atomic risk transition: zero or more safety
// events appended plus an optional guarded status write. Both commit
// together or not at all; a status change without its audit event (or
// the reverse) must never be observable.
type EscalationChange struct {
	StudentID string
	Events    []models.SafetyEvent
	// Target is the new status; empty means audit-only (events without
	// a status write).
	Target models.RiskStatus
	Guard  StatusGuard
}

// RiskRepository persists escalation units and recompute outcomes.
type RiskRepository struct {
	db *sqlx.DB
}

// NewRiskRepository constructs the repository.
func NewRiskRepository(db *sqlx.DB) *RiskRepository {
	return &RiskRepository{db: db}
}

const insertSafetyEvent = `INSERT INTO safety_events (id, student_id, trigger_type, risk_band, details, created_at)
VALUES (:id, :student_id, :trigger_type, :risk_band, :details, :created_at)`

// Apply commits an escalation change in a single transaction. It
// reports whether the status write took effect (a guarded write against
// an already-escalated profile appends its events but changes nothing).
func (r *RiskRepository) Apply(ctx context.Context, change EscalationChange) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin escalation: %w", err)
	}

	now := time.Now().UTC()
	for i := range change.Events {
		if change.Events[i].ID == "" {
			change.Events[i].ID = uuid.NewString()
		}
		if change.Events[i].CreatedAt.IsZero() {
			change.Events[i].CreatedAt = now
		}
		if _, err := tx.NamedExecContext(ctx, insertSafetyEvent, change.Events[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return false, fmt.Errorf("append safety event: %w", err)
		}
	}

	changed := false
	if change.Target != "" {
		query := "UPDATE student_profiles SET risk_status = $1, updated_at = $2 WHERE id = $3"
		switch change.Guard {
		case GuardNotCrisis:
			query += " AND risk_status <> 'CRISIS'"
		case GuardBelowRed:
			query += " AND risk_status NOT IN ('RED', 'CRISIS')"
		}
		res, err := tx.ExecContext(ctx, query, change.Target, now, change.StudentID)
		if err != nil {
			tx.Rollback() //nolint:errcheck
			return false, fmt.Errorf("update risk status: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			changed = true
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit escalation: %w", err)
	}
	return changed, nil
}

// SetStatusUnlessCrisis overwrites the stored status with the recompute
// target. The CRISIS floor check rides inside the UPDATE predicate, so
// a recompute racing a synchronous escalation can never lower CRISIS.
func (r *RiskRepository) SetStatusUnlessCrisis(ctx context.Context, studentID string, target models.RiskStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE student_profiles SET risk_status = $1, updated_at = $2 WHERE id = $3 AND risk_status <> 'CRISIS'",
		target, time.Now().UTC(), studentID)
	if err != nil {
		return false, fmt.Errorf("recompute status write: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("recompute status write: %w", err)
	}
	return n > 0, nil
}
