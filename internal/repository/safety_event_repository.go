package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nefera/wellbeing-api/internal/models"
)

// SafetyEventRepository is the append-only audit log of escalation
// triggers. There is no update or delete path, and no deduplication:
// the same trigger submitted twice produces two events.
type SafetyEventRepository struct {
	db *sqlx.DB
}

// NewSafetyEventRepository constructs the repository.
func NewSafetyEventRepository(db *sqlx.DB) *SafetyEventRepository {
	return &SafetyEventRepository{db: db}
}

// Append durably records a safety event. Failure here is fatal for the
// surrounding request; there is no silent-drop path.
func (r *SafetyEventRepository) Append(ctx context.Context, event *models.SafetyEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if _, err := r.db.NamedExecContext(ctx, insertSafetyEvent, event); err != nil {
		return fmt.Errorf("append safety event: %w", err)
	}
	return nil
}

// ListByStudent returns a student's escalation history, newest first.
func (r *SafetyEventRepository) ListByStudent(ctx context.Context, studentID string) ([]models.SafetyEvent, error) {
	const query = `SELECT id, student_id, trigger_type, risk_band, details, created_at
        FROM safety_events WHERE student_id = $1 ORDER BY created_at DESC`
	var events []models.SafetyEvent
	if err := r.db.SelectContext(ctx, &events, query, studentID); err != nil {
		return nil, fmt.Errorf("list safety events: %w", err)
	}
	return events, nil
}

// CountByStudent returns the size of a student's escalation history.
func (r *SafetyEventRepository) CountByStudent(ctx context.Context, studentID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM safety_events WHERE student_id = $1", studentID); err != nil {
		return 0, fmt.Errorf("count safety events: %w", err)
	}
	return count, nil
}
