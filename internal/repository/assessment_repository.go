package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nefera/wellbeing-api/internal/models"
)

// AssessmentRepository persists scored questionnaire submissions.
type AssessmentRepository struct {
	db *sqlx.DB
}

// NewAssessmentRepository constructs the repository.
func NewAssessmentRepository(db *sqlx.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// Create inserts a new assessment record.
func (r *AssessmentRepository) Create(ctx context.Context, record *models.AssessmentRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO assessments (id, student_id, type, answers, total_score, is_alert, created_at)
VALUES (:id, :student_id, :type, :answers, :total_score, :is_alert, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create assessment: %w", err)
	}
	return nil
}

// ListByStudent returns a student's assessments, newest first.
func (r *AssessmentRepository) ListByStudent(ctx context.Context, studentID string, limit int) ([]models.AssessmentRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT id, student_id, type, answers, total_score, is_alert, created_at
        FROM assessments WHERE student_id = $1 ORDER BY created_at DESC LIMIT %d`, limit)
	var records []models.AssessmentRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return records, nil
}
