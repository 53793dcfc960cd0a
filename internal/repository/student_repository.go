package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nefera/wellbeing-api/internal/models"
)

// StudentRepository reads and maintains student risk profiles.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const profileColumns = `p.id, p.user_id, p.roll_number, p.class_id, c.name AS class_name,
        p.risk_status, p.streak_count, p.created_at, p.updated_at`

// FindProfileByID returns a profile by its id.
func (r *StudentRepository) FindProfileByID(ctx context.Context, id string) (*models.StudentRiskProfile, error) {
	var profile models.StudentRiskProfile
	query := fmt.Sprintf(`SELECT %s FROM student_profiles p LEFT JOIN classes c ON c.id = p.class_id WHERE p.id = $1`, profileColumns)
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindProfileByUserID returns the profile owned by a user account.
func (r *StudentRepository) FindProfileByUserID(ctx context.Context, userID string) (*models.StudentRiskProfile, error) {
	var profile models.StudentRiskProfile
	query := fmt.Sprintf(`SELECT %s FROM student_profiles p LEFT JOIN classes c ON c.id = p.class_id WHERE p.user_id = $1`, profileColumns)
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		return nil, err
	}
	return &profile, nil
}

// IncrementStreak bumps the consecutive check-in counter. The engine
// only ever increments; nothing here decrements.
func (r *StudentRepository) IncrementStreak(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE student_profiles SET streak_count = streak_count + 1, updated_at = $1 WHERE id = $2",
		time.Now().UTC(), id); err != nil {
		return fmt.Errorf("increment streak: %w", err)
	}
	return nil
}

// ListAtRisk returns students whose current status needs attention,
// most severe first.
func (r *StudentRepository) ListAtRisk(ctx context.Context) ([]models.AtRiskStudent, error) {
	const query = `SELECT p.id AS profile_id, u.full_name AS name, u.email, p.roll_number, p.class_id,
        c.name AS class_name, p.risk_status, p.streak_count
        FROM student_profiles p
        JOIN users u ON u.id = p.user_id
        LEFT JOIN classes c ON c.id = p.class_id
        WHERE p.risk_status IN ('ORANGE', 'RED', 'CRISIS')
        ORDER BY CASE p.risk_status WHEN 'CRISIS' THEN 0 WHEN 'RED' THEN 1 ELSE 2 END, u.full_name`
	var rows []models.AtRiskStudent
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list at-risk students: %w", err)
	}
	return rows, nil
}

// RiskZoneCounts aggregates profiles per status, optionally scoped to a class.
func (r *StudentRepository) RiskZoneCounts(ctx context.Context, classID string) (*models.RiskZoneCounts, error) {
	query := `SELECT
        COALESCE(SUM(CASE WHEN risk_status = 'GREEN' THEN 1 ELSE 0 END),0) AS green,
        COALESCE(SUM(CASE WHEN risk_status = 'ORANGE' THEN 1 ELSE 0 END),0) AS orange,
        COALESCE(SUM(CASE WHEN risk_status = 'RED' THEN 1 ELSE 0 END),0) AS red,
        COALESCE(SUM(CASE WHEN risk_status = 'CRISIS' THEN 1 ELSE 0 END),0) AS crisis
        FROM student_profiles`
	args := []interface{}{}
	if classID != "" {
		query += " WHERE class_id = $1"
		args = append(args, classID)
	}
	var counts models.RiskZoneCounts
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&counts.Green, &counts.Orange, &counts.Red, &counts.Crisis); err != nil {
		return nil, fmt.Errorf("risk zone counts: %w", err)
	}
	return &counts, nil
}
