package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nefera/wellbeing-api/internal/models"
)

// JournalRepository persists daily check-in entries. Entries are
// append-only: created on check-in, never mutated or deleted.
type JournalRepository struct {
	db *sqlx.DB
}

// NewJournalRepository constructs the repository.
func NewJournalRepository(db *sqlx.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// Create inserts a new journal entry.
func (r *JournalRepository) Create(ctx context.Context, entry *models.JournalEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.EntryAt.IsZero() {
		entry.EntryAt = time.Now().UTC()
	}
	const query = `INSERT INTO journal_entries (id, student_id, entry_at, mood, sleep_hours, journal_text, notes, trigger_tags,
        has_anxiety_terms, has_low_mood_terms, has_self_worth_terms, has_severe_suicidal_terms)
VALUES (:id, :student_id, :entry_at, :mood, :sleep_hours, :journal_text, :notes, :trigger_tags,
        :has_anxiety_terms, :has_low_mood_terms, :has_self_worth_terms, :has_severe_suicidal_terms)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create journal entry: %w", err)
	}
	return nil
}

const journalColumns = `id, student_id, entry_at, mood, sleep_hours, journal_text, notes, trigger_tags,
        has_anxiety_terms, has_low_mood_terms, has_self_worth_terms, has_severe_suicidal_terms`

// WindowSince returns a student's entries with entry_at >= cutoff,
// newest first. This is the rolling window the recompute reads.
func (r *JournalRepository) WindowSince(ctx context.Context, studentID string, cutoff time.Time) ([]models.JournalEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM journal_entries WHERE student_id = $1 AND entry_at >= $2 ORDER BY entry_at DESC`, journalColumns)
	var entries []models.JournalEntry
	if err := r.db.SelectContext(ctx, &entries, query, studentID, cutoff); err != nil {
		return nil, fmt.Errorf("journal window: %w", err)
	}
	return entries, nil
}

// MoodCountsSince aggregates moods across a class for the teacher
// snapshot. Reads computed rows only; no scoring happens here.
func (r *JournalRepository) MoodCountsSince(ctx context.Context, classID string, cutoff time.Time) (map[models.Mood]int, error) {
	const query = `SELECT j.mood, COUNT(*) AS count
        FROM journal_entries j
        JOIN student_profiles p ON p.id = j.student_id
        WHERE p.class_id = $1 AND j.entry_at >= $2
        GROUP BY j.mood`
	rows, err := r.db.QueryxContext(ctx, query, classID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("class mood counts: %w", err)
	}
	defer rows.Close()

	counts := map[models.Mood]int{}
	for rows.Next() {
		var mood models.Mood
		var count int
		if err := rows.Scan(&mood, &count); err != nil {
			return nil, fmt.Errorf("scan mood count: %w", err)
		}
		counts[mood] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("class mood counts: %w", err)
	}
	return counts, nil
}
