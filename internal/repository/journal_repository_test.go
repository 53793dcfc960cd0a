package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nefera/wellbeing-api/internal/models"
)

func TestJournalRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRiskMock(t)
	defer cleanup()
	repo := NewJournalRepository(db)

	mock.ExpectExec("INSERT INTO journal_entries").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.JournalEntry{
		StudentID:   "stu-1",
		Mood:        models.MoodWorried,
		SleepHours:  6,
		JournalText: "sealed-blob",
		TriggerTags: pq.StringArray{"EXAMS"},
	}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.EntryAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalRepositoryWindowSince(t *testing.T) {
	db, mock, cleanup := newRiskMock(t)
	defer cleanup()
	repo := NewJournalRepository(db)

	cutoff := time.Now().AddDate(0, 0, -7)
	rows := sqlmock.NewRows([]string{"id", "student_id", "entry_at", "mood", "sleep_hours", "journal_text", "notes", "trigger_tags",
		"has_anxiety_terms", "has_low_mood_terms", "has_self_worth_terms", "has_severe_suicidal_terms"}).
		AddRow("j-1", "stu-1", time.Now(), "SAD", 5, "", "", "{}", false, true, false, false)
	mock.ExpectQuery("FROM journal_entries WHERE student_id = (.+) AND entry_at >=").
		WithArgs("stu-1", cutoff).
		WillReturnRows(rows)

	entries, err := repo.WindowSince(context.Background(), "stu-1", cutoff)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.MoodSad, entries[0].Mood)
	assert.True(t, entries[0].HasLowMoodTerms)
	assert.NoError(t, mock.ExpectationsWereMet())
}
