package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nefera/wellbeing-api/internal/models"
)

func newRiskMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRiskRepositoryApplyEventAndStatus(t *testing.T) {
	db, mock, cleanup := newRiskMock(t)
	defer cleanup()
	repo := NewRiskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO safety_events").
		WithArgs(sqlmock.AnyArg(), "stu-1", "JOURNAL_SEVERE", "CRISIS", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE student_profiles SET risk_status").
		WithArgs(models.RiskCrisis, sqlmock.AnyArg(), "stu-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	changed, err := repo.Apply(context.Background(), EscalationChange{
		StudentID: "stu-1",
		Events: []models.SafetyEvent{{
			StudentID:   "stu-1",
			TriggerType: models.TriggerJournalSevere,
			RiskBand:    models.BandCrisis,
			Details: models.EventDetails{JournalSevere: &models.JournalSevereDetails{
				Matches: map[string][]string{"severe_suicidal": {"want to die"}},
				Mood:    models.MoodSad,
				Source:  "daily_checkin",
			}},
		}},
		Target: models.RiskCrisis,
		Guard:  GuardNone,
	})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRiskRepositoryApplyGuardBlocksWrite(t *testing.T) {
	db, mock, cleanup := newRiskMock(t)
	defer cleanup()
	repo := NewRiskRepository(db)

	// CSSRS LOW against an already-RED profile: the event still lands,
	// the guarded update touches no rows.
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO safety_events").
		WithArgs(sqlmock.AnyArg(), "stu-1", "CSSRS", "LOW", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`UPDATE student_profiles SET risk_status = \$1, updated_at = \$2 WHERE id = \$3 AND risk_status NOT IN \('RED', 'CRISIS'\)`).
		WithArgs(models.RiskOrange, sqlmock.AnyArg(), "stu-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	changed, err := repo.Apply(context.Background(), EscalationChange{
		StudentID: "stu-1",
		Events: []models.SafetyEvent{{
			StudentID:   "stu-1",
			TriggerType: models.TriggerCSSRS,
			RiskBand:    models.BandLow,
			Details:     models.EventDetails{CSSRS: &models.CSSRSDetails{Answers: []int{1, 0, 0, 0, 0, 0}}},
		}},
		Target: models.RiskOrange,
		Guard:  GuardBelowRed,
	})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRiskRepositoryApplyAuditOnly(t *testing.T) {
	db, mock, cleanup := newRiskMock(t)
	defer cleanup()
	repo := NewRiskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO safety_events").
		WithArgs(sqlmock.AnyArg(), "stu-1", "CSSRS", "MODERATE", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	changed, err := repo.Apply(context.Background(), EscalationChange{
		StudentID: "stu-1",
		Events: []models.SafetyEvent{{
			StudentID:   "stu-1",
			TriggerType: models.TriggerCSSRS,
			RiskBand:    models.BandModerate,
			Details:     models.EventDetails{CSSRS: &models.CSSRSDetails{Answers: []int{0, 0, 1, 0, 0, 0}}},
		}},
	})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRiskRepositoryApplyRollsBackOnStatusFailure(t *testing.T) {
	db, mock, cleanup := newRiskMock(t)
	defer cleanup()
	repo := NewRiskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO safety_events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE student_profiles SET risk_status").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := repo.Apply(context.Background(), EscalationChange{
		StudentID: "stu-1",
		Events: []models.SafetyEvent{{
			StudentID:   "stu-1",
			TriggerType: models.TriggerPHQ9Item9,
			RiskBand:    models.BandCrisis,
			Details:     models.EventDetails{PHQ9: &models.PHQ9AlertDetails{Item9Score: 2, TotalScore: 4}},
		}},
		Target: models.RiskCrisis,
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRiskRepositorySetStatusUnlessCrisis(t *testing.T) {
	db, mock, cleanup := newRiskMock(t)
	defer cleanup()
	repo := NewRiskRepository(db)

	mock.ExpectExec(`UPDATE student_profiles SET risk_status = \$1, updated_at = \$2 WHERE id = \$3 AND risk_status <> 'CRISIS'`).
		WithArgs(models.RiskOrange, sqlmock.AnyArg(), "stu-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	changed, err := repo.SetStatusUnlessCrisis(context.Background(), "stu-1", models.RiskOrange)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRiskRepositorySetStatusSkipsCrisisProfiles(t *testing.T) {
	db, mock, cleanup := newRiskMock(t)
	defer cleanup()
	repo := NewRiskRepository(db)

	mock.ExpectExec(`UPDATE student_profiles SET risk_status = \$1, updated_at = \$2 WHERE id = \$3 AND risk_status <> 'CRISIS'`).
		WithArgs(models.RiskGreen, sqlmock.AnyArg(), "stu-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err := repo.SetStatusUnlessCrisis(context.Background(), "stu-1", models.RiskGreen)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
