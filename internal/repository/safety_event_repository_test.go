package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nefera/wellbeing-api/internal/models"
)

func TestSafetyEventRepositoryAppend(t *testing.T) {
	db, mock, cleanup := newRiskMock(t)
	defer cleanup()
	repo := NewSafetyEventRepository(db)

	mock.ExpectExec("INSERT INTO safety_events").
		WithArgs(sqlmock.AnyArg(), "stu-1", "CSSRS", "HIGH", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	event := &models.SafetyEvent{
		StudentID:   "stu-1",
		TriggerType: models.TriggerCSSRS,
		RiskBand:    models.BandHigh,
		Details:     models.EventDetails{CSSRS: &models.CSSRSDetails{Answers: []int{0, 0, 0, 0, 1, 0}}},
	}
	require.NoError(t, repo.Append(context.Background(), event))
	assert.NotEmpty(t, event.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSafetyEventRepositoryAppendSurfacesStorageFault(t *testing.T) {
	db, mock, cleanup := newRiskMock(t)
	defer cleanup()
	repo := NewSafetyEventRepository(db)

	mock.ExpectExec("INSERT INTO safety_events").WillReturnError(assert.AnError)

	err := repo.Append(context.Background(), &models.SafetyEvent{
		StudentID:   "stu-1",
		TriggerType: models.TriggerJournalSevere,
		RiskBand:    models.BandCrisis,
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSafetyEventRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newRiskMock(t)
	defer cleanup()
	repo := NewSafetyEventRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "trigger_type", "risk_band", "details", "created_at"}).
		AddRow("ev-2", "stu-1", "PHQ9_Q9", "CRISIS", []byte(`{"phq9":{"item9_score":1,"total_score":1,"depression_severity":"GREEN"}}`), time.Now()).
		AddRow("ev-1", "stu-1", "CSSRS", "LOW", []byte(`{"cssrs":{"answers":[1,0,0,0,0,0]}}`), time.Now().Add(-time.Hour))
	mock.ExpectQuery("FROM safety_events WHERE student_id").
		WithArgs("stu-1").
		WillReturnRows(rows)

	events, err := repo.ListByStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.NotNil(t, events[0].Details.PHQ9)
	assert.Equal(t, 1, events[0].Details.PHQ9.Item9Score)
	require.NotNil(t, events[1].Details.CSSRS)
	assert.Equal(t, []int{1, 0, 0, 0, 0, 0}, events[1].Details.CSSRS.Answers)
	assert.NoError(t, mock.ExpectationsWereMet())
}
