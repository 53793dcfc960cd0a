package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nefera/wellbeing-api/internal/dto"
	"github.com/nefera/wellbeing-api/internal/models"
	"github.com/nefera/wellbeing-api/internal/scoring"
)

type mockAssessmentStore struct {
	created []models.AssessmentRecord
	records []models.AssessmentRecord
}

func (m *mockAssessmentStore) Create(ctx context.Context, record *models.AssessmentRecord) error {
	m.created = append(m.created, *record)
	return nil
}

func (m *mockAssessmentStore) ListByStudent(ctx context.Context, studentID string, limit int) ([]models.AssessmentRecord, error) {
	return m.records, nil
}

type mockAssessmentEscalator struct {
	calls []scoring.InstrumentResult
}

func (m *mockAssessmentEscalator) ApplyAssessmentEscalation(ctx context.Context, profileID string, instrument models.InstrumentType, result scoring.InstrumentResult, answers []int) error {
	m.calls = append(m.calls, result)
	return nil
}

type mockAssessmentMetrics struct {
	instruments []string
	alerts      []bool
}

func (m *mockAssessmentMetrics) AssessmentScored(instrument string, alert bool) {
	m.instruments = append(m.instruments, instrument)
	m.alerts = append(m.alerts, alert)
}

func newAssessmentService(store *mockAssessmentStore, risk *mockAssessmentEscalator, metrics *mockAssessmentMetrics) *AssessmentService {
	profiles := &mockCheckinProfileRepo{profile: studentProfile()}
	// Avoid wrapping a typed nil pointer in the interface so the
	// service's nil check sees a truly nil metrics sink.
	var m assessmentMetrics
	if metrics != nil {
		m = metrics
	}
	return NewAssessmentService(profiles, store, risk, m, nil, nil)
}

func TestSubmitScoresAndEscalates(t *testing.T) {
	store := &mockAssessmentStore{}
	risk := &mockAssessmentEscalator{}
	metrics := &mockAssessmentMetrics{}
	svc := newAssessmentService(store, risk, metrics)

	resp, err := svc.Submit(context.Background(), "user-1", dto.AssessmentRequest{
		Type:    "PHQ9",
		Answers: []int{0, 0, 0, 0, 0, 0, 0, 0, 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Score)
	assert.True(t, resp.AlertTriggered)

	require.Len(t, store.created, 1)
	record := store.created[0]
	assert.Equal(t, "prof-1", record.StudentID)
	assert.Equal(t, models.InstrumentPHQ9, record.Type)
	assert.True(t, record.IsAlert)

	require.Len(t, risk.calls, 1)
	assert.True(t, risk.calls[0].Alert)

	assert.Equal(t, []string{"PHQ9"}, metrics.instruments)
	assert.Equal(t, []bool{true}, metrics.alerts)
}

func TestSubmitGAD7IsInformativeOnly(t *testing.T) {
	store := &mockAssessmentStore{}
	risk := &mockAssessmentEscalator{}
	svc := newAssessmentService(store, risk, nil)

	resp, err := svc.Submit(context.Background(), "user-1", dto.AssessmentRequest{
		Type:    "GAD7",
		Answers: []int{3, 3, 3, 3, 3, 3, 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 21, resp.Score)
	assert.Equal(t, string(models.BandRed), resp.RiskLevel)
	assert.False(t, resp.AlertTriggered)

	// The record is stored and the ladder consulted, but the ladder is a
	// no-op for GAD-7.
	require.Len(t, store.created, 1)
	require.Len(t, risk.calls, 1)
}

func TestSubmitRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name string
		req  dto.AssessmentRequest
	}{
		{"unknown instrument", dto.AssessmentRequest{Type: "MMPI", Answers: []int{1}}},
		{"too many answers", dto.AssessmentRequest{Type: "GAD7", Answers: []int{1, 1, 1, 1, 1, 1, 1, 1}}},
		{"negative answer", dto.AssessmentRequest{Type: "PHQ9", Answers: []int{-1}}},
		{"non-binary cssrs answer", dto.AssessmentRequest{Type: "CSSRS", Answers: []int{2}}},
		{"empty answers", dto.AssessmentRequest{Type: "PHQ9"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &mockAssessmentStore{}
			svc := newAssessmentService(store, &mockAssessmentEscalator{}, nil)

			_, err := svc.Submit(context.Background(), "user-1", tc.req)
			require.Error(t, err)
			assert.Empty(t, store.created)
		})
	}
}

func TestSubmitPartialAnswersCountAsZero(t *testing.T) {
	store := &mockAssessmentStore{}
	svc := newAssessmentService(store, &mockAssessmentEscalator{}, nil)

	resp, err := svc.Submit(context.Background(), "user-1", dto.AssessmentRequest{
		Type:    "PHQ9",
		Answers: []int{2, 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Score)
	// Item 9 was not answered, so no alert.
	assert.False(t, resp.AlertTriggered)
}

func TestHistoryMapsRecords(t *testing.T) {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	store := &mockAssessmentStore{records: []models.AssessmentRecord{
		{ID: "a1", Type: models.InstrumentPHQ9, TotalScore: 12, IsAlert: false, CreatedAt: now},
		{ID: "a2", Type: models.InstrumentCSSRS, TotalScore: 2, IsAlert: true, CreatedAt: now.Add(-time.Hour)},
	}}
	svc := newAssessmentService(store, &mockAssessmentEscalator{}, nil)

	items, err := svc.History(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a1", items[0].ID)
	assert.Equal(t, "CSSRS", items[1].Type)
	assert.True(t, items[1].IsAlert)
}
