package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nefera/wellbeing-api/internal/dto"
	"github.com/nefera/wellbeing-api/internal/models"
	"github.com/nefera/wellbeing-api/internal/scoring"
)

type mockCheckinProfileRepo struct {
	profile  *models.StudentRiskProfile
	err      error
	streaked []string
}

func (m *mockCheckinProfileRepo) FindProfileByUserID(ctx context.Context, userID string) (*models.StudentRiskProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}

func (m *mockCheckinProfileRepo) IncrementStreak(ctx context.Context, id string) error {
	m.streaked = append(m.streaked, id)
	return nil
}

type mockJournalStore struct {
	created []models.JournalEntry
	entries []models.JournalEntry
}

func (m *mockJournalStore) Create(ctx context.Context, entry *models.JournalEntry) error {
	m.created = append(m.created, *entry)
	return nil
}

func (m *mockJournalStore) WindowSince(ctx context.Context, studentID string, cutoff time.Time) ([]models.JournalEntry, error) {
	return m.entries, nil
}

// reverseCipher is a trivially invertible stand-in for the real sealer.
type reverseCipher struct{}

func (reverseCipher) Seal(plain string) (string, error) {
	return "sealed:" + plain, nil
}

func (reverseCipher) Open(sealed string) (string, error) {
	if len(sealed) >= 7 && sealed[:7] == "sealed:" {
		return sealed[7:], nil
	}
	return sealed, nil
}

type mockEscalator struct {
	escalated   []scoring.TriageResult
	escalateErr error
	scheduled   []string
}

func (m *mockEscalator) ApplyJournalEscalation(ctx context.Context, profileID string, mood models.Mood, triage scoring.TriageResult) error {
	m.escalated = append(m.escalated, triage)
	return m.escalateErr
}

func (m *mockEscalator) ScheduleRecompute(profileID string) {
	m.scheduled = append(m.scheduled, profileID)
}

type mockCheckinMetrics struct {
	moods []string
}

func (m *mockCheckinMetrics) CheckinRecorded(mood string) {
	m.moods = append(m.moods, mood)
}

func newCheckinService(profiles *mockCheckinProfileRepo, journals *mockJournalStore, risk *mockEscalator, metrics *mockCheckinMetrics) *CheckinService {
	// Avoid wrapping a typed nil pointer in the interface so the
	// service's nil check sees a truly nil metrics sink.
	var m checkinMetrics
	if metrics != nil {
		m = metrics
	}
	return NewCheckinService(profiles, journals, reverseCipher{}, risk, m, nil, nil, nil)
}

func studentProfile() *models.StudentRiskProfile {
	return &models.StudentRiskProfile{ID: "prof-1", UserID: "user-1", RiskStatus: models.RiskGreen}
}

func TestCheckInStoresSealedEntryWithFlags(t *testing.T) {
	profiles := &mockCheckinProfileRepo{profile: studentProfile()}
	journals := &mockJournalStore{}
	risk := &mockEscalator{}
	metrics := &mockCheckinMetrics{}
	svc := newCheckinService(profiles, journals, risk, metrics)

	resp, err := svc.CheckIn(context.Background(), "user-1", dto.CheckinRequest{
		Mood:        "WORRIED",
		SleepHours:  7,
		JournalText: "so nervous about the exam tomorrow",
		Triggers:    []string{"EXAMS", "NOT_A_TAG"},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.NotEmpty(t, resp.Message)
	assert.NotEmpty(t, resp.CopingTool)

	require.Len(t, journals.created, 1)
	entry := journals.created[0]
	assert.Equal(t, "prof-1", entry.StudentID)
	assert.Equal(t, models.MoodWorried, entry.Mood)
	assert.Equal(t, "sealed:so nervous about the exam tomorrow", entry.JournalText)
	assert.True(t, entry.HasAnxietyTerms)
	assert.False(t, entry.HasSevereSuicidalTerms)
	assert.Equal(t, []string{"EXAMS"}, []string(entry.TriggerTags))

	assert.Equal(t, []string{"prof-1"}, profiles.streaked)
	assert.Equal(t, []string{"prof-1"}, risk.scheduled)
	assert.Equal(t, []string{"WORRIED"}, metrics.moods)
}

func TestCheckInSevereTextEscalatesAndOverridesMessage(t *testing.T) {
	profiles := &mockCheckinProfileRepo{profile: studentProfile()}
	journals := &mockJournalStore{}
	risk := &mockEscalator{}
	svc := newCheckinService(profiles, journals, risk, nil)

	resp, err := svc.CheckIn(context.Background(), "user-1", dto.CheckinRequest{
		Mood:        "SAD",
		SleepHours:  5,
		JournalText: "I want to die today",
	})
	require.NoError(t, err)

	require.Len(t, risk.escalated, 1)
	assert.True(t, risk.escalated[0].HasSevere)
	require.Len(t, journals.created, 1)
	assert.True(t, journals.created[0].HasSevereSuicidalTerms)
	assert.Contains(t, resp.Message, "not alone")
}

func TestCheckInEscalationFailureIsFatal(t *testing.T) {
	profiles := &mockCheckinProfileRepo{profile: studentProfile()}
	risk := &mockEscalator{escalateErr: assert.AnError}
	svc := newCheckinService(profiles, &mockJournalStore{}, risk, nil)

	_, err := svc.CheckIn(context.Background(), "user-1", dto.CheckinRequest{
		Mood:        "SAD",
		JournalText: "I want to die today",
	})
	require.Error(t, err)
	assert.Empty(t, risk.scheduled)
}

func TestCheckInRejectsUnknownMood(t *testing.T) {
	svc := newCheckinService(&mockCheckinProfileRepo{profile: studentProfile()}, &mockJournalStore{}, &mockEscalator{}, nil)

	_, err := svc.CheckIn(context.Background(), "user-1", dto.CheckinRequest{Mood: "ECSTATIC"})
	require.Error(t, err)
}

func TestCheckInUnknownStudent(t *testing.T) {
	svc := newCheckinService(&mockCheckinProfileRepo{err: sql.ErrNoRows}, &mockJournalStore{}, &mockEscalator{}, nil)

	_, err := svc.CheckIn(context.Background(), "ghost", dto.CheckinRequest{Mood: "HAPPY"})
	require.Error(t, err)
}

func TestListJournalsDecrypts(t *testing.T) {
	profiles := &mockCheckinProfileRepo{profile: studentProfile()}
	journals := &mockJournalStore{entries: []models.JournalEntry{
		{ID: "e1", Mood: models.MoodHappy, JournalText: "sealed:a good day"},
	}}
	svc := newCheckinService(profiles, journals, &mockEscalator{}, nil)

	out, err := svc.ListJournals(context.Background(), "user-1", 7)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "a good day", out[0].JournalText)
}
