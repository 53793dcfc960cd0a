package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nefera/wellbeing-api/internal/models"
	"github.com/nefera/wellbeing-api/pkg/config"
)

type mockExportStudents struct {
	atRisk []models.AtRiskStudent
}

func (m *mockExportStudents) ListAtRisk(ctx context.Context) ([]models.AtRiskStudent, error) {
	return m.atRisk, nil
}

type mockExportEvents struct {
	events []models.SafetyEvent
}

func (m *mockExportEvents) ListByStudent(ctx context.Context, studentID string) ([]models.SafetyEvent, error) {
	return m.events, nil
}

func newExportService(students *mockExportStudents, events *mockExportEvents, enabled bool) *ExportService {
	fixed := func() time.Time { return time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC) }
	return NewExportService(students, events, config.ExportsConfig{Enabled: enabled}, fixed, nil)
}

func TestAtRiskRosterCSV(t *testing.T) {
	className := "7A"
	students := &mockExportStudents{atRisk: []models.AtRiskStudent{
		{Name: "Mina K.", RollNumber: "7A-03", ClassName: &className, RiskStatus: models.RiskCrisis, Streak: 2},
		{Name: "Arjun S.", RollNumber: "7A-12", RiskStatus: models.RiskOrange, Streak: 11},
	}}
	svc := newExportService(students, &mockExportEvents{}, true)

	file, err := svc.AtRiskRoster(context.Background(), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, "at_risk_roster_20260501_103000.csv", file.Filename)

	body := string(file.Data)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Risk Status")
	assert.Contains(t, lines[1], "CRISIS")
	assert.Contains(t, lines[2], "Arjun S.")
}

func TestSafetyEventTrailPDF(t *testing.T) {
	events := &mockExportEvents{events: []models.SafetyEvent{
		{TriggerType: models.TriggerPHQ9Item9, RiskBand: models.BandCrisis, CreatedAt: time.Date(2026, 4, 20, 9, 0, 0, 0, time.UTC)},
	}}
	svc := newExportService(&mockExportStudents{}, events, true)

	file, err := svc.SafetyEventTrail(context.Background(), "prof-1", FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.NotEmpty(t, file.Data)
}

func TestExportsDisabled(t *testing.T) {
	svc := newExportService(&mockExportStudents{}, &mockExportEvents{}, false)

	_, err := svc.AtRiskRoster(context.Background(), FormatCSV)
	require.Error(t, err)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc := newExportService(&mockExportStudents{}, &mockExportEvents{}, true)

	_, err := svc.AtRiskRoster(context.Background(), ExportFormat("xlsx"))
	require.Error(t, err)
}

func TestSafetyEventTrailRequiresStudentID(t *testing.T) {
	svc := newExportService(&mockExportStudents{}, &mockExportEvents{}, true)

	_, err := svc.SafetyEventTrail(context.Background(), "", FormatCSV)
	require.Error(t, err)
}
