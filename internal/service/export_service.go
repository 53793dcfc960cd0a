package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/nefera/wellbeing-api/internal/models"
	"github.com/nefera/wellbeing-api/pkg/config"
	appErrors "github.com/nefera/wellbeing-api/pkg/errors"
	"github.com/nefera/wellbeing-api/pkg/export"
)

type exportStudentRepo interface {
	ListAtRisk(ctx context.Context) ([]models.AtRiskStudent, error)
}

type exportEventRepo interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.SafetyEvent, error)
}

// ExportFormat identifies a supported file rendering.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportFile is a rendered export ready for download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders counselor datasets into downloadable files.
type ExportService struct {
	students exportStudentRepo
	events   exportEventRepo
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	config   config.ExportsConfig
	now      func() time.Time
	logger   *zap.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(
	students exportStudentRepo,
	events exportEventRepo,
	cfg config.ExportsConfig,
	now func() time.Time,
	logger *zap.Logger,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &ExportService{
		students: students,
		events:   events,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		config:   cfg,
		now:      now,
		logger:   logger,
	}
}

// AtRiskRoster renders the current at-risk roster in the requested format.
func (s *ExportService) AtRiskRoster(ctx context.Context, format ExportFormat) (*ExportFile, error) {
	if !s.config.Enabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "exports are disabled")
	}

	roster, err := s.students.ListAtRisk(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to list at-risk students")
	}

	data := export.Dataset{
		Headers: []string{"Name", "Roll Number", "Class", "Risk Status", "Check-in Streak"},
		Rows:    make([]map[string]string, 0, len(roster)),
	}
	for _, row := range roster {
		className := ""
		if row.ClassName != nil {
			className = *row.ClassName
		}
		data.Rows = append(data.Rows, map[string]string{
			"Name":            row.Name,
			"Roll Number":     row.RollNumber,
			"Class":           className,
			"Risk Status":     string(row.RiskStatus),
			"Check-in Streak": strconv.Itoa(row.Streak),
		})
	}

	return s.render(data, format, "at_risk_roster", "At-Risk Students")
}

// SafetyEventTrail renders one student's safety event history in the
// requested format.
func (s *ExportService) SafetyEventTrail(ctx context.Context, studentID string, format ExportFormat) (*ExportFile, error) {
	if !s.config.Enabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "exports are disabled")
	}
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}

	trail, err := s.events.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to list safety events")
	}

	data := export.Dataset{
		Headers: []string{"Recorded At", "Trigger", "Risk Band"},
		Rows:    make([]map[string]string, 0, len(trail)),
	}
	for _, event := range trail {
		data.Rows = append(data.Rows, map[string]string{
			"Recorded At": event.CreatedAt.Format(time.RFC3339),
			"Trigger":     string(event.TriggerType),
			"Risk Band":   string(event.RiskBand),
		})
	}

	return s.render(data, format, "safety_events", "Safety Event Trail")
}

func (s *ExportService) render(data export.Dataset, format ExportFormat, stem, title string) (*ExportFile, error) {
	stamp := s.now().Format("20060102_150405")
	switch format {
	case FormatCSV:
		payload, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("%s_%s.csv", stem, stamp),
			ContentType: "text/csv",
			Data:        payload,
		}, nil
	case FormatPDF:
		payload, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("%s_%s.pdf", stem, stamp),
			ContentType: "application/pdf",
			Data:        payload,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}
