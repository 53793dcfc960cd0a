package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nefera/wellbeing-api/internal/dto"
	"github.com/nefera/wellbeing-api/internal/models"
	"github.com/nefera/wellbeing-api/internal/scoring"
	appErrors "github.com/nefera/wellbeing-api/pkg/errors"
)

type assessmentProfileReader interface {
	FindProfileByUserID(ctx context.Context, userID string) (*models.StudentRiskProfile, error)
}

type assessmentStore interface {
	Create(ctx context.Context, record *models.AssessmentRecord) error
	ListByStudent(ctx context.Context, studentID string, limit int) ([]models.AssessmentRecord, error)
}

type assessmentEscalator interface {
	ApplyAssessmentEscalation(ctx context.Context, profileID string, instrument models.InstrumentType, result scoring.InstrumentResult, answers []int) error
}

type assessmentMetrics interface {
	AssessmentScored(instrument string, alert bool)
}

// AssessmentService scores questionnaire submissions and feeds the
// outcome into the escalation ladder. Malformed input is rejected at
// the boundary; nothing is written for an invalid instrument or answer
// sequence.
type AssessmentService struct {
	profiles    assessmentProfileReader
	assessments assessmentStore
	risk        assessmentEscalator
	metrics     assessmentMetrics
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAssessmentService constructs the service.
func NewAssessmentService(
	profiles assessmentProfileReader,
	assessments assessmentStore,
	risk assessmentEscalator,
	metrics assessmentMetrics,
	validate *validator.Validate,
	logger *zap.Logger,
) *AssessmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentService{
		profiles:    profiles,
		assessments: assessments,
		risk:        risk,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// Submit scores, persists and escalates one assessment.
func (s *AssessmentService) Submit(ctx context.Context, userID string, req dto.AssessmentRequest) (*dto.AssessmentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assessment payload")
	}

	instrument := models.InstrumentType(req.Type)
	result, err := scoring.Score(instrument, req.Answers)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.FindProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to load student profile")
	}

	answers := make([]int64, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = int64(a)
	}
	record := &models.AssessmentRecord{
		StudentID:  profile.ID,
		Type:       instrument,
		Answers:    answers,
		TotalScore: result.Score,
		IsAlert:    result.Alert,
	}
	if err := s.assessments.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to store assessment")
	}

	if err := s.risk.ApplyAssessmentEscalation(ctx, profile.ID, instrument, result, req.Answers); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.AssessmentScored(string(instrument), result.Alert)
	}

	return &dto.AssessmentResponse{
		Score:          result.Score,
		RiskLevel:      string(result.Band),
		AlertTriggered: result.Alert,
	}, nil
}

// History returns the student's own submissions, newest first.
func (s *AssessmentService) History(ctx context.Context, userID string) ([]dto.AssessmentHistoryItem, error) {
	profile, err := s.profiles.FindProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to load student profile")
	}

	records, err := s.assessments.ListByStudent(ctx, profile.ID, 50)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to load assessments")
	}

	items := make([]dto.AssessmentHistoryItem, 0, len(records))
	for _, r := range records {
		items = append(items, dto.AssessmentHistoryItem{
			ID:         r.ID,
			Type:       string(r.Type),
			TotalScore: r.TotalScore,
			IsAlert:    r.IsAlert,
			CreatedAt:  r.CreatedAt,
		})
	}
	return items, nil
}
