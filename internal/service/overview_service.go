package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nefera/wellbeing-api/internal/dto"
	"github.com/nefera/wellbeing-api/internal/models"
	"github.com/nefera/wellbeing-api/pkg/config"
	appErrors "github.com/nefera/wellbeing-api/pkg/errors"
)

type overviewStudentRepo interface {
	FindProfileByID(ctx context.Context, id string) (*models.StudentRiskProfile, error)
	FindProfileByUserID(ctx context.Context, userID string) (*models.StudentRiskProfile, error)
	ListAtRisk(ctx context.Context) ([]models.AtRiskStudent, error)
	RiskZoneCounts(ctx context.Context, classID string) (*models.RiskZoneCounts, error)
}

type overviewUserReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type overviewJournalReader interface {
	WindowSince(ctx context.Context, studentID string, cutoff time.Time) ([]models.JournalEntry, error)
	MoodCountsSince(ctx context.Context, classID string, cutoff time.Time) (map[models.Mood]int, error)
}

type overviewAssessmentReader interface {
	ListByStudent(ctx context.Context, studentID string, limit int) ([]models.AssessmentRecord, error)
}

type overviewEventReader interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.SafetyEvent, error)
}

type overviewCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, key string)
}

// ContactSchoolStatus is what parents see in place of CRISIS. The raw
// classification stays inside the school.
const ContactSchoolStatus = "CONTACT_SCHOOL"

const (
	schoolOverviewCacheKey  = "overview:school"
	classSnapshotCacheKeyFn = "overview:class:%s"

	detailMoodWindowDays  = 14
	detailAssessmentLimit = 10
	snapshotWindowDays    = 7
)

// OverviewService builds the role-scoped read models: the counselor
// roster and student detail, the principal school overview, the teacher
// class snapshot and the masked parent view.
type OverviewService struct {
	students    overviewStudentRepo
	users       overviewUserReader
	journals    overviewJournalReader
	assessments overviewAssessmentReader
	events      overviewEventReader
	cache       overviewCache
	config      config.OverviewConfig
	now         func() time.Time
	logger      *zap.Logger
}

// NewOverviewService constructs an OverviewService instance.
func NewOverviewService(
	students overviewStudentRepo,
	users overviewUserReader,
	journals overviewJournalReader,
	assessments overviewAssessmentReader,
	events overviewEventReader,
	cache overviewCache,
	cfg config.OverviewConfig,
	now func() time.Time,
	logger *zap.Logger,
) *OverviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &OverviewService{
		students:    students,
		users:       users,
		journals:    journals,
		assessments: assessments,
		events:      events,
		cache:       cache,
		config:      cfg,
		now:         now,
		logger:      logger,
	}
}

// AtRiskRoster returns every student currently in ORANGE, RED or CRISIS,
// most severe first.
func (s *OverviewService) AtRiskRoster(ctx context.Context) ([]models.AtRiskStudent, error) {
	roster, err := s.students.ListAtRisk(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to list at-risk students")
	}
	return roster, nil
}

// StudentDetail assembles the counselor's single-student view: identity,
// current status, recent mood timeline, assessment history and the full
// safety event trail.
func (s *OverviewService) StudentDetail(ctx context.Context, profileID string) (*dto.StudentDetail, error) {
	profile, err := s.students.FindProfileByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to fetch student profile")
	}

	user, err := s.users.FindByID(ctx, profile.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to fetch student identity")
	}

	cutoff := s.now().AddDate(0, 0, -detailMoodWindowDays)
	entries, err := s.journals.WindowSince(ctx, profile.ID, cutoff)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to fetch mood timeline")
	}

	records, err := s.assessments.ListByStudent(ctx, profile.ID, detailAssessmentLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to fetch assessment history")
	}

	trail, err := s.events.ListByStudent(ctx, profile.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to fetch safety events")
	}

	detail := &dto.StudentDetail{
		ID:           profile.ID,
		Name:         user.FullName,
		Email:        user.Email,
		RollNumber:   profile.RollNumber,
		ClassName:    profile.ClassName,
		RiskStatus:   profile.RiskStatus,
		StreakCount:  profile.StreakCount,
		RecentMoods:  make([]dto.MoodPoint, 0, len(entries)),
		Assessments:  make([]dto.AssessmentHistoryItem, 0, len(records)),
		SafetyEvents: trail,
	}
	for _, entry := range entries {
		detail.RecentMoods = append(detail.RecentMoods, dto.MoodPoint{
			ID:         entry.ID,
			EntryAt:    entry.EntryAt,
			Mood:       string(entry.Mood),
			SleepHours: entry.SleepHours,
		})
	}
	for _, rec := range records {
		detail.Assessments = append(detail.Assessments, dto.AssessmentHistoryItem{
			ID:         rec.ID,
			Type:       string(rec.Type),
			TotalScore: rec.TotalScore,
			IsAlert:    rec.IsAlert,
			CreatedAt:  rec.CreatedAt,
		})
	}
	return detail, nil
}

// SchoolOverview returns the principal's school-wide zone counts. The
// snapshot is cached briefly; counts lag live writes by at most the TTL.
func (s *OverviewService) SchoolOverview(ctx context.Context) (*dto.SchoolOverview, error) {
	if s.cacheEnabled() {
		var cached dto.SchoolOverview
		if err := s.cache.Get(ctx, schoolOverviewCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	counts, err := s.students.RiskZoneCounts(ctx, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to aggregate risk zones")
	}

	overview := &dto.SchoolOverview{
		TotalStudents: counts.Total(),
		RiskZones:     *counts,
	}
	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, schoolOverviewCacheKey, overview, s.config.CacheTTL); err != nil {
			s.logger.Warn("failed to cache school overview", zap.Error(err))
		}
	}
	return overview, nil
}

// ClassSnapshot returns the teacher's per-class mood distribution over
// the last week together with the class risk zone counts.
func (s *OverviewService) ClassSnapshot(ctx context.Context, classID string) (*dto.ClassSnapshot, error) {
	if classID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class id is required")
	}

	cacheKey := fmt.Sprintf(classSnapshotCacheKeyFn, classID)
	if s.cacheEnabled() {
		var cached dto.ClassSnapshot
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	cutoff := s.now().AddDate(0, 0, -snapshotWindowDays)
	moods, err := s.journals.MoodCountsSince(ctx, classID, cutoff)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to aggregate class moods")
	}

	counts, err := s.students.RiskZoneCounts(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to aggregate class risk zones")
	}

	snapshot := &dto.ClassSnapshot{
		ClassID:    classID,
		MoodCounts: make(map[string]int, len(moods)),
		RiskZones:  *counts,
	}
	for mood, count := range moods {
		snapshot.MoodCounts[string(mood)] = count
	}
	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, cacheKey, snapshot, s.config.CacheTTL); err != nil {
			s.logger.Warn("failed to cache class snapshot", zap.String("class_id", classID), zap.Error(err))
		}
	}
	return snapshot, nil
}

// ParentView returns the guarded summary for a parent's linked child.
// CRISIS is masked as CONTACT_SCHOOL with a note to reach the school.
func (s *OverviewService) ParentView(ctx context.Context, parentUserID string) (*dto.ParentView, error) {
	parent, err := s.users.FindByID(ctx, parentUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to fetch account")
	}
	if parent.ChildProfileID == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no linked student")
	}

	profile, err := s.students.FindProfileByID(ctx, *parent.ChildProfileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "linked student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to fetch linked student")
	}

	child, err := s.users.FindByID(ctx, profile.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to fetch student identity")
	}

	view := &dto.ParentView{
		StudentName: child.FullName,
		RiskStatus:  string(profile.RiskStatus),
		StreakCount: profile.StreakCount,
	}
	if profile.RiskStatus == models.RiskCrisis {
		view.RiskStatus = ContactSchoolStatus
		view.RiskStatusNote = "Please contact the school counselor as soon as possible."
	}
	return view, nil
}

// InvalidateOverviewCaches drops the cached aggregates after a status
// change so role views converge quickly.
func (s *OverviewService) InvalidateOverviewCaches(ctx context.Context, classID *string) {
	if !s.cacheEnabled() {
		return
	}
	s.cache.Invalidate(ctx, schoolOverviewCacheKey)
	if classID != nil && *classID != "" {
		s.cache.Invalidate(ctx, fmt.Sprintf(classSnapshotCacheKeyFn, *classID))
	}
}

func (s *OverviewService) cacheEnabled() bool {
	return s.config.Enabled && s.cache != nil
}
