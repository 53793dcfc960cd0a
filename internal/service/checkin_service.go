package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nefera/wellbeing-api/internal/dto"
	"github.com/nefera/wellbeing-api/internal/models"
	"github.com/nefera/wellbeing-api/internal/scoring"
	appErrors "github.com/nefera/wellbeing-api/pkg/errors"
)

type checkinProfileRepo interface {
	FindProfileByUserID(ctx context.Context, userID string) (*models.StudentRiskProfile, error)
	IncrementStreak(ctx context.Context, id string) error
}

type journalStore interface {
	Create(ctx context.Context, entry *models.JournalEntry) error
	WindowSince(ctx context.Context, studentID string, cutoff time.Time) ([]models.JournalEntry, error)
}

type journalCipher interface {
	Seal(plain string) (string, error)
	Open(sealed string) (string, error)
}

type checkinEscalator interface {
	ApplyJournalEscalation(ctx context.Context, profileID string, mood models.Mood, triage scoring.TriageResult) error
	ScheduleRecompute(profileID string)
}

type checkinMetrics interface {
	CheckinRecorded(mood string)
}

// CheckinService handles the daily check-in use case: triage the
// plaintext, seal it, persist the entry with its derived flags, bump
// the streak, run the immediate escalation rule, then hand the student
// off to the deferred recompute.
type CheckinService struct {
	profiles  checkinProfileRepo
	journals  journalStore
	cipher    journalCipher
	risk      checkinEscalator
	metrics   checkinMetrics
	validator *validator.Validate
	now       func() time.Time
	logger    *zap.Logger
}

// NewCheckinService constructs the service.
func NewCheckinService(
	profiles checkinProfileRepo,
	journals journalStore,
	cipher journalCipher,
	risk checkinEscalator,
	metrics checkinMetrics,
	validate *validator.Validate,
	now func() time.Time,
	logger *zap.Logger,
) *CheckinService {
	if validate == nil {
		validate = validator.New()
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckinService{
		profiles:  profiles,
		journals:  journals,
		cipher:    cipher,
		risk:      risk,
		metrics:   metrics,
		validator: validate,
		now:       now,
		logger:    logger,
	}
}

// CheckIn records a daily entry for the student owning userID.
func (s *CheckinService) CheckIn(ctx context.Context, userID string, req dto.CheckinRequest) (*dto.CheckinResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid check-in payload")
	}
	mood := models.Mood(req.Mood)
	if _, ok := models.KnownMoods[mood]; !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown mood")
	}

	profile, err := s.profiles.FindProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to load student profile")
	}

	// Triage runs on the plaintext; only the sealed copy is stored.
	triage := scoring.Analyze(req.JournalText)

	sealed, err := s.cipher.Seal(req.JournalText)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seal journal text")
	}

	entry := &models.JournalEntry{
		StudentID:              profile.ID,
		EntryAt:                s.now().UTC(),
		Mood:                   mood,
		SleepHours:             req.SleepHours,
		JournalText:            sealed,
		Notes:                  req.Notes,
		TriggerTags:            filterTriggerTags(req.Triggers),
		HasAnxietyTerms:        triage.HasAnxiety,
		HasLowMoodTerms:        triage.HasLowMood,
		HasSelfWorthTerms:      triage.HasSelfWorth,
		HasSevereSuicidalTerms: triage.HasSevere,
	}
	if err := s.journals.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to store journal entry")
	}
	if err := s.profiles.IncrementStreak(ctx, profile.ID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to update streak")
	}

	// Immediate escalation is synchronous and fatal on storage faults:
	// a severe phrase must never be acknowledged without its event.
	if err := s.risk.ApplyJournalEscalation(ctx, profile.ID, mood, triage); err != nil {
		return nil, err
	}

	s.risk.ScheduleRecompute(profile.ID)

	if s.metrics != nil {
		s.metrics.CheckinRecorded(string(mood))
	}

	message, tool := checkinMessage(mood, triage.HasSevere)
	return &dto.CheckinResponse{Message: message, CopingTool: tool}, nil
}

// ListJournals returns the student's own entries for the trailing
// number of days, decrypted.
func (s *CheckinService) ListJournals(ctx context.Context, userID string, days int) ([]dto.JournalEntryOut, error) {
	if days <= 0 || days > 90 {
		days = 14
	}
	profile, err := s.profiles.FindProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to load student profile")
	}

	cutoff := s.now().UTC().AddDate(0, 0, -days)
	entries, err := s.journals.WindowSince(ctx, profile.ID, cutoff)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "failed to load journals")
	}

	out := make([]dto.JournalEntryOut, 0, len(entries))
	for _, e := range entries {
		plain, err := s.cipher.Open(e.JournalText)
		if err != nil {
			s.logger.Error("failed to open sealed journal", zap.String("entry_id", e.ID), zap.Error(err))
			plain = ""
		}
		out = append(out, dto.JournalEntryOut{
			ID:          e.ID,
			EntryAt:     e.EntryAt,
			Mood:        string(e.Mood),
			SleepHours:  e.SleepHours,
			JournalText: plain,
			Notes:       e.Notes,
			Triggers:    e.TriggerTags,
		})
	}
	return out, nil
}

func filterTriggerTags(raw []string) []string {
	var tags []string
	for _, t := range raw {
		if _, ok := models.CheckinTriggerTags[t]; ok {
			tags = append(tags, t)
		}
	}
	return tags
}

func checkinMessage(mood models.Mood, severe bool) (string, string) {
	if severe {
		return "Thank you for sharing such big and heavy feelings. You are not alone and you deserve support. " +
				"If you can, talk to a trusted grown-up (like a parent, teacher, or school helper) about how you feel.",
			"Try this: put your hand on your heart, take 3 slow deep breaths, and think of one safe person you could talk to."
	}

	switch mood {
	case models.MoodHappy:
		return "Awesome day! Noticing good moments helps your brain.", ""
	case models.MoodWorried:
		return "Brave sharing your worries.", "Breathing: inhale nose 1-2-3, exhale mouth 1-2-3-4, do 3 times."
	case models.MoodSad:
		return "Your feelings matter. You are not alone.", "Hand on heart, hug arms, 3 slow deep breaths."
	case models.MoodFlat:
		return "Low energy days are normal.", "Stand, stretch arms high, 3 deep breaths."
	default:
		return "Thanks for checking in.", ""
	}
}
