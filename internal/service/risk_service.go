package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nefera/wellbeing-api/internal/models"
	"github.com/nefera/wellbeing-api/internal/repository"
	"github.com/nefera/wellbeing-api/internal/scoring"
	"github.com/nefera/wellbeing-api/pkg/config"
	appErrors "github.com/nefera/wellbeing-api/pkg/errors"
	"github.com/nefera/wellbeing-api/pkg/jobs"
)

type riskProfileReader interface {
	FindProfileByID(ctx context.Context, id string) (*models.StudentRiskProfile, error)
}

type escalationStore interface {
	Apply(ctx context.Context, change repository.EscalationChange) (bool, error)
	SetStatusUnlessCrisis(ctx context.Context, studentID string, target models.RiskStatus) (bool, error)
}

type journalWindowReader interface {
	WindowSince(ctx context.Context, studentID string, cutoff time.Time) ([]models.JournalEntry, error)
}

type recomputeScheduler interface {
	Enqueue(job jobs.Job) error
}

type riskMetrics interface {
	EscalationApplied(trigger string)
	RecomputeObserved(outcome string, duration time.Duration)
}

// RiskService is the risk state machine. It owns every write to
// StudentRiskProfile.risk_status: the per-instrument immediate
// escalation ladder, the rolling-window recompute and the counselor
// override all funnel through here.
//
// The ladder is deliberately a hand-ordered set of per-band rules, not
// a generic max(status, candidate) reduction: C-SSRS LOW raises only
// GREEN/ORANGE profiles while PHQ-9 RED is blocked only by CRISIS.
type RiskService struct {
	profiles  riskProfileReader
	store     escalationStore
	journals  journalWindowReader
	scheduler recomputeScheduler
	metrics   riskMetrics
	cfg       config.RiskConfig
	now       func() time.Time
	logger    *zap.Logger
}

// RecomputeJobType tags recompute jobs on the background queue.
const RecomputeJobType = "risk_recompute"

// NewRiskService constructs the state machine. The clock is injected so
// window cutoffs are testable; pass nil for time.Now.
func NewRiskService(
	profiles riskProfileReader,
	store escalationStore,
	journals journalWindowReader,
	scheduler recomputeScheduler,
	metrics riskMetrics,
	cfg config.RiskConfig,
	now func() time.Time,
	logger *zap.Logger,
) *RiskService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 7
	}
	if cfg.WorriedOrange <= 0 {
		cfg.WorriedOrange = 3
	}
	if cfg.SadFlatOrange <= 0 {
		cfg.SadFlatOrange = 3
	}
	if cfg.SadFlatRed <= 0 {
		cfg.SadFlatRed = 5
	}
	return &RiskService{
		profiles:  profiles,
		store:     store,
		journals:  journals,
		scheduler: scheduler,
		metrics:   metrics,
		cfg:       cfg,
		now:       now,
		logger:    logger,
	}
}

// ApplyJournalEscalation runs the synchronous check-in rule: a severe
// suicidal phrase sets CRISIS unconditionally and records the
// JOURNAL_SEVERE event in the same transaction.
func (s *RiskService) ApplyJournalEscalation(ctx context.Context, profileID string, mood models.Mood, triage scoring.TriageResult) error {
	if !triage.HasSevere {
		return nil
	}

	change := repository.EscalationChange{
		StudentID: profileID,
		Events: []models.SafetyEvent{{
			StudentID:   profileID,
			TriggerType: models.TriggerJournalSevere,
			RiskBand:    models.BandCrisis,
			Details: models.EventDetails{JournalSevere: &models.JournalSevereDetails{
				Matches: triage.Matches,
				Mood:    mood,
				Source:  "daily_checkin",
			}},
		}},
		Target: models.RiskCrisis,
		Guard:  repository.GuardNone,
	}
	if _, err := s.store.Apply(ctx, change); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "journal escalation failed")
	}

	s.observeEscalation(string(models.TriggerJournalSevere))
	s.logger.Warn("journal severe escalation",
		zap.String("student_id", profileID),
		zap.String("trigger", string(models.TriggerJournalSevere)))
	return nil
}

// ApplyAssessmentEscalation runs the per-instrument ladder after an
// assessment has been scored and stored.
func (s *RiskService) ApplyAssessmentEscalation(ctx context.Context, profileID string, instrument models.InstrumentType, result scoring.InstrumentResult, answers []int) error {
	var change repository.EscalationChange
	change.StudentID = profileID
	trigger := ""

	switch instrument {
	case models.InstrumentPHQ9:
		if result.Alert {
			item9 := 0
			if len(answers) >= scoring.PHQ9Questions {
				item9 = answers[scoring.PHQ9Questions-1]
			}
			change.Events = append(change.Events, models.SafetyEvent{
				StudentID:   profileID,
				TriggerType: models.TriggerPHQ9Item9,
				RiskBand:    models.BandCrisis,
				Details: models.EventDetails{PHQ9: &models.PHQ9AlertDetails{
					Item9Score:         item9,
					TotalScore:         result.Score,
					DepressionSeverity: result.Band,
				}},
			})
			change.Target = models.RiskCrisis
			change.Guard = repository.GuardNone
			trigger = string(models.TriggerPHQ9Item9)
		} else if result.Band == models.BandRed {
			change.Target = models.RiskRed
			change.Guard = repository.GuardNotCrisis
			trigger = "PHQ9_RED"
		}

	case models.InstrumentCSSRS:
		// Every non-GREEN C-SSRS result is audited even when the status
		// write is blocked by the guard.
		if result.Band != models.BandGreen {
			change.Events = append(change.Events, models.SafetyEvent{
				StudentID:   profileID,
				TriggerType: models.TriggerCSSRS,
				RiskBand:    result.Band,
				Details:     models.EventDetails{CSSRS: &models.CSSRSDetails{Answers: answers}},
			})
			trigger = string(models.TriggerCSSRS)
		}
		switch result.Band {
		case models.BandHigh, models.BandCrisis:
			change.Target = models.RiskCrisis
			change.Guard = repository.GuardNone
		case models.BandModerate:
			change.Target = models.RiskRed
			change.Guard = repository.GuardNotCrisis
		case models.BandLow:
			change.Target = models.RiskOrange
			change.Guard = repository.GuardBelowRed
		}

	case models.InstrumentGAD7:
		// Informative only, never a transition.
		return nil
	}

	if len(change.Events) == 0 && change.Target == "" {
		return nil
	}

	changed, err := s.store.Apply(ctx, change)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "assessment escalation failed")
	}

	if trigger != "" {
		s.observeEscalation(trigger)
	}
	if changed {
		s.logger.Warn("assessment escalation applied",
			zap.String("student_id", profileID),
			zap.String("instrument", string(instrument)),
			zap.String("band", string(result.Band)),
			zap.String("target", string(change.Target)))
	}
	return nil
}

// Override is the counselor clinical override, the single permitted
// path out of CRISIS. The audit event and the write share a transaction.
func (s *RiskService) Override(ctx context.Context, profileID, counselorID string, target models.RiskStatus, reason string) (*models.StudentRiskProfile, error) {
	if !target.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown risk status")
	}

	profile, err := s.profiles.FindProfileByID(ctx, profileID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "student not found")
	}

	change := repository.EscalationChange{
		StudentID: profileID,
		Events: []models.SafetyEvent{{
			StudentID:   profileID,
			TriggerType: models.TriggerManualOverride,
			RiskBand:    models.RiskBand(target),
			Details: models.EventDetails{Override: &models.OverrideDetails{
				PreviousStatus: profile.RiskStatus,
				NewStatus:      target,
				CounselorID:    counselorID,
				Reason:         reason,
			}},
		}},
		Target: target,
		Guard:  repository.GuardNone,
	}
	if _, err := s.store.Apply(ctx, change); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "override failed")
	}

	s.logger.Info("clinical override",
		zap.String("student_id", profileID),
		zap.String("counselor_id", counselorID),
		zap.String("from", string(profile.RiskStatus)),
		zap.String("to", string(target)))

	profile.RiskStatus = target
	return profile, nil
}

// ScheduleRecompute enqueues a deferred window recompute. Fire and
// forget: a full queue or stopped scheduler is logged, never surfaced
// to the caller, because the check-in itself already committed.
func (s *RiskService) ScheduleRecompute(profileID string) {
	if s.scheduler == nil {
		return
	}
	payload, _ := json.Marshal(profileID)
	err := s.scheduler.Enqueue(jobs.Job{
		Type:    RecomputeJobType,
		Payload: json.RawMessage(payload),
	})
	if err != nil {
		s.logger.Error("failed to schedule risk recompute",
			zap.String("student_id", profileID), zap.Error(err))
	}
}

// RecomputeHandler adapts Recompute to the background queue contract.
func (s *RiskService) RecomputeHandler() jobs.Handler {
	return func(ctx context.Context, job jobs.Job) error {
		raw, ok := job.Payload.(json.RawMessage)
		if !ok {
			return fmt.Errorf("unexpected recompute payload %T", job.Payload)
		}
		var profileID string
		if err := json.Unmarshal(raw, &profileID); err != nil {
			return fmt.Errorf("decode recompute payload: %w", err)
		}
		return s.Recompute(ctx, profileID)
	}
}

// Recompute re-derives the status from the trailing window. Unlike the
// immediate ladder this is a full overwrite and may lower a non-CRISIS
// status as calm days accumulate; the CRISIS floor alone never decays.
// Re-running against unchanged history yields the same status.
func (s *RiskService) Recompute(ctx context.Context, profileID string) error {
	start := s.now()

	profile, err := s.profiles.FindProfileByID(ctx, profileID)
	if err != nil {
		s.observeRecompute("error", s.now().Sub(start))
		return fmt.Errorf("recompute read profile: %w", err)
	}
	if profile.RiskStatus == models.RiskCrisis {
		s.observeRecompute("crisis_floor", s.now().Sub(start))
		return nil
	}

	cutoff := s.now().UTC().AddDate(0, 0, -s.cfg.WindowDays)
	entries, err := s.journals.WindowSince(ctx, profileID, cutoff)
	if err != nil {
		s.observeRecompute("error", s.now().Sub(start))
		return fmt.Errorf("recompute window: %w", err)
	}

	target := s.deriveWindowTarget(entries)

	changed, err := s.store.SetStatusUnlessCrisis(ctx, profileID, target)
	if err != nil {
		s.observeRecompute("error", s.now().Sub(start))
		return fmt.Errorf("recompute write: %w", err)
	}

	s.observeRecompute("ok", s.now().Sub(start))
	if changed && target != profile.RiskStatus {
		s.logger.Info("risk recompute updated status",
			zap.String("student_id", profileID),
			zap.String("from", string(profile.RiskStatus)),
			zap.String("to", string(target)),
			zap.Int("window_entries", len(entries)))
	}
	return nil
}

func (s *RiskService) deriveWindowTarget(entries []models.JournalEntry) models.RiskStatus {
	worriedDays := 0
	sadFlatDays := 0
	for _, e := range entries {
		if e.HasSevereSuicidalTerms {
			return models.RiskCrisis
		}
		switch e.Mood {
		case models.MoodWorried:
			worriedDays++
		case models.MoodSad, models.MoodFlat:
			sadFlatDays++
		}
	}

	target := models.RiskGreen
	if worriedDays >= s.cfg.WorriedOrange {
		target = models.RiskOrange
	}
	if sadFlatDays >= s.cfg.SadFlatOrange {
		if sadFlatDays >= s.cfg.SadFlatRed {
			target = models.RiskRed
		} else if target != models.RiskRed {
			target = models.RiskOrange
		}
	}
	return target
}

func (s *RiskService) observeEscalation(trigger string) {
	if s.metrics != nil {
		s.metrics.EscalationApplied(trigger)
	}
}

func (s *RiskService) observeRecompute(outcome string, d time.Duration) {
	if s.metrics != nil {
		s.metrics.RecomputeObserved(outcome, d)
	}
}
