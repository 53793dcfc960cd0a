package scoring

import (
	"github.com/nefera/wellbeing-api/internal/models"
	appErrors "github.com/nefera/wellbeing-api/pkg/errors"
)

// Question counts per instrument.
const (
	PHQ9Questions  = 9
	GAD7Questions  = 7
	CSSRSQuestions = 6
)

// PHQ-9 item 9 (self-harm/suicidality), zero-indexed.
const phq9SuicideItem = 8

// InstrumentResult is the outcome of scoring a single questionnaire in
// isolation. Band is never CRISIS for PHQ-9; crisis decisions belong to
// the state machine, driven by the alert flag.
type InstrumentResult struct {
	Score int             `json:"score"`
	Band  models.RiskBand `json:"band"`
	Alert bool            `json:"alert"`
}

// Score maps a questionnaire's answers to (score, band, alert). Partial
// submissions are allowed: missing trailing answers count as zero. More
// answers than the instrument has questions, or negative values, are
// rejected as malformed.
func Score(instrument models.InstrumentType, answers []int) (InstrumentResult, error) {
	switch instrument {
	case models.InstrumentPHQ9:
		return scorePHQ9(answers)
	case models.InstrumentGAD7:
		return scoreGAD7(answers)
	case models.InstrumentCSSRS:
		return scoreCSSRS(answers)
	default:
		return InstrumentResult{}, appErrors.Clone(appErrors.ErrInvalidInstrument, "unknown assessment instrument: "+string(instrument))
	}
}

func sumAnswers(answers []int, max int) (int, error) {
	if len(answers) > max {
		return 0, appErrors.Clone(appErrors.ErrInvalidAnswers, "too many answers for instrument")
	}
	total := 0
	for _, a := range answers {
		if a < 0 {
			return 0, appErrors.Clone(appErrors.ErrInvalidAnswers, "answers must be non-negative")
		}
		total += a
	}
	return total, nil
}

func scorePHQ9(answers []int) (InstrumentResult, error) {
	score, err := sumAnswers(answers, PHQ9Questions)
	if err != nil {
		return InstrumentResult{}, err
	}

	band := models.BandGreen
	switch {
	case score >= 20:
		band = models.BandRed // severe
	case score >= 15:
		band = models.BandRed // moderately severe
	case score >= 10:
		band = models.BandOrange
	case score >= 5:
		band = models.BandYellow
	}

	// Item 9 alerts independently of the total: a low score with a
	// positive item 9 still alerts.
	alert := len(answers) >= PHQ9Questions && answers[phq9SuicideItem] > 0

	return InstrumentResult{Score: score, Band: band, Alert: alert}, nil
}

func scoreGAD7(answers []int) (InstrumentResult, error) {
	score, err := sumAnswers(answers, GAD7Questions)
	if err != nil {
		return InstrumentResult{}, err
	}

	band := models.BandGreen
	switch {
	case score >= 15:
		band = models.BandRed
	case score >= 10:
		band = models.BandOrange
	case score >= 5:
		band = models.BandYellow
	}

	// GAD-7 is informative only and never escalates on its own.
	return InstrumentResult{Score: score, Band: band, Alert: false}, nil
}

func scoreCSSRS(answers []int) (InstrumentResult, error) {
	if len(answers) > CSSRSQuestions {
		return InstrumentResult{}, appErrors.Clone(appErrors.ErrInvalidAnswers, "too many answers for instrument")
	}
	items := make([]int, CSSRSQuestions)
	score := 0
	for i, a := range answers {
		if a != 0 && a != 1 {
			return InstrumentResult{}, appErrors.Clone(appErrors.ErrInvalidAnswers, "C-SSRS answers must be 0 or 1")
		}
		items[i] = a
		score += a
	}

	// Ordered ladder, first matching rule wins.
	band := models.BandGreen
	switch {
	case score == 0:
		band = models.BandGreen
	case (items[0] == 1 || items[1] == 1) && items[2] == 0 && items[3] == 0 && items[4] == 0 && items[5] == 0:
		band = models.BandLow // passive ideation only
	case items[2] == 1 || items[3] == 1:
		band = models.BandModerate // active ideation
	case items[4] == 1:
		band = models.BandHigh // intent/plan
	case items[5] == 1:
		band = models.BandCrisis // behavior/attempt
	}

	alert := band == models.BandHigh || band == models.BandCrisis

	return InstrumentResult{Score: score, Band: band, Alert: alert}, nil
}
