package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nefera/wellbeing-api/internal/models"
	appErrors "github.com/nefera/wellbeing-api/pkg/errors"
)

func TestScoreUnknownInstrument(t *testing.T) {
	_, err := Score(models.InstrumentType("MMPI"), []int{1, 2})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidInstrument.Code, appErrors.FromError(err).Code)
}

func TestScorePHQ9Bands(t *testing.T) {
	cases := []struct {
		name    string
		answers []int
		score   int
		band    models.RiskBand
		alert   bool
	}{
		{"all zero", []int{0, 0, 0, 0, 0, 0, 0, 0, 0}, 0, models.BandGreen, false},
		{"mild", []int{1, 1, 1, 1, 1, 0, 0, 0, 0}, 5, models.BandYellow, false},
		{"moderate", []int{2, 2, 2, 2, 2, 0, 0, 0, 0}, 10, models.BandOrange, false},
		{"moderately severe", []int{2, 2, 2, 2, 2, 2, 2, 1, 0}, 15, models.BandRed, false},
		{"severe", []int{3, 3, 3, 3, 3, 3, 3, 2, 0}, 23, models.BandRed, false},
		{"low score with positive item 9", []int{0, 0, 0, 0, 0, 0, 0, 0, 1}, 1, models.BandGreen, true},
		{"high score with positive item 9", []int{3, 3, 3, 3, 3, 3, 3, 3, 3}, 27, models.BandRed, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Score(models.InstrumentPHQ9, tc.answers)
			require.NoError(t, err)
			assert.Equal(t, tc.score, result.Score)
			assert.Equal(t, tc.band, result.Band)
			assert.Equal(t, tc.alert, result.Alert)
		})
	}
}

func TestScorePHQ9PartialAnswersNoAlert(t *testing.T) {
	// Item 9 was never answered, so the alert cannot fire.
	result, err := Score(models.InstrumentPHQ9, []int{3, 3, 3})
	require.NoError(t, err)
	assert.Equal(t, 9, result.Score)
	assert.False(t, result.Alert)
}

func TestScorePHQ9RejectsMalformed(t *testing.T) {
	_, err := Score(models.InstrumentPHQ9, []int{1, -1, 0, 0, 0, 0, 0, 0, 0})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidAnswers.Code, appErrors.FromError(err).Code)

	_, err = Score(models.InstrumentPHQ9, make([]int, 10))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidAnswers.Code, appErrors.FromError(err).Code)
}

func TestScoreGAD7NeverAlerts(t *testing.T) {
	cases := []struct {
		name    string
		answers []int
		score   int
		band    models.RiskBand
	}{
		{"green", []int{0, 1, 0, 1, 0, 1, 0}, 3, models.BandGreen},
		{"mild", []int{1, 1, 1, 1, 1, 1, 1}, 7, models.BandYellow},
		{"moderate", []int{2, 2, 2, 2, 2, 0, 0}, 10, models.BandOrange},
		{"severe", []int{3, 3, 3, 3, 3, 0, 0}, 15, models.BandRed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Score(models.InstrumentGAD7, tc.answers)
			require.NoError(t, err)
			assert.Equal(t, tc.score, result.Score)
			assert.Equal(t, tc.band, result.Band)
			assert.False(t, result.Alert)
		})
	}
}

func TestScoreCSSRSLadder(t *testing.T) {
	cases := []struct {
		name    string
		answers []int
		band    models.RiskBand
		alert   bool
	}{
		{"all zero", []int{0, 0, 0, 0, 0, 0}, models.BandGreen, false},
		{"passive ideation only", []int{1, 0, 0, 0, 0, 0}, models.BandLow, false},
		{"both passive items", []int{1, 1, 0, 0, 0, 0}, models.BandLow, false},
		{"active ideation", []int{1, 1, 1, 0, 0, 0}, models.BandModerate, false},
		{"method without intent", []int{0, 0, 0, 1, 0, 0}, models.BandModerate, false},
		{"intent", []int{0, 0, 0, 0, 1, 0}, models.BandHigh, true},
		{"behavior", []int{0, 0, 0, 0, 0, 1}, models.BandCrisis, true},
		{"passive plus intent is intent", []int{1, 0, 0, 0, 1, 0}, models.BandHigh, true},
		{"active ideation rule wins over behavior", []int{0, 0, 1, 0, 0, 1}, models.BandModerate, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Score(models.InstrumentCSSRS, tc.answers)
			require.NoError(t, err)
			assert.Equal(t, tc.band, result.Band)
			assert.Equal(t, tc.alert, result.Alert)
		})
	}
}

func TestScoreCSSRSMissingTrailingItemsAreZero(t *testing.T) {
	result, err := Score(models.InstrumentCSSRS, []int{1})
	require.NoError(t, err)
	assert.Equal(t, models.BandLow, result.Band)
	assert.Equal(t, 1, result.Score)
}

func TestScoreCSSRSRejectsNonBinary(t *testing.T) {
	_, err := Score(models.InstrumentCSSRS, []int{2, 0, 0, 0, 0, 0})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidAnswers.Code, appErrors.FromError(err).Code)
}
