package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeEmptyText(t *testing.T) {
	result := Analyze("")
	assert.False(t, result.HasSevere)
	assert.False(t, result.HasSelfWorth)
	assert.False(t, result.HasLowMood)
	assert.False(t, result.HasAnxiety)
	assert.Empty(t, result.Matches)
}

func TestAnalyzeSevereSuicidalPhrase(t *testing.T) {
	result := Analyze("I want to die today")
	assert.True(t, result.HasSevere)
	assert.Contains(t, result.Matches[CategorySevereSuicidal], "want to die")
}

func TestAnalyzeCaseInsensitive(t *testing.T) {
	result := Analyze("I feel WORTHLESS and Anxious")
	assert.True(t, result.HasSelfWorth)
	assert.True(t, result.HasAnxiety)
	assert.Contains(t, result.Matches[CategorySelfWorth], "worthless")
	assert.Contains(t, result.Matches[CategoryAnxiety], "anxious")
}

func TestAnalyzeMultipleCategories(t *testing.T) {
	result := Analyze("i am hopeless, i hate myself and i want to end my life")
	assert.True(t, result.HasLowMood)
	assert.True(t, result.HasSelfWorth)
	assert.True(t, result.HasSevere)
	assert.Len(t, result.Matches, 3)
}

func TestAnalyzeRecordsAllMatchesInCategory(t *testing.T) {
	result := Analyze("sometimes i want to die, maybe suicide is the answer")
	assert.ElementsMatch(t, []string{"want to die", "suicide"}, result.Matches[CategorySevereSuicidal])
}

func TestAnalyzeNeutralText(t *testing.T) {
	result := Analyze("had a great day at football practice")
	assert.False(t, result.HasSevere || result.HasSelfWorth || result.HasLowMood || result.HasAnxiety)
	assert.Empty(t, result.Matches)
}
