package scoring

import "strings"

// TriageResult holds the concern categories matched in a journal text,
// with the verbatim phrases that matched per category. Matching is
// non-exclusive: a text may land in several categories at once.
type TriageResult struct {
	HasAnxiety   bool                `json:"has_anxiety"`
	HasLowMood   bool                `json:"has_low_mood"`
	HasSelfWorth bool                `json:"has_self_worth"`
	HasSevere    bool                `json:"has_severe"`
	Matches      map[string][]string `json:"matches"`
}

// Analyze runs the lexicon triage over free text. It never fails: empty
// or absent text yields an all-false result with no matches.
func Analyze(text string) TriageResult {
	result := TriageResult{Matches: map[string][]string{}}
	if text == "" {
		return result
	}

	lowered := strings.ToLower(text)

	if hits := matchTerms(lowered, severeSuicidalTerms); len(hits) > 0 {
		result.HasSevere = true
		result.Matches[CategorySevereSuicidal] = hits
	}
	if hits := matchTerms(lowered, selfWorthTerms); len(hits) > 0 {
		result.HasSelfWorth = true
		result.Matches[CategorySelfWorth] = hits
	}
	if hits := matchTerms(lowered, lowMoodTerms); len(hits) > 0 {
		result.HasLowMood = true
		result.Matches[CategoryLowMood] = hits
	}
	if hits := matchTerms(lowered, anxietyTerms); len(hits) > 0 {
		result.HasAnxiety = true
		result.Matches[CategoryAnxiety] = hits
	}

	return result
}

func matchTerms(loweredText string, terms []string) []string {
	var hits []string
	for _, term := range terms {
		if strings.Contains(loweredText, term) {
			hits = append(hits, term)
		}
	}
	return hits
}
