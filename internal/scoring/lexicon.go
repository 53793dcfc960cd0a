package scoring

// Triage categories. The keys double as match-map keys in TriageResult
// and in JOURNAL_SEVERE safety-event payloads.
const (
	CategorySevereSuicidal = "severe_suicidal"
	CategorySelfWorth      = "self_worth"
	CategoryLowMood        = "low_mood"
	CategoryAnxiety        = "anxiety"
)

// Fixed phrase lists for literal, case-insensitive substring triage.
// This is a lexicon lookup, not NLP: paraphrased distress will not match,
// which is an accepted, documented limitation.
var (
	severeSuicidalTerms = []string{
		"want to die",
		"kill myself",
		"end my life",
		"end it all",
		"suicide",
		"better off dead",
		"hurt myself",
		"self harm",
		"self-harm",
	}

	selfWorthTerms = []string{
		"worthless",
		"useless",
		"hate myself",
		"nobody likes me",
		"no one likes me",
		"i am a failure",
		"i'm a failure",
		"no one cares",
	}

	lowMoodTerms = []string{
		"hopeless",
		"empty inside",
		"crying",
		"cry all the time",
		"miserable",
		"so alone",
		"tired of everything",
		"can't get up",
	}

	anxietyTerms = []string{
		"anxious",
		"anxiety",
		"panic",
		"scared",
		"worried",
		"nervous",
		"can't breathe",
		"overwhelmed",
	}
)
