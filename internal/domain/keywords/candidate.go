package keywords

// KeywordSource identifies which pipeline pool produced a candidate.
type KeywordSource string

const (
	// SourceVerified is an opportunity-mined keyword the site already ranks
	// for (position 11-50).
	SourceVerified KeywordSource = "verified"
	// SourceGenerated came out of the keyword-ideas API.
	SourceGenerated KeywordSource = "generated"
	// SourceCustom was declared on the business profile.
	SourceCustom KeywordSource = "custom"
)

type KeywordDifficulty string

const (
	DifficultyLow    KeywordDifficulty = "Low"
	DifficultyMedium KeywordDifficulty = "Medium"
	DifficultyHigh   KeywordDifficulty = "High"
)

type KeywordIntent string

const (
	IntentTransactional KeywordIntent = "Transactional"
	IntentInformational KeywordIntent = "Informational"
)

// CandidateKeyword is the common shape across the three pools.
// Analytics fields are only populated for verified candidates.
type CandidateKeyword struct {
	Text             string        `json:"text"`
	Source           KeywordSource `json:"source"`
	Volume           int64         `json:"volume"`
	CompetitionIndex int           `json:"competition_index"`
	Competition      string        `json:"competition,omitempty"`
	LowBidMicros     int64         `json:"low_bid_micros,omitempty"`
	HighBidMicros    int64         `json:"high_bid_micros,omitempty"`

	// Set when the candidate clears the stricter volume floor.
	MeetsPrimaryThreshold bool `json:"meets_primary_threshold,omitempty"`

	Position    float64 `json:"position,omitempty"`
	Clicks      int64   `json:"clicks,omitempty"`
	Impressions int64   `json:"impressions,omitempty"`
}

// ProcessedKeyword is a merged, scored candidate ready for persistence.
type ProcessedKeyword struct {
	Text        string            `json:"text"`
	Source      KeywordSource     `json:"source"`
	Volume      int64             `json:"volume"`
	Difficulty  KeywordDifficulty `json:"difficulty"`
	Intent      KeywordIntent     `json:"intent"`
	KeywordType string            `json:"keyword_type"`
	Score       float64           `json:"score"`
}

// ValidationVerdict is the strict contract expected back from the text
// model: explicit index sets plus free-text feedback.
type ValidationVerdict struct {
	Valid    []int  `json:"valid"`
	Invalid  []int  `json:"invalid"`
	Feedback string `json:"feedback"`
}

// PassRate is valid/(valid+invalid). An empty verdict passes.
func (v ValidationVerdict) PassRate() float64 {
	total := len(v.Valid) + len(v.Invalid)
	if total == 0 {
		return 1.0
	}
	return float64(len(v.Valid)) / float64(total)
}
