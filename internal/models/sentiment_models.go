package models

// Sentiment is the normalized three-way judgment derived from a
// classification label and its confidence score.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// RawClassification is one (label, score) pair as returned by an
// inference engine. Scores are model confidence in [0,1].
type RawClassification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// SentimentResult is immutable once built; the label keeps the engine's
// original casing while sentiment derivation compares it case-insensitively.
type SentimentResult struct {
	Label             string    `json:"label"`
	Score             float64   `json:"score"`
	Sentiment         Sentiment `json:"sentiment"`
	ConfidencePercent string    `json:"confidence_percent"`
}
