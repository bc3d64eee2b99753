package sentiment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"reviewpulse/internal/engine"
	"reviewpulse/internal/models"
	"reviewpulse/internal/utils"
)

var (
	ErrInvalidInput        = errors.New("text to classify is empty")
	ErrInvalidEngineOutput = errors.New("engine returned no classifications")
)

// scoreThreshold is strictly exceeded before a positive/negative label is
// trusted; at or below it the result is neutral regardless of label.
const scoreThreshold = 0.5

// Classify runs one inference and normalizes the highest-confidence entry
// into a three-way sentiment. The engine's ranked output is taken as-is;
// an empty result is surfaced as an error rather than defaulted, since a
// silent default would corrupt the classification contract.
func Classify(ctx context.Context, text string, eng engine.Engine) (models.SentimentResult, error) {
	var result models.SentimentResult

	if strings.TrimSpace(text) == "" {
		return result, ErrInvalidInput
	}
	if !eng.Ready() {
		return result, engine.ErrNotReady
	}

	ranked, err := eng.Classify(ctx, text)
	if err != nil {
		return result, fmt.Errorf("[Classifier] inference failed: %w", err)
	}
	if len(ranked) == 0 {
		return result, ErrInvalidEngineOutput
	}

	primary := ranked[0]
	result = models.SentimentResult{
		Label:             primary.Label,
		Score:             primary.Score,
		Sentiment:         deriveSentiment(primary.Label, primary.Score),
		ConfidencePercent: utils.FormatConfidence(primary.Score),
	}
	return result, nil
}

// deriveSentiment compares the label case-insensitively; the stored label
// keeps its original case.
func deriveSentiment(label string, score float64) models.Sentiment {
	upper := strings.ToUpper(label)
	switch {
	case strings.Contains(upper, "POSITIVE") && score > scoreThreshold:
		return models.SentimentPositive
	case strings.Contains(upper, "NEGATIVE") && score > scoreThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}
