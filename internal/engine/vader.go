package engine

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"reviewpulse/internal/models"
)

// Compound-score cutoffs for the three-way label.
const (
	positiveCompound = 0.20
	negativeCompound = -0.20
)

// VaderEngine is the no-model fallback: a lexicon-based analyzer that
// needs no download and is always ready. The compound polarity score is
// mapped to a label at +/-0.20 and its magnitude, clamped to [0,1],
// serves as the confidence.
type VaderEngine struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderEngine() *VaderEngine {
	return &VaderEngine{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (e *VaderEngine) ModelID() string { return "govader" }

func (e *VaderEngine) Ready() bool { return true }

func (e *VaderEngine) Classify(ctx context.Context, text string) ([]models.RawClassification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scores := e.analyzer.PolarityScores(ConvertMarkdownToText(text))

	var label string
	switch {
	case scores.Compound >= positiveCompound:
		label = "POSITIVE"
	case scores.Compound <= negativeCompound:
		label = "NEGATIVE"
	default:
		label = "NEUTRAL"
	}

	confidence := math.Abs(scores.Compound)
	if confidence > 1 {
		confidence = 1
	}

	return []models.RawClassification{{Label: label, Score: confidence}}, nil
}

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// RemoveLinks strips markdown links (keeping the link text) and bare URLs.
func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

// ConvertMarkdownToText flattens markdown reviews to plain text before
// scoring so formatting does not skew the lexicon.
func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := strings.Join(strings.Fields(string(output)), " ")

	return RemoveLinks(plainText)
}
