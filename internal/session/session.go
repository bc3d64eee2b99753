package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"reviewpulse/internal/models"
	"reviewpulse/internal/utils"
)

var ErrNoAnalysisAvailable = errors.New("no analysis available to log")

// Analysis is the most recently classified review. The timestamp is the
// classification time, not the logging time; the two may differ when the
// user delays before logging.
type Analysis struct {
	ReviewText   string                 `json:"review_text"`
	Result       models.SentimentResult `json:"result"`
	TimestampISO string                 `json:"timestamp_iso"`
}

// Session holds at most one current Analysis, overwritten on each new
// classification. The mutex guards the concurrent HTTP surface; analyze
// and log are sequential in practice since logging is only offered after
// an analysis exists.
type Session struct {
	mu      sync.Mutex
	current *Analysis
}

func New() *Session {
	return &Session{}
}

// SetCurrent replaces the current analysis, stamping it with the
// classification time.
func (s *Session) SetCurrent(reviewText string, result models.SentimentResult) Analysis {
	analysis := Analysis{
		ReviewText:   reviewText,
		Result:       result,
		TimestampISO: utils.FormatTimestamp(time.Now()),
	}

	s.mu.Lock()
	s.current = &analysis
	s.mu.Unlock()

	return analysis
}

// Current returns a copy of the current analysis, if any.
func (s *Session) Current() (Analysis, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return Analysis{}, false
	}
	return *s.current, true
}

// BuildLogRecord assembles a LogRecord from the current analysis plus
// client environment metadata. Pure construction; nothing is transmitted
// here and the record is immutable once built.
func (s *Session) BuildLogRecord(meta models.ClientMetadata, modelID string, reviewCount int) (models.LogRecord, error) {
	analysis, ok := s.Current()
	if !ok {
		return models.LogRecord{}, ErrNoAnalysisAvailable
	}

	logMeta := models.LogMeta{
		UserAgent:   meta.UserAgent,
		Language:    meta.Language,
		Platform:    meta.Platform,
		Screen:      meta.Screen,
		Model:       modelID,
		LoggedAt:    utils.FormatTimestamp(time.Now()),
		ReviewCount: reviewCount,
		Analysis: models.AnalysisMeta{
			Label:             analysis.Result.Label,
			Score:             analysis.Result.Score,
			Sentiment:         string(analysis.Result.Sentiment),
			ConfidencePercent: analysis.Result.ConfidencePercent,
		},
	}

	metaJSON, err := json.Marshal(logMeta)
	if err != nil {
		return models.LogRecord{}, fmt.Errorf("[Session] failed to marshal meta: %w", err)
	}

	return models.LogRecord{
		TsISO:     analysis.TimestampISO,
		Review:    analysis.ReviewText,
		Sentiment: fmt.Sprintf("%s (%s%%)", analysis.Result.Label, analysis.Result.ConfidencePercent),
		Meta:      string(metaJSON),
	}, nil
}
