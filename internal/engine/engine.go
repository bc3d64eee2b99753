package engine

import (
	"context"
	"errors"

	"reviewpulse/internal/models"
)

// ErrNotReady is returned when a classification is requested before the
// engine finished initializing.
var ErrNotReady = errors.New("inference engine is not ready")

// Engine maps a text to a ranked (descending score) sequence of
// label/confidence pairs. Implementations own model loading and execution.
type Engine interface {
	ModelID() string
	Ready() bool
	Classify(ctx context.Context, text string) ([]models.RawClassification, error)
}
