package sink

import (
	"context"

	"reviewpulse/internal/models"
)

// Store is the backing tabular store for log records. EnsureTable
// provisions the store and its header row on first use; Append adds one
// row and returns its 1-based index (the header counts as row 1, matching
// spreadsheet numbering).
type Store interface {
	EnsureTable(ctx context.Context) error
	Append(ctx context.Context, record models.LogRecord) (int, error)
}

// Deduper suppresses repeat submissions of an identical record.
type Deduper interface {
	Seen(ctx context.Context, record models.LogRecord) bool
	Mark(ctx context.Context, record models.LogRecord) error
}

// Mirror re-publishes appended records onto a stream for downstream
// consumers. Best-effort; mirror failures never fail the append.
type Mirror interface {
	Publish(record models.LogRecord) error
}
