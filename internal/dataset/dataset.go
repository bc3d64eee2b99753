package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strings"
)

var (
	ErrEmptyDataset        = errors.New("dataset is empty")
	ErrResourceLoadFailure = errors.New("failed to load dataset")
)

// Load reads a CSV review dataset from disk. The file must carry a header
// row with at least a "text" column; rows are trimmed and blank ones are
// dropped. A missing file or a file with zero usable rows both count as a
// load failure, which keeps the analyze action disabled.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResourceLoadFailure, err)
	}
	defer f.Close()

	reviews, err := Parse(f)
	if err != nil {
		return nil, err
	}

	slog.Info("[Dataset] Loaded reviews",
		slog.String("path", path),
		slog.Int("count", len(reviews)))
	return reviews, nil
}

// Parse extracts the "text" column from CSV data.
func Parse(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrResourceLoadFailure, err)
	}

	textCol := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "text") {
			textCol = i
			break
		}
	}
	if textCol == -1 {
		return nil, fmt.Errorf("%w: no text column in header", ErrResourceLoadFailure)
	}

	var reviews []string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrResourceLoadFailure, err)
		}
		if textCol >= len(record) {
			continue
		}
		text := strings.TrimSpace(record[textCol])
		if text == "" {
			continue
		}
		reviews = append(reviews, text)
	}

	if len(reviews) == 0 {
		return nil, fmt.Errorf("%w: zero valid rows", ErrResourceLoadFailure)
	}
	return reviews, nil
}

// PickRandom returns one review selected uniformly at random. This is the
// only place randomness enters the system; there is no seeding or
// reproducibility requirement.
func PickRandom(reviews []string) (string, error) {
	if len(reviews) == 0 {
		return "", ErrEmptyDataset
	}
	return reviews[rand.Intn(len(reviews))], nil
}
