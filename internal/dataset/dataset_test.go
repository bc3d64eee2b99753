package dataset

import (
	"errors"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	csv := "id,text,stars\n" +
		"1,Great product!,5\n" +
		"2,Terrible experience.,1\n" +
		"3,   ,3\n" +
		"4,\"Arrived late, but works\",4\n"

	reviews, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []string{"Great product!", "Terrible experience.", "Arrived late, but works"}
	if len(reviews) != len(want) {
		t.Fatalf("Parse() returned %d reviews, want %d", len(reviews), len(want))
	}
	for i := range want {
		if reviews[i] != want[i] {
			t.Errorf("reviews[%d] = %q, want %q", i, reviews[i], want[i])
		}
	}
}

func TestParseHeaderCaseInsensitive(t *testing.T) {
	reviews, err := Parse(strings.NewReader("Text\nokay I guess\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(reviews) != 1 || reviews[0] != "okay I guess" {
		t.Errorf("Parse() = %v", reviews)
	}
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"no text column", "id,stars\n1,5\n"},
		{"zero valid rows", "text\n\n   \n"},
		{"empty input", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.csv))
			if !errors.Is(err, ErrResourceLoadFailure) {
				t.Errorf("Parse() error = %v, want ErrResourceLoadFailure", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.csv")
	if !errors.Is(err, ErrResourceLoadFailure) {
		t.Errorf("Load() error = %v, want ErrResourceLoadFailure", err)
	}
}

func TestPickRandom(t *testing.T) {
	got, err := PickRandom([]string{"only one"})
	if err != nil {
		t.Fatalf("PickRandom() error = %v", err)
	}
	if got != "only one" {
		t.Errorf("PickRandom() = %q, want %q", got, "only one")
	}
}

func TestPickRandomEmpty(t *testing.T) {
	_, err := PickRandom(nil)
	if !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("PickRandom() error = %v, want ErrEmptyDataset", err)
	}
}

func TestPickRandomMembership(t *testing.T) {
	reviews := []string{"a", "b", "c"}
	for i := 0; i < 50; i++ {
		got, err := PickRandom(reviews)
		if err != nil {
			t.Fatalf("PickRandom() error = %v", err)
		}
		found := false
		for _, r := range reviews {
			if got == r {
				found = true
			}
		}
		if !found {
			t.Fatalf("PickRandom() = %q, not in dataset", got)
		}
	}
}
