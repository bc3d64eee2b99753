package utils

import (
	"math"
	"strconv"
	"time"
)

const isoMillis = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t as an ISO-8601 UTC string with millisecond
// precision, e.g. "2026-08-28T14:03:07.512Z".
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

// FormatConfidence converts a [0,1] confidence score to a percentage
// string with exactly one decimal place, e.g. 0.952 -> "95.2".
func FormatConfidence(score float64) string {
	pct := math.Round(score*1000) / 10
	return strconv.FormatFloat(pct, 'f', 1, 64)
}
