package models

// ClientMetadata describes the environment the demo client is running in.
// For the HTTP demo surface these come from request headers plus an
// optional request body override for screen/platform.
type ClientMetadata struct {
	UserAgent string `json:"user_agent"`
	Language  string `json:"language"`
	Platform  string `json:"platform"`
	Screen    string `json:"screen"` // "<width>x<height>"
}

// AnalysisMeta duplicates the current SentimentResult inside the meta blob.
type AnalysisMeta struct {
	Label             string  `json:"label"`
	Score             float64 `json:"score"`
	Sentiment         string  `json:"sentiment"`
	ConfidencePercent string  `json:"confidencePercent"`
}

// LogMeta is serialized to JSON and carried as a single string field on
// the LogRecord. LoggedAt is the transmission time, distinct from the
// record's ts_iso which is the classification time.
type LogMeta struct {
	UserAgent   string       `json:"userAgent"`
	Language    string       `json:"language"`
	Platform    string       `json:"platform"`
	Screen      string       `json:"screen"`
	Model       string       `json:"model"`
	LoggedAt    string       `json:"loggedAt"`
	ReviewCount int          `json:"reviewCount"`
	Analysis    AnalysisMeta `json:"analysis"`
}

// LogRecord is the flat record handed to the log endpoint. It is built on
// demand and forgotten; the transport offers no acknowledgment channel.
type LogRecord struct {
	TsISO     string `json:"ts_iso"`
	Review    string `json:"review"`
	Sentiment string `json:"sentiment"` // "<LABEL> (<confidencePercent>%)"
	Meta      string `json:"meta"`      // serialized LogMeta
}

// SinkAck is the acknowledgment shape the log sink returns. The demo
// client never reads it; it exists for the sink's own callers.
type SinkAck struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Row     int    `json:"row,omitempty"`
}
