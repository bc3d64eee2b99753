package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reviewpulse/internal/models"
)

func testRecord() models.LogRecord {
	return models.LogRecord{
		TsISO:     "2026-03-14T17:26:53.589Z",
		Review:    "Great product!",
		Sentiment: "POSITIVE (98.0%)",
		Meta:      `{"userAgent":"test"}`,
	}
}

func TestSendPostsRecord(t *testing.T) {
	var received models.LogRecord
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"success":true,"row":7}`))
	}))
	defer srv.Close()

	c := NewSheetLogClient(srv.URL, time.Second)
	if err := c.Send(context.Background(), testRecord()); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if received != testRecord() {
		t.Errorf("server received %+v", received)
	}
}

func TestSendIgnoresEndpointFailureResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"error":"sheet locked"}`))
	}))
	defer srv.Close()

	// The transport is opaque: a remote failure expressed in the response
	// must not surface as an error.
	c := NewSheetLogClient(srv.URL, time.Second)
	if err := c.Send(context.Background(), testRecord()); err != nil {
		t.Errorf("Send() error = %v, want nil for opaque response", err)
	}
}

func TestSendNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewSheetLogClient(srv.URL, time.Second)
	err := c.Send(context.Background(), testRecord())
	if !errors.Is(err, ErrEndpointUnreachable) {
		t.Errorf("Send() error = %v, want ErrEndpointUnreachable", err)
	}
}
