package demo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reviewpulse/internal/clients"
	"reviewpulse/internal/models"
)

type fakeEngine struct {
	output []models.RawClassification
}

func (f *fakeEngine) ModelID() string { return "fake-model" }
func (f *fakeEngine) Ready() bool     { return true }
func (f *fakeEngine) Classify(_ context.Context, _ string) ([]models.RawClassification, error) {
	return f.output, nil
}

type closableEngine struct {
	fakeEngine
	closed chan struct{}
}

func (c *closableEngine) Close() { close(c.closed) }

type fakeTransport struct {
	sent []models.LogRecord
	err  error
}

func (f *fakeTransport) Send(_ context.Context, record models.LogRecord) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, record)
	return nil
}

func readyServer(transport LogTransport) *Server {
	s := NewServer(transport)
	s.SetDataset([]string{"Great product!"})
	s.SetEngine(&fakeEngine{output: []models.RawClassification{{Label: "POSITIVE", Score: 0.98}}})
	return s
}

func do(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestReadyzGate(t *testing.T) {
	s := NewServer(&fakeTransport{})

	if w := do(s, http.MethodGet, "/readyz", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("fresh server readyz = %d, want 503", w.Code)
	}

	// One of two is not enough.
	s.SetDataset([]string{"a"})
	if w := do(s, http.MethodGet, "/readyz", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("dataset-only readyz = %d, want 503", w.Code)
	}

	s.SetEngine(&fakeEngine{})
	if w := do(s, http.MethodGet, "/readyz", ""); w.Code != http.StatusOK {
		t.Errorf("readyz = %d, want 200", w.Code)
	}
}

func TestCloseEngine(t *testing.T) {
	s := NewServer(&fakeTransport{})
	eng := &closableEngine{closed: make(chan struct{})}

	// SetEngine runs on the startup goroutine in the real service;
	// CloseEngine on the main one. Both go through the server's mutex.
	done := make(chan struct{})
	go func() {
		s.SetEngine(eng)
		close(done)
	}()
	<-done
	s.CloseEngine()

	select {
	case <-eng.closed:
	default:
		t.Error("CloseEngine() did not close the engine")
	}
}

func TestCloseEngineWithoutEngine(t *testing.T) {
	s := NewServer(&fakeTransport{})
	s.CloseEngine() // must not panic with no engine set
}

func TestAnalyzeBeforeReady(t *testing.T) {
	s := NewServer(&fakeTransport{})
	if w := do(s, http.MethodPost, "/api/analyze", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("analyze = %d, want 503", w.Code)
	}
}

func TestStartupFailurePinsGate(t *testing.T) {
	s := NewServer(&fakeTransport{})
	s.SetDataset([]string{"a"})
	s.SetEngine(&fakeEngine{})
	s.FailStartup(context.DeadlineExceeded)

	if w := do(s, http.MethodGet, "/readyz", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("readyz after startup failure = %d, want 503", w.Code)
	}
	if w := do(s, http.MethodPost, "/api/analyze", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("analyze after startup failure = %d, want 503", w.Code)
	}
}

func TestAnalyze(t *testing.T) {
	s := readyServer(&fakeTransport{})

	w := do(s, http.MethodPost, "/api/analyze", "")
	if w.Code != http.StatusOK {
		t.Fatalf("analyze = %d, body %s", w.Code, w.Body.String())
	}

	var resp analyzeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Review != "Great product!" {
		t.Errorf("review = %q", resp.Review)
	}
	if resp.Result.Sentiment != models.SentimentPositive || resp.Result.ConfidencePercent != "98.0" {
		t.Errorf("result = %+v", resp.Result)
	}
	if resp.Timestamp == "" {
		t.Error("timestamp missing")
	}
}

func TestAnalyzeEmptyEngineOutput(t *testing.T) {
	s := NewServer(&fakeTransport{})
	s.SetDataset([]string{"a"})
	s.SetEngine(&fakeEngine{output: nil})

	if w := do(s, http.MethodPost, "/api/analyze", ""); w.Code != http.StatusBadGateway {
		t.Errorf("analyze = %d, want 502 on empty engine output", w.Code)
	}
}

func TestLogWithoutAnalysis(t *testing.T) {
	s := readyServer(&fakeTransport{})
	if w := do(s, http.MethodPost, "/api/log", ""); w.Code != http.StatusConflict {
		t.Errorf("log = %d, want 409 before any analysis", w.Code)
	}
}

func TestLogAfterAnalysis(t *testing.T) {
	transport := &fakeTransport{}
	s := readyServer(transport)

	if w := do(s, http.MethodPost, "/api/analyze", ""); w.Code != http.StatusOK {
		t.Fatalf("analyze = %d", w.Code)
	}

	w := do(s, http.MethodPost, "/api/log", `{"screen":"1280x720","platform":"linux"}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("log = %d, body %s", w.Code, w.Body.String())
	}
	if len(transport.sent) != 1 {
		t.Fatalf("sent %d records, want 1", len(transport.sent))
	}

	record := transport.sent[0]
	if record.Sentiment != "POSITIVE (98.0%)" {
		t.Errorf("sentiment = %q", record.Sentiment)
	}

	var meta models.LogMeta
	if err := json.Unmarshal([]byte(record.Meta), &meta); err != nil {
		t.Fatalf("meta not JSON: %v", err)
	}
	if meta.Screen != "1280x720" || meta.Platform != "linux" {
		t.Errorf("meta = %+v", meta)
	}
	if meta.Model != "fake-model" || meta.ReviewCount != 1 {
		t.Errorf("meta = %+v", meta)
	}
}

func TestLogTransportUnreachable(t *testing.T) {
	s := readyServer(&fakeTransport{err: clients.ErrEndpointUnreachable})

	if w := do(s, http.MethodPost, "/api/analyze", ""); w.Code != http.StatusOK {
		t.Fatalf("analyze = %d", w.Code)
	}
	if w := do(s, http.MethodPost, "/api/log", ""); w.Code != http.StatusBadGateway {
		t.Errorf("log = %d, want 502 when endpoint unreachable", w.Code)
	}
}
