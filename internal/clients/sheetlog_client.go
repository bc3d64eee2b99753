package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"reviewpulse/internal/models"
)

// ErrEndpointUnreachable covers network-level failures on log
// transmission. Failures the endpoint expresses in its response are not
// observable: the transport is best-effort and the response is discarded
// unread.
var ErrEndpointUnreachable = errors.New("log endpoint unreachable")

var (
	sheetLogInstance *SheetLogClient
	sheetLogOnce     sync.Once
)

// SheetLogClient transmits log records to the spreadsheet-backed log
// endpoint. One POST per record, no retry, no read-back confirmation.
type SheetLogClient struct {
	Client   *http.Client
	Endpoint string
}

func NewSheetLogClient(endpoint string, timeout time.Duration) *SheetLogClient {
	return &SheetLogClient{
		Client:   &http.Client{Timeout: timeout},
		Endpoint: endpoint,
	}
}

func GetSheetLogClient() *SheetLogClient {
	var timeout time.Duration
	env := os.Getenv("APP_ENV")
	if env == "production" {
		timeout = PROD_SEND_TIMEOUT
	} else {
		timeout = DEV_SEND_TIMEOUT
	}
	sheetLogOnce.Do(func() {
		endpoint := os.Getenv("LOG_ENDPOINT")
		if endpoint == "" {
			endpoint = DEFAULT_LOG_ENDPOINT
		}
		slog.Info("[SheetLogClient] Initializing Client",
			slog.String("endpoint", endpoint),
			slog.Duration("timeout", timeout),
			slog.String("env", env))
		sheetLogInstance = NewSheetLogClient(endpoint, timeout)
	})
	return sheetLogInstance
}

// Send posts one record and forgets it. Only a network-level failure is
// reported; the response body and status are intentionally ignored to
// preserve the unconfirmed-delivery contract.
func (c *SheetLogClient) Send(ctx context.Context, record models.LogRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("[SheetLogClient] failed to marshal record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("[SheetLogClient] failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", USER_AGENT)

	start := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		slog.Error("[SheetLogClient] Transmission failed",
			slog.String("endpoint", c.Endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", ErrEndpointUnreachable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	slog.Info("[SheetLogClient] Record transmitted (unconfirmed)",
		slog.Duration("elapsed", time.Since(start)))
	return nil
}
