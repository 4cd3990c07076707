package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/camlabs/cambench/internal/collector"
)

const commandTimeout = 5 * time.Second

// HTTPSender dispatches control commands as JSON POSTs against the
// firmware's /control endpoint and reports the measured round-trip
// time.
type HTTPSender struct {
	log    *slog.Logger
	url    string
	client *http.Client
}

func NewHTTPSender(log *slog.Logger, url string) *HTTPSender {
	return &HTTPSender{
		log:    log,
		url:    url,
		client: &http.Client{Timeout: commandTimeout},
	}
}

func (s *HTTPSender) Send(ctx context.Context, cmd collector.Command) (time.Duration, error) {
	body, err := json.Marshal(cmd)
	if err != nil {
		return 0, fmt.Errorf("failed to encode command: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	rtt := time.Since(start)
	if err != nil {
		return 0, fmt.Errorf("failed to send command: %w", err)
	}
	defer resp.Body.Close()

	// Drain the body so the connection can be reused.
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return 0, fmt.Errorf("control endpoint returned %s", resp.Status)
	}
	return rtt, nil
}

func (s *HTTPSender) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
