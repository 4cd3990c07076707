package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/camlabs/cambench/internal/collector"
)

const (
	// Freshly flashed devices refuse connections for a moment while the
	// camera and network stack come up, so the initial GET is retried.
	openMaxTries        = 5
	openInitialInterval = 250 * time.Millisecond
)

// MJPEGSource reads frames from a multipart/x-mixed-replace HTTP stream
// (motion JPEG), the format the firmware serves on /video.
type MJPEGSource struct {
	log    *slog.Logger
	client *http.Client

	resp   *http.Response
	reader *multipart.Reader

	// pending is the frame peeked during Open to detect the stream
	// dimensions, handed back on the first Read.
	pending []byte
}

func NewMJPEGSource(log *slog.Logger) *MJPEGSource {
	return &MJPEGSource{
		log: log,
		// No client timeout: the response body is a long-lived stream.
		client: &http.Client{},
	}
}

func (s *MJPEGSource) Open(ctx context.Context, locator string) (collector.StreamProperties, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = openInitialInterval

	attempt := 0
	resp, err := backoff.Retry(ctx, func() (*http.Response, error) {
		attempt++
		if attempt > 1 {
			s.log.Debug("Retrying stream open", "attempt", attempt, "locator", locator)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("stream endpoint returned %s", resp.Status)
		}
		return resp, nil
	}, backoff.WithBackOff(bo), backoff.WithMaxTries(openMaxTries))
	if err != nil {
		return collector.StreamProperties{}, fmt.Errorf("failed to open %s: %w", locator, err)
	}

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		resp.Body.Close()
		return collector.StreamProperties{}, fmt.Errorf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}
	boundary, ok := params["boundary"]
	if !ok {
		resp.Body.Close()
		return collector.StreamProperties{}, errors.New("multipart stream has no boundary")
	}

	s.resp = resp
	s.reader = multipart.NewReader(resp.Body, boundary)

	// Peek the first frame for the stream dimensions.
	frame, err := s.next()
	if err != nil {
		s.Release()
		return collector.StreamProperties{}, fmt.Errorf("failed to read initial frame: %w", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(frame))
	if err != nil {
		s.Release()
		return collector.StreamProperties{}, fmt.Errorf("initial frame is not a valid JPEG: %w", err)
	}
	s.pending = frame

	return collector.StreamProperties{Width: cfg.Width, Height: cfg.Height}, nil
}

// Read blocks until the next part of the stream arrives. Cancelling the
// context passed to Open aborts in-flight body reads.
func (s *MJPEGSource) Read(_ context.Context) ([]byte, error) {
	if s.reader == nil {
		return nil, errors.New("frame source is not open")
	}
	if s.pending != nil {
		frame := s.pending
		s.pending = nil
		return frame, nil
	}
	return s.next()
}

func (s *MJPEGSource) next() ([]byte, error) {
	part, err := s.reader.NextPart()
	if err != nil {
		return nil, fmt.Errorf("failed to read stream part: %w", err)
	}
	defer part.Close()
	data, err := io.ReadAll(part)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame body: %w", err)
	}
	return data, nil
}

func (s *MJPEGSource) Release() error {
	s.reader = nil
	s.pending = nil
	if s.resp != nil {
		err := s.resp.Body.Close()
		s.resp = nil
		return err
	}
	return nil
}
