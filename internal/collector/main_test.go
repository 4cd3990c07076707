package collector_test

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/lmittmann/tint"

	"github.com/camlabs/cambench/internal/collector"
)

var log *slog.Logger

// TestMain sets up the test environment with a global logger.
func TestMain(m *testing.M) {
	flag.Parse()
	verbose := false
	if vFlag := flag.Lookup("test.v"); vFlag != nil && vFlag.Value.String() == "true" {
		verbose = true
	}
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	log = slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      logLevel,
		TimeFormat: time.RFC3339,
		AddSource:  true,
	}))

	os.Exit(m.Run())
}

// mockFrameSource advances the fake clock by interval on every read, so
// a capture loop driven by the same clock progresses deterministically.
type mockFrameSource struct {
	clock    *clockwork.FakeClock
	interval time.Duration
	frame    []byte

	openErr  error
	readErr  error
	failodd  bool
	reads    int
	released bool
}

func (m *mockFrameSource) Open(_ context.Context, _ string) (collector.StreamProperties, error) {
	if m.openErr != nil {
		return collector.StreamProperties{}, m.openErr
	}
	return collector.StreamProperties{Width: 640, Height: 480}, nil
}

func (m *mockFrameSource) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.clock.Advance(m.interval)
	m.reads++
	if m.readErr != nil {
		return nil, m.readErr
	}
	if m.failodd && m.reads%2 == 1 {
		return nil, errors.New("truncated frame")
	}
	return m.frame, nil
}

func (m *mockFrameSource) Release() error {
	m.released = true
	return nil
}

type mockSink struct {
	opened   bool
	writes   int
	size     int64
	released bool
	writeErr error
}

func (m *mockSink) Open(_, _, _ int) error {
	m.opened = true
	return nil
}

func (m *mockSink) Write(frame []byte) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.size += int64(len(frame))
	return nil
}

func (m *mockSink) Release() error {
	m.released = true
	return nil
}

func (m *mockSink) Size() int64 { return m.size }

func (m *mockSink) Path() string { return "results/video/test.mjpeg" }

// mockSender advances the fake clock by advance on every send. Results
// are scripted per call when script is set; otherwise every send
// succeeds with rtt.
type mockSender struct {
	clock   *clockwork.FakeClock
	advance time.Duration
	rtt     time.Duration

	script []func() (time.Duration, error)
	sent   int
	closed bool
}

func (m *mockSender) Send(ctx context.Context, _ collector.Command) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.clock.Advance(m.advance)
	m.sent++
	if m.script != nil {
		if m.sent <= len(m.script) {
			return m.script[m.sent-1]()
		}
		return 0, errors.New("script exhausted")
	}
	return m.rtt, nil
}

func (m *mockSender) Close() error {
	m.closed = true
	return nil
}

func ok(rtt time.Duration) func() (time.Duration, error) {
	return func() (time.Duration, error) { return rtt, nil }
}

func fail(msg string) func() (time.Duration, error) {
	return func() (time.Duration, error) { return 0, errors.New(msg) }
}
