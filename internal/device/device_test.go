package device_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camlabs/cambench/internal/collector"
	"github.com/camlabs/cambench/internal/device"
)

var log = slog.New(slog.NewTextHandler(os.Stderr, nil))

func TestDevice_MatchesESPBridge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		port    string
		product string
		want    bool
	}{
		{"cp210x bridge", "/dev/ttyUSB0", "Silicon Labs CP210x UART Bridge", true},
		{"ch340 bridge", "/dev/ttyUSB1", "USB-Serial CH340", true},
		{"ftdi bridge", "/dev/ttyUSB2", "FTDI FT232R USB UART", true},
		{"acm device by name", "/dev/ttyACM0", "", true},
		{"generic usb serial", "/dev/ttyUSB3", "USB Serial Converter", true},
		{"unrelated modem", "/dev/ttyS0", "PCI Modem", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, device.MatchesESPBridge(tt.port, tt.product))
		})
	}
}

func TestDevice_ScanForIP(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewRealClock()

	t.Run("finds ip after initialization banner", func(t *testing.T) {
		t.Parallel()
		bootLog := strings.Join([]string{
			"rst:0x1 (POWERON_RESET),boot:0x13",
			"Camera Initialization complete",
			"WiFi connected",
			"Stream ready at http://192.168.4.23/video",
		}, "\n")
		ip, err := device.ScanForIP(context.Background(), log, strings.NewReader(bootLog), clock, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, "192.168.4.23", ip)
	})

	t.Run("ignores addresses before the banner", func(t *testing.T) {
		t.Parallel()
		bootLog := strings.Join([]string{
			"stale: http://10.0.0.99/video",
			"Camera Initialization complete",
			"Stream ready at http://192.168.4.23/video",
		}, "\n")
		ip, err := device.ScanForIP(context.Background(), log, strings.NewReader(bootLog), clock, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, "192.168.4.23", ip)
	})

	t.Run("no ip in boot log is a connection error", func(t *testing.T) {
		t.Parallel()
		bootLog := "Camera Initialization complete\nWiFi connecting...\n"
		_, err := device.ScanForIP(context.Background(), log, strings.NewReader(bootLog), clock, time.Minute)
		require.Error(t, err)
		assert.True(t, collector.IsErrorType(err, collector.ErrorTypeConnection))
	})

	t.Run("deadline cuts the scan short", func(t *testing.T) {
		t.Parallel()
		fake := clockwork.NewFakeClockAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
		lines := &advanceReader{
			clock: fake,
			step:  2 * time.Second,
			lines: []string{
				"Camera Initialization complete\n",
				"still waiting\n",
				"Stream ready at http://192.168.4.23/video\n",
			},
		}
		_, err := device.ScanForIP(context.Background(), log, lines, fake, 3*time.Second)
		require.Error(t, err)
	})

	t.Run("cancelled context stops the scan", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := device.ScanForIP(ctx, log, strings.NewReader("line\n"), clock, time.Minute)
		require.ErrorIs(t, err, context.Canceled)
	})
}

// advanceReader yields one line per Read and moves the fake clock
// forward each time, simulating a slow serial stream.
type advanceReader struct {
	clock *clockwork.FakeClock
	step  time.Duration
	lines []string
	next  int
}

func (r *advanceReader) Read(p []byte) (int, error) {
	if r.next >= len(r.lines) {
		return 0, io.EOF
	}
	r.clock.Advance(r.step)
	n := copy(p, r.lines[r.next])
	r.next++
	return n, nil
}
