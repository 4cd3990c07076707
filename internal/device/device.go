// Package device locates a camera board over USB serial and reads its
// network address from the boot log.
package device

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"github.com/camlabs/cambench/internal/collector"
)

const bootBaudRate = 115200

// Signatures of the USB-UART bridge chips found on camera dev boards.
var espChipSignatures = []string{
	"cp210x",
	"ch340",
	"ftdi",
	"usb2serial",
	"usb-serial",
	"usb serial",
	"ttyacm",
}

var ipPattern = regexp.MustCompile(`http://(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})`)

// FindPort returns the serial port of the first attached board whose
// USB bridge matches a known chip signature.
func FindPort(log *slog.Logger) (string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return "", fmt.Errorf("failed to enumerate serial ports: %w", err)
	}
	for _, port := range ports {
		log.Debug("Found serial port", "name", port.Name, "product", port.Product, "vid", port.VID, "pid", port.PID)
		if MatchesESPBridge(port.Name, port.Product) {
			return port.Name, nil
		}
	}
	return "", collector.NewConnectionError("device_discovery", "no camera device found on serial ports", nil)
}

// MatchesESPBridge reports whether a port name or product description
// looks like a known USB-UART bridge.
func MatchesESPBridge(name, product string) bool {
	name = strings.ToLower(name)
	product = strings.ToLower(product)
	for _, sig := range espChipSignatures {
		if strings.Contains(product, sig) || strings.Contains(name, sig) {
			return true
		}
	}
	return false
}

// WaitForIP opens the serial port and scans the boot log until the
// device reports its IP address.
func WaitForIP(ctx context.Context, log *slog.Logger, portName string, timeout time.Duration) (string, error) {
	mode := &serial.Mode{BaudRate: bootBaudRate}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return "", collector.NewConnectionError("device_ip", fmt.Sprintf("failed to open serial port %s", portName), err)
	}
	defer port.Close()

	// The boards reset when RTS/DTR are asserted, so keep both low.
	if err := port.SetRTS(false); err != nil {
		return "", fmt.Errorf("failed to clear RTS: %w", err)
	}
	if err := port.SetDTR(false); err != nil {
		return "", fmt.Errorf("failed to clear DTR: %w", err)
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		return "", fmt.Errorf("failed to set read timeout: %w", err)
	}

	return ScanForIP(ctx, log, port, clockwork.NewRealClock(), timeout)
}

// ScanForIP reads boot log lines from r until it sees the device's IP
// address. Output before the firmware's initialization banner is
// ignored, since the bootloader prints stale addresses on reset.
func ScanForIP(ctx context.Context, log *slog.Logger, r io.Reader, clock clockwork.Clock, timeout time.Duration) (string, error) {
	deadline := clock.Now().Add(timeout)
	scanner := bufio.NewScanner(r)
	initSeen := false
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if clock.Now().After(deadline) {
			break
		}
		line := scanner.Text()
		if !initSeen {
			if strings.Contains(line, "Initialization") {
				log.Debug("Found initialization banner")
				initSeen = true
			}
			continue
		}
		log.Debug("Serial output", "line", strings.TrimSpace(line))
		if m := ipPattern.FindStringSubmatch(line); m != nil {
			return m[1], nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read boot log: %w", err)
	}
	return "", collector.NewConnectionError("device_ip", "device did not report an ip address", nil)
}
