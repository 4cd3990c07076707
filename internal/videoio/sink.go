// Package videoio writes captured frame streams to disk.
package videoio

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/camlabs/cambench/internal/collector"
)

// MJPEGFileSink stores frames as a raw MJPEG file, one JPEG after
// another. The nominal FPS is recorded for playback tooling but does
// not affect the bytes written.
type MJPEGFileSink struct {
	log  *slog.Logger
	path string
	file *os.File
	size int64
}

var _ collector.VideoSink = (*MJPEGFileSink)(nil)

func NewMJPEGFileSink(log *slog.Logger, path string) *MJPEGFileSink {
	return &MJPEGFileSink{log: log, path: path}
}

func (s *MJPEGFileSink) Open(fps, width, height int) error {
	if s.file != nil {
		return fmt.Errorf("sink already open: %s", s.path)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	s.file = f
	s.log.Debug("Opened video sink", "path", s.path, "fps", fps, "width", width, "height", height)
	return nil
}

func (s *MJPEGFileSink) Write(frame []byte) error {
	if s.file == nil {
		return fmt.Errorf("sink not open")
	}
	n, err := s.file.Write(frame)
	s.size += int64(n)
	if err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

func (s *MJPEGFileSink) Release() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	if err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// Size reports the total bytes written so far.
func (s *MJPEGFileSink) Size() int64 { return s.size }

func (s *MJPEGFileSink) Path() string { return s.path }
