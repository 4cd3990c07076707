// Package transport provides the concrete frame source and command
// sender implementations behind the collector abstractions, plus the
// protocol registry that maps benchmark protocol names to them.
package transport

import (
	"fmt"
	"log/slog"

	"github.com/camlabs/cambench/internal/collector"
)

type VideoProtocol string

const (
	VideoHTTP   VideoProtocol = "HTTP"
	VideoRTSP   VideoProtocol = "RTSP"
	VideoUDP    VideoProtocol = "UDP"
	VideoWebRTC VideoProtocol = "WebRTC"
)

type ControlProtocol string

const (
	ControlHTTP      ControlProtocol = "HTTP"
	ControlUDP       ControlProtocol = "UDP"
	ControlWebSocket ControlProtocol = "WebSocket"
)

// StreamLocator builds the stream URL for a device IP, matching the
// endpoints the firmware exposes per protocol.
func StreamLocator(proto VideoProtocol, ip string) (string, error) {
	switch proto {
	case VideoHTTP:
		return fmt.Sprintf("http://%s/video", ip), nil
	case VideoRTSP:
		return fmt.Sprintf("rtsp://%s:8554/video", ip), nil
	case VideoUDP:
		return fmt.Sprintf("udp://%s:5000", ip), nil
	case VideoWebRTC:
		return fmt.Sprintf("ws://%s:8080/video", ip), nil
	default:
		return "", collector.NewNotSupportedError("stream_locator", fmt.Sprintf("unknown video protocol %q", proto))
	}
}

// NewFrameSource returns the frame source for a video protocol. Only
// HTTP (MJPEG) is implemented; selecting another protocol fails fast
// before any capture work starts.
func NewFrameSource(log *slog.Logger, proto VideoProtocol) (collector.FrameSource, error) {
	switch proto {
	case VideoHTTP:
		return NewMJPEGSource(log), nil
	case VideoRTSP, VideoUDP, VideoWebRTC:
		return nil, collector.NewNotSupportedError("new_frame_source", fmt.Sprintf("video protocol %q has no frame source implementation", proto))
	default:
		return nil, collector.NewNotSupportedError("new_frame_source", fmt.Sprintf("unknown video protocol %q", proto))
	}
}

// NewCommandSender returns the command sender for a control protocol.
// Only HTTP is implemented; selecting another protocol fails fast
// before the dispatch loop starts.
func NewCommandSender(log *slog.Logger, proto ControlProtocol, ip string) (collector.CommandSender, error) {
	switch proto {
	case ControlHTTP:
		return NewHTTPSender(log, fmt.Sprintf("http://%s/control", ip)), nil
	case ControlUDP, ControlWebSocket:
		return nil, collector.NewNotSupportedError("new_command_sender", fmt.Sprintf("control protocol %q has no sender implementation", proto))
	default:
		return nil, collector.NewNotSupportedError("new_command_sender", fmt.Sprintf("unknown control protocol %q", proto))
	}
}
