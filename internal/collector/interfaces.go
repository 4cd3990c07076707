package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// StreamProperties describes an opened video stream.
type StreamProperties struct {
	Width  int
	Height int
}

// FrameSource is the abstract frame acquisition interface the video
// collector drives. Implementations own the wire protocol; Read blocks
// until the next frame arrives or the transport gives up.
type FrameSource interface {
	Open(ctx context.Context, locator string) (StreamProperties, error)
	Read(ctx context.Context) ([]byte, error)
	Release() error
}

// VideoSink receives the stretched output sequence. Size reports the
// bytes written so far and is valid after Release.
type VideoSink interface {
	Open(fps, width, height int) error
	Write(frame []byte) error
	Release() error
	Size() int64
	Path() string
}

// CommandSender dispatches one control command and reports the measured
// round-trip time, like a TWAMP sender probe.
type CommandSender interface {
	Send(ctx context.Context, cmd Command) (time.Duration, error)
	Close() error
}

// Command is a single PTZ control action, serialized as {"action": value}.
type Command struct {
	Action string
	Value  int
}

func (c Command) String() string {
	return fmt.Sprintf("%s=%d", c.Action, c.Value)
}

func (c Command) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]int{c.Action: c.Value})
}

// DefaultCommandCycle is the fixed ordered cycle of PTZ presets the
// control test repeats until the time budget expires.
func DefaultCommandCycle() []Command {
	return []Command{
		{Action: "pan", Value: 0},
		{Action: "pan", Value: 90},
		{Action: "pan", Value: -90},
		{Action: "tilt", Value: 0},
		{Action: "tilt", Value: 45},
		{Action: "tilt", Value: -45},
		{Action: "zoom", Value: 1},
		{Action: "zoom", Value: 2},
		{Action: "zoom", Value: 4},
	}
}
