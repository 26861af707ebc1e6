// Package capture implements real-time microphone capture: device
// enumeration, native-format negotiation, per-buffer conversion to mono
// 16-bit PCM, and a single-session start/stop lifecycle.
package capture

import "errors"

// SampleFormat is the sample representation a device delivers natively.
type SampleFormat int

const (
	FormatUnsupported SampleFormat = iota
	FormatF32
	FormatS16
	FormatU16
)

func (f SampleFormat) String() string {
	switch f {
	case FormatF32:
		return "f32"
	case FormatS16:
		return "s16"
	case FormatU16:
		return "u16"
	default:
		return "unsupported"
	}
}

// BytesPerSample returns the width of one sample, or 0 for unsupported
// formats.
func (f SampleFormat) BytesPerSample() int {
	switch f {
	case FormatF32:
		return 4
	case FormatS16, FormatU16:
		return 2
	default:
		return 0
	}
}

// Device is one enumerated capture device. ID is either "default" or
// "device_<index>" where index is the position in the enumeration call
// that produced it. Indices are not stable across calls if the device
// set changes in between.
type Device struct {
	ID   string
	Name string
}

// Config is a device's resolved capture configuration. Immutable once a
// session has started with it.
type Config struct {
	Channels   uint32
	SampleRate uint32
	Format     SampleFormat
}

// Frame is one converted buffer of mono 16-bit samples. Frame length
// follows the host's buffer size and is not fixed.
type Frame struct {
	Samples    []int16
	SampleRate uint32
}

// EventAudioData is the event name under which frames are pushed to the
// sink.
const EventAudioData = "audio-data"

// Sink receives converted frames. Delivery is fire-and-forget: the
// session ignores returned errors and there is no backpressure signal.
type Sink interface {
	Emit(event string, frame Frame) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(event string, frame Frame) error

func (f SinkFunc) Emit(event string, frame Frame) error { return f(event, frame) }

// DataCallback receives one raw interleaved buffer from the host.
// frameCount is the number of frames (channel groups) in data.
type DataCallback func(data []byte, frameCount uint32)

// Host abstracts the audio backend so the session logic runs against
// real hardware or a fake.
type Host interface {
	// DefaultInput returns the system default capture device, or
	// ErrNoDefaultDevice if none exists.
	DefaultInput() (HostDevice, error)
	// Inputs returns every enumerable capture device in host order.
	Inputs() ([]HostDevice, error)
	Close()
}

// HostDevice is one backend capture device.
type HostDevice interface {
	Name() (string, error)
	// DefaultConfig returns the device's native capture configuration,
	// unmodified. A representation outside the supported set is still
	// returned, tagged FormatUnsupported.
	DefaultConfig() (Config, error)
	// Open builds a stream at the device's native config with cb wired
	// as the per-buffer callback. The stream is not started.
	Open(cb DataCallback) (Stream, error)
}

// Stream is an open capture stream.
type Stream interface {
	Start() error
	Close()
}

var (
	ErrAlreadyRunning    = errors.New("audio capture already running")
	ErrInvalidDeviceID   = errors.New("invalid device id")
	ErrDeviceNotFound    = errors.New("device not found")
	ErrNoDefaultDevice   = errors.New("no default input device")
	ErrNoDefaultConfig   = errors.New("device has no default input config")
	ErrUnsupportedFormat = errors.New("unsupported sample format")
)
