package capture

import (
	"sync"
	"time"
)

// FakeHost is an in-memory backend for tests and offline runs. Devices,
// native configs, and failure points are all scripted; opened streams
// feed synthesized buffers on a short timer.
type FakeHost struct {
	Default *FakeDevice
	Devices []*FakeDevice

	// InputsErr makes Inputs fail, simulating an unreachable host.
	InputsErr error

	mu           sync.Mutex
	inputsCalls  int
	defaultCalls int
}

// FakeDevice is one scripted device.
type FakeDevice struct {
	DeviceName string
	NameErr    error

	Config    Config
	ConfigErr error

	OpenErr  error
	StartErr error

	// Buffer is fed to the callback on every tick while the stream is
	// running. Nil means a zeroed buffer sized for one 64-frame chunk.
	Buffer []byte
	// Interval between callback invocations. Zero means 5ms.
	Interval time.Duration
}

func (h *FakeHost) DefaultInput() (HostDevice, error) {
	h.mu.Lock()
	h.defaultCalls++
	h.mu.Unlock()
	if h.Default == nil {
		return nil, ErrNoDefaultDevice
	}
	return h.Default, nil
}

func (h *FakeHost) Inputs() ([]HostDevice, error) {
	h.mu.Lock()
	h.inputsCalls++
	h.mu.Unlock()
	if h.InputsErr != nil {
		return nil, h.InputsErr
	}
	devices := make([]HostDevice, len(h.Devices))
	for i, d := range h.Devices {
		devices[i] = d
	}
	return devices, nil
}

func (h *FakeHost) Close() {}

// Touched reports whether any enumeration call reached the host. Used
// to verify that invalid device ids are rejected beforehand.
func (h *FakeHost) Touched() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inputsCalls > 0 || h.defaultCalls > 0
}

func (d *FakeDevice) Name() (string, error) {
	if d.NameErr != nil {
		return "", d.NameErr
	}
	return d.DeviceName, nil
}

func (d *FakeDevice) DefaultConfig() (Config, error) {
	if d.ConfigErr != nil {
		return Config{}, d.ConfigErr
	}
	return d.Config, nil
}

func (d *FakeDevice) Open(cb DataCallback) (Stream, error) {
	if d.OpenErr != nil {
		return nil, d.OpenErr
	}

	buf := d.Buffer
	if buf == nil {
		buf = make([]byte, 64*d.Config.Format.BytesPerSample()*int(d.Config.Channels))
	}
	interval := d.Interval
	if interval == 0 {
		interval = 5 * time.Millisecond
	}

	return &fakeStream{
		startErr: d.StartErr,
		cb:       cb,
		buf:      buf,
		channels: d.Config.Channels,
		bps:      d.Config.Format.BytesPerSample(),
		interval: interval,
	}, nil
}

type fakeStream struct {
	startErr error
	cb       DataCallback
	buf      []byte
	channels uint32
	bps      int
	interval time.Duration

	stop chan struct{}
	done chan struct{}
}

func (s *fakeStream) Start() error {
	if s.startErr != nil {
		return s.startErr
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	frames := uint32(0)
	if s.bps > 0 && s.channels > 0 {
		frames = uint32(len(s.buf) / (s.bps * int(s.channels)))
	}

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.cb(s.buf, frames)
			}
		}
	}()
	return nil
}

func (s *fakeStream) Close() {
	if s.stop == nil {
		return
	}
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	<-s.done
}
