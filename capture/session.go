package capture

import (
	"fmt"
	"sync/atomic"
	"time"

	"mictap/log"
)

const (
	// pollInterval bounds worst-case stop latency: the capture
	// goroutine checks the stop flag once per interval.
	pollInterval = 100 * time.Millisecond
	// stopWaitInterval and stopWaitMax cap Stop's wait for the capture
	// goroutine to exit at roughly one second.
	stopWaitInterval = 50 * time.Millisecond
	stopWaitMax      = 20
)

// Manager owns the capture lifecycle. At most one session is active at
// any time; running and stopRequested are the only state shared between
// the control side and the capture goroutine, and both are sequentially
// consistent atomics. The host's callback thread touches neither - it
// only reads the per-session config and runs the converter.
type Manager struct {
	host Host
	sink Sink

	running       atomic.Bool
	stopRequested atomic.Bool

	// overridable in tests
	poll     time.Duration
	stopWait time.Duration
	stopMax  int
}

// NewManager builds a manager on a backend host, delivering frames to
// sink. Neither may be nil.
func NewManager(host Host, sink Sink) *Manager {
	return &Manager{
		host:     host,
		sink:     sink,
		poll:     pollInterval,
		stopWait: stopWaitInterval,
		stopMax:  stopWaitMax,
	}
}

// Running reports whether a capture session is currently active.
func (m *Manager) Running() bool {
	return m.running.Load()
}

// Start begins capturing from the device named by id and returns as
// soon as the capture goroutine is handed off. It does not wait for the
// stream to come up: open and start failures past this point are logged
// and the session reverts to idle, so a caller that needs certainty
// must observe Running or retry.
//
// The id is validated before any host interaction. ErrAlreadyRunning is
// returned when a session is active, including one still tearing down
// after a Stop that exceeded its wait cap.
func (m *Manager) Start(deviceID string) error {
	isDefault, index, err := parseDeviceID(deviceID)
	if err != nil {
		return err
	}

	if m.running.Load() {
		return ErrAlreadyRunning
	}

	dev, err := m.lookupDevice(isDefault, index)
	if err != nil {
		return err
	}

	name, err := dev.Name()
	if err != nil {
		name = ""
	}

	config, err := dev.DefaultConfig()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoDefaultConfig, err)
	}

	// The early check keeps device and config work off the error path;
	// the swap closes the window between two racing starts.
	if !m.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	m.stopRequested.Store(false)

	log.Infof("audio capture starting: %s", name)
	log.SessionStart(name, config.Channels, config.SampleRate, config.Format.String())

	go m.run(dev, config)

	return nil
}

// run is the capture session state machine: open the stream with the
// matching converter wired as callback, start it, poll for the stop
// signal, then close. Every failure path clears the running flag.
func (m *Manager) run(dev HostDevice, config Config) {
	convert, ok := converterFor(config.Format)
	if !ok {
		log.Errorf("%v: %s", ErrUnsupportedFormat, config.Format)
		m.running.Store(false)
		return
	}

	var frames, buffers atomic.Uint64
	stream, err := dev.Open(func(data []byte, frameCount uint32) {
		frame := Frame{
			Samples:    convert(data, config.Channels),
			SampleRate: config.SampleRate,
		}
		frames.Add(uint64(len(frame.Samples)))
		buffers.Add(1)
		// Sink delivery is best-effort; a failing sink never takes the
		// stream down.
		_ = m.sink.Emit(EventAudioData, frame)
	})
	if err != nil {
		log.Errorf("stream build failed: %v", err)
		m.running.Store(false)
		return
	}

	if err := stream.Start(); err != nil {
		log.Errorf("stream start failed: %v", err)
		stream.Close()
		m.running.Store(false)
		return
	}

	log.Infof("audio capture stream started (%dHz)", config.SampleRate)
	started := time.Now()

	for !m.stopRequested.Load() {
		time.Sleep(m.poll)
	}

	stream.Close()
	m.running.Store(false)
	log.SessionEnd(frames.Load(), buffers.Load(), time.Since(started).Seconds())
	log.Info("audio capture stopped")
}

// Stop signals the active session to shut down and waits, bounded, for
// it to exit. It always succeeds, also when no session is active.
//
// The wait is a soft cap, not a guarantee: if the capture goroutine has
// not exited within it, Stop still returns and shutdown completes
// eventually. A Start issued right after such a Stop can observe
// ErrAlreadyRunning; that race is inherent to the soft-stop design.
func (m *Manager) Stop() {
	m.stopRequested.Store(true)

	for i := 0; i < m.stopMax && m.running.Load(); i++ {
		time.Sleep(m.stopWait)
	}
}
