//go:build linux

package capture

import (
	"encoding/binary"
	"fmt"

	"github.com/jfreymuth/pulse"
)

type pulseHost struct {
	client *pulse.Client
}

// NewHost opens the platform audio backend (PulseAudio on Linux).
func NewHost() (Host, error) {
	c, err := pulse.NewClient()
	if err != nil {
		return nil, fmt.Errorf("pulse: %w", err)
	}
	return &pulseHost{client: c}, nil
}

func (p *pulseHost) DefaultInput() (HostDevice, error) {
	src, err := p.client.DefaultSource()
	if err != nil {
		return nil, ErrNoDefaultDevice
	}
	return &pulseDevice{client: p.client, source: src}, nil
}

func (p *pulseHost) Inputs() ([]HostDevice, error) {
	sources, err := p.client.ListSources()
	if err != nil {
		return nil, fmt.Errorf("pulse list sources: %w", err)
	}
	devices := make([]HostDevice, len(sources))
	for i, s := range sources {
		devices[i] = &pulseDevice{client: p.client, source: s}
	}
	return devices, nil
}

func (p *pulseHost) Close() {
	p.client.Close()
}

type pulseDevice struct {
	client *pulse.Client
	source *pulse.Source
}

func (d *pulseDevice) Name() (string, error) {
	return d.source.Name(), nil
}

// DefaultConfig reports the source's native rate and channel count.
// Pulse record streams always deliver signed 16-bit samples, and the
// record API tops out at stereo, so channels are capped at two.
func (d *pulseDevice) DefaultConfig() (Config, error) {
	channels := len(d.source.Channels())
	if channels < 1 {
		return Config{}, fmt.Errorf("source %s reports no channels", d.source.Name())
	}
	if channels > 2 {
		channels = 2
	}
	return Config{
		Channels:   uint32(channels),
		SampleRate: uint32(d.source.SampleRate()),
		Format:     FormatS16,
	}, nil
}

func (d *pulseDevice) Open(cb DataCallback) (Stream, error) {
	config, err := d.DefaultConfig()
	if err != nil {
		return nil, err
	}

	channels := config.Channels
	writer := pulse.Int16Writer(func(buf []int16) (int, error) {
		if len(buf) == 0 {
			return 0, nil
		}
		data := make([]byte, len(buf)*2)
		for i, s := range buf {
			binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
		}
		cb(data, uint32(len(buf))/channels)
		return len(buf), nil
	})

	opts := []pulse.RecordOption{
		pulse.RecordSampleRate(int(config.SampleRate)),
		pulse.RecordLatency(0.05),
		pulse.RecordSource(d.source),
	}
	if channels == 2 {
		opts = append(opts, pulse.RecordStereo)
	} else {
		opts = append(opts, pulse.RecordMono)
	}

	stream, err := d.client.NewRecord(writer, opts...)
	if err != nil {
		return nil, fmt.Errorf("pulse record: %w", err)
	}
	return &pulseStream{stream: stream}, nil
}

type pulseStream struct {
	stream *pulse.RecordStream
}

func (s *pulseStream) Start() error {
	s.stream.Start()
	return nil
}

func (s *pulseStream) Close() {
	s.stream.Stop()
	s.stream.Close()
}
