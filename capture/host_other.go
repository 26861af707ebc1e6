//go:build !linux

package capture

import (
	"fmt"

	"github.com/gen2brain/malgo"
)

type malgoHost struct {
	ctx *malgo.AllocatedContext
}

// NewHost opens the platform audio backend (miniaudio on non-Linux).
func NewHost() (Host, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("malgo context: %w", err)
	}
	return &malgoHost{ctx: ctx}, nil
}

func (m *malgoHost) DefaultInput() (HostDevice, error) {
	infos, err := m.ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("malgo devices: %w", err)
	}
	for _, info := range infos {
		if info.IsDefault != 0 {
			return &malgoDevice{ctx: m.ctx, info: info}, nil
		}
	}
	return nil, ErrNoDefaultDevice
}

func (m *malgoHost) Inputs() ([]HostDevice, error) {
	infos, err := m.ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("malgo devices: %w", err)
	}
	devices := make([]HostDevice, len(infos))
	for i, info := range infos {
		devices[i] = &malgoDevice{ctx: m.ctx, info: info}
	}
	return devices, nil
}

func (m *malgoHost) Close() {
	m.ctx.Uninit()
	m.ctx.Free()
}

type malgoDevice struct {
	ctx  *malgo.AllocatedContext
	info malgo.DeviceInfo

	native malgo.DataFormat
}

func (d *malgoDevice) Name() (string, error) {
	return d.info.Name(), nil
}

func (d *malgoDevice) DefaultConfig() (Config, error) {
	full, err := d.ctx.DeviceInfo(malgo.Capture, d.info.ID, malgo.Shared)
	if err != nil {
		return Config{}, fmt.Errorf("malgo device info: %w", err)
	}
	if full.FormatCount == 0 {
		return Config{}, fmt.Errorf("no native data format for %s", d.info.Name())
	}

	// The first native data format is the device's preferred one; take
	// it verbatim rather than forcing a resample.
	d.native = full.Formats[0]
	return Config{
		Channels:   d.native.Channels,
		SampleRate: d.native.SampleRate,
		Format:     fromMalgoFormat(d.native.Format),
	}, nil
}

func (d *malgoDevice) Open(cb DataCallback) (Stream, error) {
	if d.native.SampleRate == 0 {
		if _, err := d.DefaultConfig(); err != nil {
			return nil, err
		}
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = d.native.Format
	deviceConfig.Capture.Channels = d.native.Channels
	deviceConfig.SampleRate = d.native.SampleRate

	devID := d.info.ID
	deviceConfig.Capture.DeviceID = devID.Pointer()

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, data []byte, frameCount uint32) {
			cb(data, frameCount)
		},
	}

	dev, err := malgo.InitDevice(d.ctx.Context, deviceConfig, callbacks)
	if err != nil {
		return nil, fmt.Errorf("malgo init device: %w", err)
	}
	return &malgoStream{device: dev}, nil
}

func fromMalgoFormat(f malgo.FormatType) SampleFormat {
	switch f {
	case malgo.FormatF32:
		return FormatF32
	case malgo.FormatS16:
		return FormatS16
	default:
		// miniaudio has no u16 representation; u8/s24/s32 devices are
		// reported as-is and rejected by the session.
		return FormatUnsupported
	}
}

type malgoStream struct {
	device *malgo.Device
}

func (s *malgoStream) Start() error {
	return s.device.Start()
}

func (s *malgoStream) Close() {
	s.device.Uninit()
}
