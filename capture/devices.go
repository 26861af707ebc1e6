package capture

import (
	"fmt"
	"strconv"
	"strings"
)

// Devices enumerates capture devices. The system default comes first
// under the id "default" with a marker suffix on its name, followed by
// every input the host reports, under positional ids "device_0",
// "device_1", ... assigned by this call. Positional ids are only valid
// until the device set changes; a later enumeration may assign them
// differently.
//
// Devices whose name cannot be read are skipped. A failure listing all
// inputs aborts the call only when the default-device step collected
// nothing; otherwise whatever was gathered is returned.
func (m *Manager) Devices() ([]Device, error) {
	devices := []Device{}

	if def, err := m.host.DefaultInput(); err == nil {
		if name, err := def.Name(); err == nil {
			devices = append(devices, Device{
				ID:   "default",
				Name: name + " (default)",
			})
		}
	}

	inputs, err := m.host.Inputs()
	if err != nil {
		if len(devices) == 0 {
			return nil, fmt.Errorf("enumerating devices: %w", err)
		}
		return devices, nil
	}
	for idx, dev := range inputs {
		name, err := dev.Name()
		if err != nil {
			continue
		}
		devices = append(devices, Device{
			ID:   fmt.Sprintf("device_%d", idx),
			Name: name,
		})
	}

	return devices, nil
}

// parseDeviceID validates the shape of a device id without touching the
// host. Valid ids are "default" and "device_<index>".
func parseDeviceID(id string) (isDefault bool, index int, err error) {
	if id == "default" {
		return true, 0, nil
	}
	raw, ok := strings.CutPrefix(id, "device_")
	if !ok {
		return false, 0, fmt.Errorf("%w: %q", ErrInvalidDeviceID, id)
	}
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 || raw != strconv.Itoa(idx) {
		return false, 0, fmt.Errorf("%w: %q", ErrInvalidDeviceID, id)
	}
	return false, idx, nil
}

// lookupDevice resolves a validated id against the host. Positional ids
// index into a fresh enumeration, mirroring the order Devices uses.
func (m *Manager) lookupDevice(isDefault bool, index int) (HostDevice, error) {
	if isDefault {
		return m.host.DefaultInput()
	}
	inputs, err := m.host.Inputs()
	if err != nil {
		return nil, fmt.Errorf("enumerating devices: %w", err)
	}
	if index >= len(inputs) {
		return nil, fmt.Errorf("%w: device_%d", ErrDeviceNotFound, index)
	}
	return inputs[index], nil
}
