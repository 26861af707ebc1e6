package capture

import (
	"errors"
	"testing"
)

func nopSink() Sink {
	return SinkFunc(func(string, Frame) error { return nil })
}

func TestDevicesDefaultFirst(t *testing.T) {
	host := &FakeHost{
		Default: &FakeDevice{DeviceName: "Built-in Mic"},
		Devices: []*FakeDevice{
			{DeviceName: "Built-in Mic"},
			{DeviceName: "USB Mic"},
		},
	}
	m := NewManager(host, nopSink())

	devices, err := m.Devices()
	if err != nil {
		t.Fatal(err)
	}
	if len(devices) != 3 {
		t.Fatalf("got %d devices, want 3", len(devices))
	}
	if devices[0].ID != "default" || devices[0].Name != "Built-in Mic (default)" {
		t.Errorf("default entry: got %+v", devices[0])
	}
	if devices[1].ID != "device_0" || devices[1].Name != "Built-in Mic" {
		t.Errorf("device_0 entry: got %+v", devices[1])
	}
	if devices[2].ID != "device_1" || devices[2].Name != "USB Mic" {
		t.Errorf("device_1 entry: got %+v", devices[2])
	}
}

func TestDevicesEmptyIsNotAnError(t *testing.T) {
	m := NewManager(&FakeHost{}, nopSink())

	devices, err := m.Devices()
	if err != nil {
		t.Fatal(err)
	}
	if len(devices) != 0 {
		t.Errorf("got %d devices, want 0", len(devices))
	}
}

func TestDevicesSkipsUnreadableNames(t *testing.T) {
	host := &FakeHost{
		Default: &FakeDevice{NameErr: errors.New("name unavailable")},
		Devices: []*FakeDevice{
			{DeviceName: "Good Mic"},
			{NameErr: errors.New("name unavailable")},
			{DeviceName: "Other Mic"},
		},
	}
	m := NewManager(host, nopSink())

	devices, err := m.Devices()
	if err != nil {
		t.Fatal(err)
	}
	if len(devices) != 2 {
		t.Fatalf("got %d devices, want 2", len(devices))
	}
	// Ids follow enumeration position, including the skipped device.
	if devices[0].ID != "device_0" || devices[1].ID != "device_2" {
		t.Errorf("got ids %q, %q", devices[0].ID, devices[1].ID)
	}
}

func TestDevicesBestEffortOnListFailure(t *testing.T) {
	host := &FakeHost{
		Default:   &FakeDevice{DeviceName: "Built-in Mic"},
		InputsErr: errors.New("host gone"),
	}
	m := NewManager(host, nopSink())

	devices, err := m.Devices()
	if err != nil {
		t.Fatalf("expected partial result, got error: %v", err)
	}
	if len(devices) != 1 || devices[0].ID != "default" {
		t.Errorf("got %+v, want just the default entry", devices)
	}
}

func TestDevicesListFailureWithoutDefault(t *testing.T) {
	host := &FakeHost{InputsErr: errors.New("host gone")}
	m := NewManager(host, nopSink())

	if _, err := m.Devices(); err == nil {
		t.Fatal("expected error when nothing could be enumerated")
	}
}

func TestParseDeviceID(t *testing.T) {
	cases := []struct {
		id        string
		isDefault bool
		index     int
		wantErr   bool
	}{
		{"default", true, 0, false},
		{"device_0", false, 0, false},
		{"device_17", false, 17, false},
		{"", false, 0, true},
		{"Device_0", false, 0, true},
		{"device_", false, 0, true},
		{"device_-1", false, 0, true},
		{"device_01", false, 0, true},
		{"device_1x", false, 0, true},
		{"mic", false, 0, true},
	}
	for _, tc := range cases {
		isDefault, index, err := parseDeviceID(tc.id)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidDeviceID) {
				t.Errorf("%q: got err %v, want ErrInvalidDeviceID", tc.id, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %v", tc.id, err)
			continue
		}
		if isDefault != tc.isDefault || index != tc.index {
			t.Errorf("%q: got (%v, %d), want (%v, %d)", tc.id, isDefault, index, tc.isDefault, tc.index)
		}
	}
}
