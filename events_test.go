package main

import (
	"math"
	"testing"

	"mictap/capture"
)

func TestLevelMeterCountsFrames(t *testing.T) {
	meter := newLevelMeter()
	sink := meter.sink()

	frame := capture.Frame{Samples: []int16{1000, -1000, 1000, -1000}, SampleRate: 16000}
	for i := 0; i < 3; i++ {
		if err := sink.Emit(capture.EventAudioData, frame); err != nil {
			t.Fatal(err)
		}
	}

	frames, buffers := meter.totals()
	if frames != 12 {
		t.Errorf("frames: got %d, want 12", frames)
	}
	if buffers != 3 {
		t.Errorf("buffers: got %d, want 3", buffers)
	}
}

func TestLevelMeterRMS(t *testing.T) {
	meter := newLevelMeter()
	sink := meter.sink()

	// Constant amplitude: RMS equals the normalized amplitude.
	if err := sink.Emit(capture.EventAudioData, capture.Frame{
		Samples:    []int16{16384, -16384, 16384, -16384},
		SampleRate: 16000,
	}); err != nil {
		t.Fatal(err)
	}

	want := 16384.0 / 32768.0
	if got := meter.currentLevel(); math.Abs(got-want) > 1e-9 {
		t.Errorf("level: got %f, want %f", got, want)
	}
}

func TestLevelMeterIgnoresOtherEvents(t *testing.T) {
	meter := newLevelMeter()
	sink := meter.sink()

	if err := sink.Emit("something-else", capture.Frame{Samples: []int16{1}}); err != nil {
		t.Fatal(err)
	}
	if frames, _ := meter.totals(); frames != 0 {
		t.Errorf("frames: got %d, want 0", frames)
	}
}
