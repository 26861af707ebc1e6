package capture

import (
	"encoding/binary"
	"math"
	"testing"
)

func f32Bytes(samples ...float32) []byte {
	buf := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(s))
	}
	return buf
}

func s16Bytes(samples ...int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return buf
}

func u16Bytes(samples ...uint16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], s)
	}
	return buf
}

func TestF32FullScale(t *testing.T) {
	got := monoF32(f32Bytes(1.0, -1.0, 0.0), 1)
	want := []int16{32767, -32768, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestF32ClampsOutOfRange(t *testing.T) {
	got := monoF32(f32Bytes(1.5, -2.0), 1)
	if got[0] != 32767 {
		t.Errorf("1.5: got %d, want 32767", got[0])
	}
	if got[1] != -32768 {
		t.Errorf("-2.0: got %d, want -32768", got[1])
	}
}

func TestF32TruncatesTowardZero(t *testing.T) {
	got := monoF32(f32Bytes(0.5, -0.5), 1)
	if got[0] != 16383 { // 0.5 * 32767 = 16383.5
		t.Errorf("0.5: got %d, want 16383", got[0])
	}
	if got[1] != -16384 { // -0.5 * 32768 = -16384
		t.Errorf("-0.5: got %d, want -16384", got[1])
	}
}

func TestS16FirstChannelOnly(t *testing.T) {
	for channels := uint32(1); channels <= 4; channels++ {
		input := make([]int16, 0, 3*channels)
		for frame := int16(0); frame < 3; frame++ {
			input = append(input, frame*100)
			for ch := uint32(1); ch < channels; ch++ {
				input = append(input, -1) // must be ignored
			}
		}
		got := monoS16(s16Bytes(input...), channels)
		if len(got) != 3 {
			t.Fatalf("channels=%d: got %d samples, want 3", channels, len(got))
		}
		for i, s := range got {
			if s != int16(i)*100 {
				t.Errorf("channels=%d sample %d: got %d, want %d", channels, i, s, i*100)
			}
		}
	}
}

func TestU16Midpoint(t *testing.T) {
	got := monoU16(u16Bytes(32768, 0, 65535), 1)
	want := []int16{0, -32768, 32767}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestConverterLengthFloors(t *testing.T) {
	for channels := uint32(1); channels <= 3; channels++ {
		samples := 7 // not a multiple of any tested channel count > 1
		wantFrames := samples / int(channels)

		f32In := make([]float32, samples)
		if got := monoF32(f32Bytes(f32In...), channels); len(got) != wantFrames {
			t.Errorf("f32 channels=%d: got %d frames, want %d", channels, len(got), wantFrames)
		}

		s16In := make([]int16, samples)
		if got := monoS16(s16Bytes(s16In...), channels); len(got) != wantFrames {
			t.Errorf("s16 channels=%d: got %d frames, want %d", channels, len(got), wantFrames)
		}

		u16In := make([]uint16, samples)
		if got := monoU16(u16Bytes(u16In...), channels); len(got) != wantFrames {
			t.Errorf("u16 channels=%d: got %d frames, want %d", channels, len(got), wantFrames)
		}
	}
}

func TestConverterTrailingBytesDropped(t *testing.T) {
	// 2 full stereo s16 frames plus 3 stray bytes
	data := append(s16Bytes(10, -1, 20, -1), 0xab, 0xcd, 0xef)
	got := monoS16(data, 2)
	if len(got) != 2 {
		t.Fatalf("got %d frames, want 2", len(got))
	}
	if got[0] != 10 || got[1] != 20 {
		t.Errorf("got %v, want [10 20]", got)
	}
}

func TestConverterFor(t *testing.T) {
	for _, format := range []SampleFormat{FormatF32, FormatS16, FormatU16} {
		if _, ok := converterFor(format); !ok {
			t.Errorf("no converter for %s", format)
		}
	}
	if _, ok := converterFor(FormatUnsupported); ok {
		t.Error("expected no converter for unsupported format")
	}
}
