package main

import (
	"math"
	"sync/atomic"
	"time"

	"mictap/capture"
	"mictap/log"
)

const metricsInterval = 5 * time.Second

// levelMeter is the shell's frame sink: it tracks delivery counters and
// the current RMS level for the TUI and the periodic metrics log. It
// never returns an error to the capture session - display problems must
// not touch the stream.
type levelMeter struct {
	frames  atomic.Uint64
	buffers atomic.Uint64
	level   atomic.Uint64 // math.Float64bits of the last RMS
}

func newLevelMeter() *levelMeter {
	return &levelMeter{}
}

func (lm *levelMeter) sink() capture.Sink {
	return capture.SinkFunc(func(event string, frame capture.Frame) error {
		if event != capture.EventAudioData || len(frame.Samples) == 0 {
			return nil
		}
		lm.frames.Add(uint64(len(frame.Samples)))
		lm.buffers.Add(1)

		var sumSquares float64
		for _, s := range frame.Samples {
			normalized := float64(s) / 32768.0
			sumSquares += normalized * normalized
		}
		rms := math.Sqrt(sumSquares / float64(len(frame.Samples)))
		lm.level.Store(math.Float64bits(rms))

		tuiSend(AudioLevelMsg{Level: rms})
		return nil
	})
}

func (lm *levelMeter) currentLevel() float64 {
	return math.Float64frombits(lm.level.Load())
}

func (lm *levelMeter) totals() (frames, buffers uint64) {
	return lm.frames.Load(), lm.buffers.Load()
}

// reportLoop writes a capture_metrics line every few seconds until done
// closes.
func (lm *levelMeter) reportLoop(done <-chan struct{}) {
	ticker := time.NewTicker(metricsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			frames, buffers := lm.totals()
			log.CaptureMetrics(log.Metrics{
				Frames:  frames,
				Buffers: buffers,
				Level:   lm.currentLevel(),
			})
		}
	}
}
