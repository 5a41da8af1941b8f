package visualizer

import "math"

// peakMeter tracks a decaying peak over blocks of samples.
type peakMeter struct {
	peak       float64
	decayRate  float64 // dB per second
	sampleRate float64
}

func newPeakMeter(sampleRate float64) *peakMeter {
	return &peakMeter{
		sampleRate: sampleRate,
		decayRate:  20.0,
	}
}

// process folds one block into the meter. Every channel counts towards
// the same peak.
func (m *peakMeter) process(channels [][]float32) {
	blockPeak := 0.0
	frames := 0
	for _, ch := range channels {
		frames = max(frames, len(ch))
		for _, s := range ch {
			if a := math.Abs(float64(s)); a > blockPeak {
				blockPeak = a
			}
		}
	}

	decayPerSample := m.decayRate / m.sampleRate / 20.0 * math.Ln10
	m.peak *= math.Exp(-decayPerSample * float64(frames))

	if blockPeak > m.peak {
		m.peak = blockPeak
	}
}

func (m *peakMeter) level() float64 {
	if math.IsNaN(m.peak) || math.IsInf(m.peak, 0) {
		return 0
	}
	return m.peak
}

func (m *peakMeter) reset() {
	m.peak = 0
}
