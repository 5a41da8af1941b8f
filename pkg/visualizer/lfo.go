package visualizer

import (
	"math"
	"math/rand/v2"

	"github.com/justyntemme/paramrelay/pkg/layout"
)

// Shape is an LFO waveform. The order matches the layout's shape choice.
type Shape int

// LFO shapes.
const (
	ShapeSine     Shape = layout.ShapeSine
	ShapeTriangle Shape = layout.ShapeTriangle
	ShapeSquare   Shape = layout.ShapeSquare
	ShapeSawUp    Shape = layout.ShapeSawUp
	ShapeSawDown  Shape = layout.ShapeSawDown
	ShapeRandom   Shape = layout.ShapeRandom
)

// lfo is a block-rate oscillator for the display. Output is in [0, 1].
type lfo struct {
	rate  float64 // Hz
	phase float64 // 0-1
	shape Shape

	held float64
	rng  *rand.Rand
}

func newLFO(rng *rand.Rand) *lfo {
	return &lfo{rate: 1, rng: rng, held: 0.5}
}

func (l *lfo) setRate(hz float64) {
	l.rate = math.Max(0.01, math.Min(20, hz))
}

func (l *lfo) setShape(s Shape) {
	if s < ShapeSine || s > ShapeRandom {
		s = ShapeSine
	}
	l.shape = s
}

// advance moves the phase on by seconds. The random shape picks a new
// value each time the phase wraps.
func (l *lfo) advance(seconds float64) {
	l.phase += l.rate * seconds
	if l.phase >= 1 {
		l.phase -= math.Floor(l.phase)
		l.held = l.rng.Float64()
	}
}

// value returns the output at the current phase shifted by offset cycles.
func (l *lfo) value(offset float64) float64 {
	p := l.phase + offset
	p -= math.Floor(p)

	var wave float64
	switch l.shape {
	case ShapeSine:
		wave = math.Sin(2 * math.Pi * p)
	case ShapeTriangle:
		if p < 0.5 {
			wave = 4*p - 1
		} else {
			wave = 3 - 4*p
		}
	case ShapeSquare:
		if p < 0.5 {
			wave = 1
		} else {
			wave = -1
		}
	case ShapeSawUp:
		wave = 2*p - 1
	case ShapeSawDown:
		wave = 1 - 2*p
	case ShapeRandom:
		return l.held
	}
	return (wave + 1) / 2
}

func (l *lfo) reset() {
	l.phase = 0
	l.held = 0.5
}
