package visualizer

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/justyntemme/paramrelay/pkg/framework/param"
	"github.com/justyntemme/paramrelay/pkg/layout"
)

// Analyzer turns audio blocks and the current parameter values into
// visualizer snapshots. ProcessBlock and Snapshot may run on different
// goroutines.
type Analyzer struct {
	sampleRate float64
	registry   *param.Registry

	mu          sync.Mutex
	input       *peakMeter
	output      *peakMeter
	ripplePhase float64
	lfos        [LFOCount]*lfo
	seed        uint64
}

// NewAnalyzer creates an analyzer reading parameters from registry.
// Parameters missing from the registry fall back to the layout defaults.
func NewAnalyzer(sampleRate float64, registry *param.Registry) *Analyzer {
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	a := &Analyzer{
		sampleRate: sampleRate,
		registry:   registry,
		input:      newPeakMeter(sampleRate),
		output:     newPeakMeter(sampleRate),
	}
	a.reseed()
	return a
}

// ProcessBlock meters one block of input and output channels and advances
// the ripple and LFO phases by the block length.
func (a *Analyzer) ProcessBlock(in, out [][]float32) {
	frames := 0
	for _, ch := range in {
		frames = max(frames, len(ch))
	}
	for _, ch := range out {
		frames = max(frames, len(ch))
	}
	seconds := float64(frames) / a.sampleRate

	a.mu.Lock()
	defer a.mu.Unlock()

	if seed := a.seedValue(); seed != a.seed {
		a.reseed()
	}

	a.input.process(in)
	a.output.process(out)

	a.ripplePhase += a.plain(layout.RippleRate, 0.5) * seconds
	a.ripplePhase -= math.Floor(a.ripplePhase)

	for i, l := range a.lfos {
		n := i + 1
		l.setRate(a.plain(layout.LFORate(n), 1))
		l.setShape(Shape(a.choice(layout.LFOShape(n))))
		l.advance(seconds)
	}
}

// Snapshot returns the current visualizer data.
func (a *Analyzer) Snapshot() Data {
	a.mu.Lock()
	defer a.mu.Unlock()

	d := Data{
		InputLevel:  a.input.level(),
		OutputLevel: a.output.level(),
	}

	amount := clampUnit(a.plain(layout.RippleAmount, 0.5))
	spread := 0.5 + a.plain(layout.RippleMultiply, 0.5)
	for i := range d.RippleBands {
		offset := spread * float64(i) / RippleBandCount
		d.RippleBands[i] = 0.5 + 0.5*amount*math.Sin(2*math.Pi*(a.ripplePhase+offset))
	}

	for i, l := range a.lfos {
		d.LFOValues[i] = l.value(a.plain(layout.LFOPhase(i+1), 0) / 360)
	}
	return d
}

// Reset clears the meters and phases and reseeds the random LFOs.
func (a *Analyzer) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.input.reset()
	a.output.reset()
	a.ripplePhase = 0
	a.reseed()
}

// reseed rebuilds the LFOs from the random_seed parameter.
func (a *Analyzer) reseed() {
	a.seed = a.seedValue()
	rng := rand.New(rand.NewPCG(a.seed, a.seed^0x9e3779b97f4a7c15))
	for i := range a.lfos {
		if a.lfos[i] == nil {
			a.lfos[i] = newLFO(rng)
			continue
		}
		a.lfos[i].rng = rng
		a.lfos[i].reset()
	}
}

func (a *Analyzer) seedValue() uint64 {
	return uint64(math.Max(0, a.plain(layout.RandomSeed, 0)))
}

func (a *Analyzer) plain(id string, fallback float64) float64 {
	if a.registry == nil {
		return fallback
	}
	p := a.registry.Get(id)
	if p == nil {
		return fallback
	}
	return p.GetPlainValue()
}

func (a *Analyzer) choice(id string) int {
	if a.registry == nil {
		return 0
	}
	p := a.registry.Get(id)
	if p == nil {
		return 0
	}
	return p.ChoiceIndex()
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
