// Package layout describes the Ripple parameter set and builds registries
// from parameter specs.
package layout

import (
	"fmt"
	"slices"

	"github.com/justyntemme/paramrelay/pkg/framework/config"
	"github.com/justyntemme/paramrelay/pkg/framework/param"
)

// Ripple filter parameters.
const (
	RippleRate       = "ripple_rate"
	RippleMultiply   = "ripple_multiply"
	RippleAmount     = "ripple_amount"
	RippleWidth      = "ripple_width"
	RippleLowBypass  = "ripple_low_bypass"
	RippleHighBypass = "ripple_high_bypass"
	RippleMix        = "ripple_mix"
)

// Reverb parameters.
const (
	ReverbEnabled = "reverb_enabled"
	ReverbSize    = "reverb_size"
	ReverbDamping = "reverb_damping"
	ReverbMix     = "reverb_mix"
)

// Global parameters.
const (
	Bypass     = "bypass"
	InputGain  = "input_gain"
	OutputGain = "output_gain"
	RandomSeed = "random_seed"
)

// LFOCount and ModSlotCount size the numbered parameter groups.
const (
	LFOCount     = 4
	ModSlotCount = 4
)

// LFO shape indices, in LFOShapes order.
const (
	ShapeSine = iota
	ShapeTriangle
	ShapeSquare
	ShapeSawUp
	ShapeSawDown
	ShapeRandom
)

var (
	// LFOShapes are the display names of the LFO shape choice.
	LFOShapes = []string{"Sine", "Triangle", "Square", "Saw Up", "Saw Down", "Random"}
	// ModSources are the modulation slot sources.
	ModSources = []string{"None", "LFO 1", "LFO 2", "LFO 3", "LFO 4"}
	// ModTargets are the modulation slot destinations.
	ModTargets = []string{
		"None",
		"Ripple Rate",
		"Ripple Multiply",
		"Ripple Amount",
		"Ripple Width",
		"Ripple Low Bypass",
		"Ripple High Bypass",
		"Ripple Mix",
		"Reverb Size",
		"Reverb Damping",
		"Reverb Mix",
	}
)

// LFORate returns the rate parameter ID of LFO n (1-based).
func LFORate(n int) string { return fmt.Sprintf("lfo%d_rate", n) }

// LFOShape returns the shape parameter ID of LFO n (1-based).
func LFOShape(n int) string { return fmt.Sprintf("lfo%d_shape", n) }

// LFOPhase returns the phase parameter ID of LFO n (1-based).
func LFOPhase(n int) string { return fmt.Sprintf("lfo%d_phase", n) }

// ModSource returns the source parameter ID of modulation slot n (1-based).
func ModSource(n int) string { return fmt.Sprintf("mod%d_source", n) }

// ModTarget returns the target parameter ID of modulation slot n (1-based).
func ModTarget(n int) string { return fmt.Sprintf("mod%d_target", n) }

// ModDepth returns the depth parameter ID of modulation slot n (1-based).
func ModDepth(n int) string { return fmt.Sprintf("mod%d_depth", n) }

// Ripple returns the full Ripple parameter layout.
func Ripple() []config.ParameterSpec {
	specs := []config.ParameterSpec{
		slider(RippleRate, "Ripple Rate", 0.01, 20, 0.5, "Hz"),
		slider(RippleMultiply, "Ripple Multiply", 0, 1, 0.5, ""),
		slider(RippleAmount, "Ripple Amount", 0, 1, 0.5, ""),
		slider(RippleWidth, "Ripple Width", 0, 1, 0.5, ""),
		slider(RippleLowBypass, "Low Bypass", 20, 2000, 20, "Hz"),
		slider(RippleHighBypass, "High Bypass", 1000, 20000, 20000, "Hz"),
		slider(RippleMix, "Mix", 0, 100, 100, "%"),

		toggle(ReverbEnabled, "Reverb"),
		slider(ReverbSize, "Reverb Size", 0, 1, 0.5, ""),
		slider(ReverbDamping, "Reverb Damping", 0, 1, 0.5, ""),
		slider(ReverbMix, "Reverb Mix", 0, 100, 30, "%"),
	}

	for n := 1; n <= LFOCount; n++ {
		specs = append(specs,
			slider(LFORate(n), fmt.Sprintf("LFO %d Rate", n), 0.01, 20, 1, "Hz"),
			choice(LFOShape(n), fmt.Sprintf("LFO %d Shape", n), LFOShapes, ShapeSine),
			slider(LFOPhase(n), fmt.Sprintf("LFO %d Phase", n), 0, 360, 0, "deg"),
		)
	}
	for n := 1; n <= ModSlotCount; n++ {
		specs = append(specs,
			choice(ModSource(n), fmt.Sprintf("Mod %d Source", n), ModSources, 0),
			choice(ModTarget(n), fmt.Sprintf("Mod %d Target", n), ModTargets, 0),
			slider(ModDepth(n), fmt.Sprintf("Mod %d Depth", n), -1, 1, 0, ""),
		)
	}

	return append(specs,
		toggle(Bypass, "Bypass"),
		slider(InputGain, "Input Gain", -24, 24, 0, "dB"),
		slider(OutputGain, "Output Gain", -24, 24, 0, "dB"),
		slider(RandomSeed, "Random Seed", 0, 9999, 0, ""),
	)
}

// Populate builds a parameter for each spec and adds them to registry.
func Populate(registry *param.Registry, specs []config.ParameterSpec) error {
	params := make([]*param.Parameter, 0, len(specs))
	for _, s := range specs {
		p, err := Build(s)
		if err != nil {
			return err
		}
		params = append(params, p)
	}
	if err := registry.Add(params...); err != nil {
		return fmt.Errorf("populate registry: %w", err)
	}
	return nil
}

// Build turns a spec into a parameter.
func Build(s config.ParameterSpec) (*param.Parameter, error) {
	name := s.Name
	if name == "" {
		name = s.ID
	}
	b := param.New(s.ID, name)

	switch s.Kind {
	case config.KindSlider, "":
		b.Range(s.Min, s.Max).Default(s.Default).Unit(s.Unit)
		if format, parse := formatterFor(s.Unit); format != nil {
			b.Formatter(format, parse)
		}
	case config.KindToggle:
		b.Toggle()
		if s.Default >= 0.5 {
			b.Range(0, 1).Default(1)
		}
		if s.ID == Bypass {
			b.Bypass()
		}
	case config.KindChoice:
		b.Choices(s.Choices...).Default(s.Default)
	default:
		return nil, fmt.Errorf("parameter %s: unknown kind %q", s.ID, s.Kind)
	}
	return b.Build(), nil
}

// Apply pushes the choice lists in specs onto matching choice parameters of
// registry and returns how many changed. Bound combo stores observe this
// as a properties change.
func Apply(registry *param.Registry, specs []config.ParameterSpec, origin any) int {
	changed := 0
	for _, s := range specs {
		if s.Kind != config.KindChoice {
			continue
		}
		p := registry.Get(s.ID)
		if p == nil || p.Kind() != param.KindChoice || slices.Equal(p.Choices(), s.Choices) {
			continue
		}
		p.SetChoicesFrom(s.Choices, origin)
		changed++
	}
	return changed
}

func slider(id, name string, min, max, def float64, unit string) config.ParameterSpec {
	return config.ParameterSpec{ID: id, Name: name, Kind: config.KindSlider, Min: min, Max: max, Default: def, Unit: unit}
}

func toggle(id, name string) config.ParameterSpec {
	return config.ParameterSpec{ID: id, Name: name, Kind: config.KindToggle}
}

func choice(id, name string, choices []string, def int) config.ParameterSpec {
	return config.ParameterSpec{
		ID:      id,
		Name:    name,
		Kind:    config.KindChoice,
		Choices: append([]string(nil), choices...),
		Default: float64(def),
	}
}

func formatterFor(unit string) (func(float64) string, func(string) (float64, error)) {
	switch unit {
	case "Hz":
		return param.FrequencyFormatter, param.FrequencyParser
	case "dB":
		return param.DecibelFormatter, param.DecibelParser
	case "%":
		return param.PercentFormatter, param.PercentParser
	case "deg":
		return param.DegreeFormatter, param.DegreeParser
	default:
		return nil, nil
	}
}
