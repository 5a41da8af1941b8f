package binding

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/paramrelay/pkg/bridge"
	"github.com/justyntemme/paramrelay/pkg/framework/param"
	"github.com/justyntemme/paramrelay/pkg/framework/state"
	"github.com/justyntemme/paramrelay/pkg/layout"
	"github.com/justyntemme/paramrelay/pkg/visualizer"
)

func newRelay(t *testing.T, opts ...bridge.RelayOption) (*bridge.Relay, *param.Registry) {
	t.Helper()
	registry := param.NewRegistry()
	require.NoError(t, layout.Populate(registry, layout.Ripple()))
	return bridge.NewRelay(registry, opts...), registry
}

func TestRelaySliderRoundTrip(t *testing.T) {
	relay, registry := newRelay(t)
	p := registry.Get(layout.RippleAmount)

	s := NewSlider(relay, layout.RippleAmount, 0)
	defer s.Close()
	assert.True(t, s.IsConnected())
	assert.Equal(t, p.GetValue(), s.Get())

	var seen []float64
	stop := s.Subscribe(func(v float64) { seen = append(seen, v) })
	defer stop()

	s.Set(0.8)
	assert.Equal(t, 0.8, p.GetValue())
	assert.Equal(t, []float64{0.5, 0.8}, seen, "own writes are not echoed back")

	p.SetValueFrom(0.25, nil)
	assert.Equal(t, 0.25, s.Get())
	assert.Equal(t, []float64{0.5, 0.8, 0.25}, seen)
}

func TestRelayDragGesture(t *testing.T) {
	relay, registry := newRelay(t)
	p := registry.Get(layout.RippleRate)

	s := NewSlider(relay, layout.RippleRate, 0)
	defer s.Close()

	s.OnDragStart()
	assert.True(t, p.InGesture())
	s.OnDragEnd()
	assert.False(t, p.InGesture())
}

func TestRelaySharedParameter(t *testing.T) {
	relay, _ := newRelay(t)

	knob := NewSlider(relay, layout.ReverbMix, 0)
	defer knob.Close()
	fader := NewSlider(relay, layout.ReverbMix, 0)
	defer fader.Close()

	knob.Set(0.9)
	assert.Equal(t, 0.9, fader.Get(), "other views of the parameter follow")
}

func TestRelayUnknownID(t *testing.T) {
	relay, _ := newRelay(t)

	s := NewSlider(relay, "no_such_param", 0.6)
	assert.False(t, s.IsConnected())
	assert.Equal(t, 0.6, s.Get())

	c := NewCombo(relay, "no_such_param", 2)
	assert.False(t, c.IsConnected())
	assert.Equal(t, ComboState{Index: 2, Choices: []string{}}, c.Get())
}

func TestRelayOutsideWebView(t *testing.T) {
	relay, registry := newRelay(t, bridge.WithWebView(false))

	tg := NewToggle(relay, layout.Bypass, false)
	assert.False(t, tg.IsConnected())

	assert.True(t, tg.Toggle())
	assert.False(t, registry.Get(layout.Bypass).GetBool(), "nothing was forwarded")
}

func TestRelayToggle(t *testing.T) {
	relay, registry := newRelay(t)
	p := registry.Get(layout.ReverbEnabled)

	tg := NewToggle(relay, layout.ReverbEnabled, false)
	defer tg.Close()

	assert.True(t, tg.Toggle())
	assert.True(t, p.GetBool())

	p.SetBoolFrom(false, nil)
	assert.False(t, tg.Get())
}

func TestRelayCombo(t *testing.T) {
	relay, registry := newRelay(t)
	p := registry.Get(layout.LFOShape(1))

	c := NewCombo(relay, layout.LFOShape(1), 0)
	defer c.Close()
	assert.Equal(t, ComboState{Index: layout.ShapeSine, Choices: layout.LFOShapes}, c.Get())

	c.SetIndex(layout.ShapeSawUp)
	assert.Equal(t, layout.ShapeSawUp, p.ChoiceIndex())

	specs := layout.Ripple()
	for i := range specs {
		if specs[i].ID == layout.LFOShape(1) {
			specs[i].Choices = append(specs[i].Choices, "Stepped")
		}
	}
	require.Equal(t, 1, layout.Apply(registry, specs, nil))

	got := c.Get()
	assert.Equal(t, layout.ShapeSawUp, got.Index)
	assert.Equal(t, append(append([]string(nil), layout.LFOShapes...), "Stepped"), got.Choices)
}

func TestRelayCoercedWrites(t *testing.T) {
	relay, registry := newRelay(t)

	t.Run("SliderClamped", func(t *testing.T) {
		p := registry.Get(layout.RippleAmount)
		s := NewSlider(relay, layout.RippleAmount, 0)
		defer s.Close()

		var seen []float64
		stop := s.Subscribe(func(v float64) { seen = append(seen, v) })
		defer stop()

		s.Set(1.5)
		assert.Equal(t, 1.0, p.GetValue())
		assert.Equal(t, p.GetValue(), s.Get())
		assert.Equal(t, []float64{0.5, 1.5, 1}, seen)

		s.Set(2)
		assert.Equal(t, 1.0, s.Get(), "a clamp that leaves the host unchanged still corrects the store")
	})

	t.Run("ComboIndexClamped", func(t *testing.T) {
		p := registry.Get(layout.LFOShape(2))
		c := NewCombo(relay, layout.LFOShape(2), 0)
		defer c.Close()

		c.SetIndex(42)
		assert.Equal(t, layout.ShapeRandom, p.ChoiceIndex())
		assert.Equal(t, p.ChoiceIndex(), c.Get().Index)

		c.SetIndex(-3)
		assert.Equal(t, layout.ShapeSine, c.Get().Index)
	})
}

func TestRelayStateRecall(t *testing.T) {
	relay, registry := newRelay(t)
	manager := state.NewManager(registry)

	s := NewSlider(relay, layout.RippleWidth, 0)
	defer s.Close()

	registry.Get(layout.RippleWidth).SetValue(0.1)
	var preset bytes.Buffer
	require.NoError(t, manager.Save(&preset))

	s.Set(0.9)
	require.NoError(t, manager.Load(&preset))
	assert.Equal(t, 0.1, s.Get(), "loading a preset updates bound stores")
}

func TestRelayVisualizer(t *testing.T) {
	relay, registry := newRelay(t)
	v := NewVisualizer(relay)
	defer v.Close()

	analyzer := visualizer.NewAnalyzer(48000, registry)
	analyzer.ProcessBlock([][]float32{{0.5, -0.5}}, [][]float32{{0.25}})
	publisher := visualizer.NewPublisher(relay, analyzer)

	require.NoError(t, publisher.PublishOnce())
	assert.Equal(t, analyzer.Snapshot(), v.Get())
	assert.Zero(t, v.Rejected())

	relay.SetVisible(false)
	analyzer.ProcessBlock([][]float32{{1}}, nil)
	require.NoError(t, publisher.PublishOnce())
	assert.InDelta(t, 0.5, v.Get().InputLevel, 1e-6, "hidden views receive nothing")
}
