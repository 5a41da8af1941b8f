package binding

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/paramrelay/pkg/bridge"
	"github.com/justyntemme/paramrelay/pkg/visualizer"
)

func TestSliderDisconnected(t *testing.T) {
	s := NewSlider(bridge.Disconnected(), "ripple_mix", 0.7)

	var seen []float64
	stop := s.Subscribe(func(v float64) { seen = append(seen, v) })
	defer stop()

	assert.Equal(t, []float64{0.7}, seen)
	assert.False(t, s.IsConnected())
	assert.NotPanics(t, func() {
		s.OnDragStart()
		s.OnDragEnd()
	})

	s.Set(0.2)
	assert.Equal(t, 0.2, s.Get(), "writes stay local")
	assert.Equal(t, []float64{0.7, 0.2}, seen)
}

func TestSliderConnected(t *testing.T) {
	b := newFakeBridge()
	remote := &fakeSlider{value: 0.3}
	b.sliders["ripple_rate"] = remote

	s := NewSlider(b, "ripple_rate", 0.9)
	assert.True(t, s.IsConnected())
	assert.Equal(t, 0.3, s.Get())

	t.Run("SetForwardsOnce", func(t *testing.T) {
		s.Set(0.6)
		assert.Equal(t, []float64{0.6}, remote.sets)
		assert.Equal(t, 0.6, s.Get())
	})

	t.Run("UpdateForwards", func(t *testing.T) {
		got := s.Update(func(v float64) float64 { return v / 2 })
		assert.Equal(t, 0.3, got)
		assert.Equal(t, []float64{0.6, 0.3}, remote.sets)
	})

	t.Run("HostChangesReachSubscribers", func(t *testing.T) {
		var seen []float64
		stop := s.Subscribe(func(v float64) { seen = append(seen, v) })
		defer stop()

		remote.hostSet(0.95)
		assert.Equal(t, []float64{0.3, 0.95}, seen)
	})

	t.Run("Drag", func(t *testing.T) {
		before := len(remote.sets)
		s.OnDragStart()
		s.OnDragEnd()
		assert.Equal(t, 1, remote.starts)
		assert.Equal(t, 1, remote.ends)
		assert.Len(t, remote.sets, before, "drag has no store or value effect")
	})

	t.Run("NoClamping", func(t *testing.T) {
		s.Set(1.5)
		assert.Equal(t, 1.5, s.Get())
		assert.Equal(t, 1.5, remote.sets[len(remote.sets)-1])
	})
}

func TestSliderOutsideWebView(t *testing.T) {
	b := newFakeBridge()
	b.inWebView = false
	remote := &fakeSlider{value: 0.3}
	b.sliders["ripple_rate"] = remote

	s := NewSlider(b, "ripple_rate", 0.9)
	assert.False(t, s.IsConnected())
	assert.Equal(t, 0.9, s.Get())

	s.Set(0.1)
	assert.Empty(t, remote.sets)
	assert.Zero(t, remote.changed.Len())

	s.OnDragStart()
	assert.Equal(t, 1, remote.starts, "drags always reach the handle")
}

func TestSliderUnknownIDIsDisconnected(t *testing.T) {
	s := NewSlider(newFakeBridge(), "missing", 0.4)
	assert.False(t, s.IsConnected())
	assert.Equal(t, 0.4, s.Get())
	assert.NotPanics(t, s.OnDragStart)
}

func TestSliderClose(t *testing.T) {
	b := newFakeBridge()
	remote := &fakeSlider{value: 0.3}
	b.sliders["x"] = remote

	s := NewSlider(b, "x", 0)
	require.Equal(t, 1, remote.changed.Len())

	s.Close()
	s.Close()
	assert.Zero(t, remote.changed.Len())

	remote.hostSet(0.8)
	assert.Equal(t, 0.3, s.Get(), "closed adapters keep their last value")
}

func TestToggle(t *testing.T) {
	t.Run("Disconnected", func(t *testing.T) {
		tg := NewToggle(bridge.Disconnected(), "bypass", true)
		assert.False(t, tg.IsConnected())
		assert.True(t, tg.Get())
		assert.False(t, tg.Toggle())
		assert.False(t, tg.Get())
	})

	t.Run("Connected", func(t *testing.T) {
		b := newFakeBridge()
		remote := &fakeToggle{value: true}
		b.toggles["reverb_enabled"] = remote

		tg := NewToggle(b, "reverb_enabled", false)
		assert.True(t, tg.IsConnected())
		assert.True(t, tg.Get())

		tg.Set(false)
		assert.Equal(t, []bool{false}, remote.sets)
		assert.False(t, tg.Get())

		remote.hostSet(true)
		assert.True(t, tg.Get())
	})

	t.Run("ToggleTwiceRestores", func(t *testing.T) {
		b := newFakeBridge()
		remote := &fakeToggle{value: false}
		b.toggles["bypass"] = remote

		tg := NewToggle(b, "bypass", false)
		var seen []bool
		stop := tg.Subscribe(func(v bool) { seen = append(seen, v) })
		defer stop()

		assert.True(t, tg.Toggle())
		assert.False(t, tg.Toggle())
		assert.Equal(t, []bool{true, false}, remote.sets)
		assert.Equal(t, []bool{false, true, false}, seen)
	})

	t.Run("ToggleUsesCurrentValue", func(t *testing.T) {
		b := newFakeBridge()
		remote := &fakeToggle{value: false}
		b.toggles["bypass"] = remote

		tg := NewToggle(b, "bypass", false)
		remote.hostSet(true)
		assert.False(t, tg.Toggle(), "flips the value the host pushed")
		assert.Equal(t, []bool{false}, remote.sets)
	})
}

func TestComboDisconnected(t *testing.T) {
	c := NewCombo(bridge.Disconnected(), "lfo1_shape", 3)
	assert.False(t, c.IsConnected())
	assert.Equal(t, ComboState{Index: 3, Choices: []string{}}, c.Get())

	c.SetIndex(1)
	assert.Equal(t, 1, c.Get().Index)
}

func TestComboConnected(t *testing.T) {
	b := newFakeBridge()
	remote := &fakeCombo{index: 2, choices: []string{"A", "B", "C"}}
	b.combos["mod1_target"] = remote

	c := NewCombo(b, "mod1_target", 0)
	assert.True(t, c.IsConnected())

	var seen []ComboState
	stop := c.Subscribe(func(s ComboState) { seen = append(seen, s) })
	defer stop()
	require.Equal(t, []ComboState{{Index: 2, Choices: []string{"A", "B", "C"}}}, seen)

	t.Run("PropertiesKeepIndex", func(t *testing.T) {
		remote.hostSetChoices([]string{"X", "Y"})
		assert.Equal(t, ComboState{Index: 2, Choices: []string{"X", "Y"}}, c.Get())
	})

	t.Run("ValueKeepsChoices", func(t *testing.T) {
		remote.hostSetIndex(0)
		assert.Equal(t, ComboState{Index: 0, Choices: []string{"X", "Y"}}, c.Get())
	})

	t.Run("SetIndexKeepsChoices", func(t *testing.T) {
		c.SetIndex(1)
		assert.Equal(t, []int{1}, remote.sets)
		assert.Equal(t, ComboState{Index: 1, Choices: []string{"X", "Y"}}, c.Get())
	})

	t.Run("ChoicesAreCopied", func(t *testing.T) {
		got := c.Get()
		got.Choices[0] = "mutated"
		assert.Equal(t, "X", c.Get().Choices[0])

		remote.choices[1] = "changed behind our back"
		assert.Equal(t, "Y", c.Get().Choices[1])
	})

	c.Close()
	assert.Zero(t, remote.changed.Len())
	assert.Zero(t, remote.properties.Len())
}

func payload(level float64, band float64) string {
	bands := strings.TrimSuffix(strings.Repeat(fmt.Sprintf("%g,", band), visualizer.RippleBandCount), ",")
	return fmt.Sprintf(`{"inputLevel":%g,"outputLevel":%g,"rippleBands":[%s],"lfoValues":[0.1,0.2,0.3,0.4]}`,
		level, level/2, bands)
}

func TestVisualizer(t *testing.T) {
	b := newFakeBridge()
	v := NewVisualizer(b)

	var seen []visualizer.Data
	stop := v.Subscribe(func(d visualizer.Data) { seen = append(seen, d) })
	defer stop()

	require.Len(t, seen, 1)
	assert.Equal(t, visualizer.Default(), seen[0])

	b.emit(visualizer.EventName, payload(0.8, 0.25))
	require.Len(t, seen, 2)
	want, err := visualizer.Decode([]byte(payload(0.8, 0.25)))
	require.NoError(t, err)
	assert.Equal(t, want, seen[1])
	assert.Equal(t, want, v.Get())

	t.Run("InvalidPayloadDropped", func(t *testing.T) {
		b.emit(visualizer.EventName, `{"inputLevel":1}`)
		b.emit(visualizer.EventName, `not json`)
		assert.Equal(t, uint64(2), v.Rejected())
		assert.Equal(t, want, v.Get(), "the previous snapshot stays")
		assert.Len(t, seen, 2)
	})

	t.Run("ReplacesWholesale", func(t *testing.T) {
		b.emit(visualizer.EventName, payload(0, 0.9))
		got := v.Get()
		assert.Zero(t, got.InputLevel)
		for _, band := range got.RippleBands {
			assert.Equal(t, 0.9, band)
		}
	})

	v.Close()
	v.Close()
	assert.Zero(t, b.listeners(visualizer.EventName))
}
