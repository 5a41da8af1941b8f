package binding

import (
	"encoding/json"
	"sync"

	"github.com/justyntemme/paramrelay/pkg/bridge"
)

// fakeBridge records every write the adapters make.
type fakeBridge struct {
	inWebView bool
	sliders   map[string]*fakeSlider
	toggles   map[string]*fakeToggle
	combos    map[string]*fakeCombo

	mu     sync.Mutex
	custom map[string]*customChannel
}

func newFakeBridge() *fakeBridge {
	return &fakeBridge{
		inWebView: true,
		sliders:   map[string]*fakeSlider{},
		toggles:   map[string]*fakeToggle{},
		combos:    map[string]*fakeCombo{},
		custom:    map[string]*customChannel{},
	}
}

func (b *fakeBridge) IsInWebView() bool { return b.inWebView }

func (b *fakeBridge) GetSliderState(id string) bridge.SliderState {
	if s, ok := b.sliders[id]; ok {
		return s
	}
	return bridge.Disconnected().GetSliderState(id)
}

func (b *fakeBridge) GetToggleState(id string) bridge.ToggleState {
	if t, ok := b.toggles[id]; ok {
		return t
	}
	return bridge.Disconnected().GetToggleState(id)
}

func (b *fakeBridge) GetComboBoxState(id string) bridge.ComboBoxState {
	if c, ok := b.combos[id]; ok {
		return c
	}
	return bridge.Disconnected().GetComboBoxState(id)
}

func (b *fakeBridge) AddCustomEventListener(name string, fn func(json.RawMessage)) func() {
	b.mu.Lock()
	ch, ok := b.custom[name]
	if !ok {
		ch = &customChannel{}
		b.custom[name] = ch
	}
	b.mu.Unlock()
	return ch.list.AddListener(func() { fn(ch.payload) })
}

func (b *fakeBridge) emit(name string, payload string) {
	b.mu.Lock()
	ch := b.custom[name]
	b.mu.Unlock()
	if ch == nil {
		return
	}
	ch.payload = json.RawMessage(payload)
	ch.list.Notify()
}

func (b *fakeBridge) listeners(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch := b.custom[name]; ch != nil {
		return ch.list.Len()
	}
	return 0
}

type customChannel struct {
	payload json.RawMessage
	list    bridge.ListenerList
}

type fakeSlider struct {
	value   float64
	sets    []float64
	starts  int
	ends    int
	changed bridge.ListenerList
}

func (s *fakeSlider) GetNormalisedValue() float64 { return s.value }
func (s *fakeSlider) SetNormalisedValue(v float64) {
	s.value = v
	s.sets = append(s.sets, v)
}
func (s *fakeSlider) SliderDragStarted() { s.starts++ }
func (s *fakeSlider) SliderDragEnded() { s.ends++ }
func (s *fakeSlider) ValueChangedEvent() bridge.Event { return &s.changed }

// hostSet simulates a host side change such as automation.
func (s *fakeSlider) hostSet(v float64) {
	s.value = v
	s.changed.Notify()
}

type fakeToggle struct {
	value   bool
	sets    []bool
	changed bridge.ListenerList
}

func (t *fakeToggle) GetValue() bool { return t.value }
func (t *fakeToggle) SetValue(v bool) {
	t.value = v
	t.sets = append(t.sets, v)
}
func (t *fakeToggle) ValueChangedEvent() bridge.Event { return &t.changed }

func (t *fakeToggle) hostSet(v bool) {
	t.value = v
	t.changed.Notify()
}

type fakeCombo struct {
	index      int
	choices    []string
	sets       []int
	changed    bridge.ListenerList
	properties bridge.ListenerList
}

func (c *fakeCombo) GetChoiceIndex() int { return c.index }
func (c *fakeCombo) SetChoiceIndex(i int) {
	c.index = i
	c.sets = append(c.sets, i)
}
func (c *fakeCombo) GetChoices() []string { return c.choices }
func (c *fakeCombo) ValueChangedEvent() bridge.Event { return &c.changed }
func (c *fakeCombo) PropertiesChangedEvent() bridge.Event { return &c.properties }

func (c *fakeCombo) hostSetIndex(i int) {
	c.index = i
	c.changed.Notify()
}

func (c *fakeCombo) hostSetChoices(choices []string) {
	c.choices = choices
	c.properties.Notify()
}
