package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/justyntemme/paramrelay/pkg/framework/debug"
	"github.com/justyntemme/paramrelay/pkg/framework/param"
)

// Relay is the host side of the bridge. It serves handles bound to the
// parameters of a registry and forwards host events to subscribers.
//
// Each Get*State call returns a fresh handle. A handle is not notified of
// changes it made itself, so a UI store never sees its own writes echoed
// back, while every other handle on the same parameter does.
type Relay struct {
	registry  *param.Registry
	log       *debug.Logger
	session   uuid.UUID
	inWebView bool
	visible   atomic.Bool

	toUI   eventTable
	toHost eventTable
}

// ErrInvalidPayload is returned by EmitToHost for payloads that are not JSON.
var ErrInvalidPayload = errors.New("invalid event payload")

// RelayOption configures a Relay.
type RelayOption func(*Relay)

// WithLogger sets the relay logger.
func WithLogger(l *debug.Logger) RelayOption {
	return func(r *Relay) { r.log = l }
}

// WithWebView overrides what IsInWebView reports. A relay reports true by
// default.
func WithWebView(in bool) RelayOption {
	return func(r *Relay) { r.inWebView = in }
}

// NewRelay creates a relay over registry. The view starts visible.
func NewRelay(registry *param.Registry, opts ...RelayOption) *Relay {
	r := &Relay{
		registry:  registry,
		log:       debug.Default(),
		session:   uuid.New(),
		inWebView: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With("session", r.session.String()[:8])
	r.visible.Store(true)
	return r
}

// Session identifies this relay in logs.
func (r *Relay) Session() uuid.UUID {
	return r.session
}

// IsInWebView implements Bridge.
func (r *Relay) IsInWebView() bool {
	return r.inWebView
}

// SetVisible controls whether EmitEvent delivers anything.
func (r *Relay) SetVisible(visible bool) {
	r.visible.Store(visible)
}

// Visible reports whether events are being delivered.
func (r *Relay) Visible() bool {
	return r.visible.Load()
}

// GetSliderState implements Bridge. Unknown IDs get a placeholder.
func (r *Relay) GetSliderState(id string) SliderState {
	p := r.lookup(id, param.KindContinuous)
	if p == nil {
		return placeholderSlider{}
	}
	return sliderHandle{newHandle(p)}
}

// GetToggleState implements Bridge. Unknown IDs get a placeholder.
func (r *Relay) GetToggleState(id string) ToggleState {
	p := r.lookup(id, param.KindToggle)
	if p == nil {
		return placeholderToggle{}
	}
	return toggleHandle{newHandle(p)}
}

// GetComboBoxState implements Bridge. Unknown IDs get a placeholder.
func (r *Relay) GetComboBoxState(id string) ComboBoxState {
	p := r.lookup(id, param.KindChoice)
	if p == nil {
		return placeholderCombo{}
	}
	return comboHandle{newHandle(p)}
}

func (r *Relay) lookup(id string, want param.Kind) *param.Parameter {
	p := r.registry.Get(id)
	if p == nil {
		r.log.Warn("unknown parameter id %q, serving placeholder", id)
		return nil
	}
	if got := p.Kind(); got != want {
		r.log.Debug("parameter %q is a %s, bound as %s", id, got, want)
	}
	return p
}

// AddCustomEventListener implements Bridge.
func (r *Relay) AddCustomEventListener(name string, fn func(json.RawMessage)) func() {
	return r.toUI.add(name, fn)
}

// EmitEvent JSON-encodes payload and delivers it to the listeners of name.
// Nothing is delivered while the view is hidden.
func (r *Relay) EmitEvent(name string, payload any) error {
	if !r.visible.Load() {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", name, err)
	}

	r.toUI.dispatch(name, data)
	return nil
}

// AddHostEventListener subscribes the host to events the UI sends with
// EmitToHost, such as "interaction" or "<param>_change".
func (r *Relay) AddHostEventListener(name string, fn func(json.RawMessage)) func() {
	return r.toHost.add(name, fn)
}

// EmitToHost implements HostEmitter. payload must be valid JSON.
func (r *Relay) EmitToHost(name string, payload json.RawMessage) error {
	if !json.Valid(payload) {
		return fmt.Errorf("%s event from ui: %w", name, ErrInvalidPayload)
	}
	if n := r.toHost.dispatch(name, payload); n == 0 {
		r.log.Debug("ui event %s has no host listener", name)
	}
	return nil
}

// eventTable holds named JSON event listeners.
type eventTable struct {
	mu        sync.Mutex
	listeners map[string][]eventListener
}

type eventListener struct {
	key uuid.UUID
	fn  func(json.RawMessage)
}

func (t *eventTable) add(name string, fn func(json.RawMessage)) func() {
	key := uuid.New()
	t.mu.Lock()
	if t.listeners == nil {
		t.listeners = make(map[string][]eventListener)
	}
	t.listeners[name] = append(t.listeners[name], eventListener{key: key, fn: fn})
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		list := t.listeners[name]
		for i, l := range list {
			if l.key == key {
				t.listeners[name] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// dispatch calls the listeners of name outside the lock and returns how
// many ran.
func (t *eventTable) dispatch(name string, data []byte) int {
	t.mu.Lock()
	listeners := slices.Clone(t.listeners[name])
	t.mu.Unlock()

	for _, l := range listeners {
		l.fn(json.RawMessage(data))
	}
	return len(listeners)
}

// handle binds one UI handle to a parameter. The parameter listener is only
// registered while the handle has listeners of its own.
type handle struct {
	p                 *param.Parameter
	valueChanged      *relayEvent
	propertiesChanged *relayEvent

	mu     sync.Mutex
	detach func()
}

func newHandle(p *param.Parameter) *handle {
	h := &handle{p: p}
	h.valueChanged = &relayEvent{h: h}
	h.propertiesChanged = &relayEvent{h: h}
	return h
}

// onChange skips changes this handle made itself. Writes the parameter
// coerced are reported back by the setters through coerced.
func (h *handle) onChange(_ *param.Parameter, c param.Change) {
	if c.Origin == h {
		return
	}
	switch c.Kind {
	case param.ValueChanged:
		h.valueChanged.list.Notify()
	case param.PropertiesChanged:
		h.propertiesChanged.list.Notify()
	}
}

// coerced tells this handle's own listeners that the value it wrote was
// not the value the parameter kept.
func (h *handle) coerced(kept bool) {
	if !kept {
		h.valueChanged.list.Notify()
	}
}

func (h *handle) attach() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.detach == nil {
		h.detach = h.p.AddListener(h.onChange)
	}
}

func (h *handle) detachIfIdle() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.detach != nil && h.valueChanged.list.Len()+h.propertiesChanged.list.Len() == 0 {
		h.detach()
		h.detach = nil
	}
}

type relayEvent struct {
	h    *handle
	list ListenerList
}

func (e *relayEvent) AddListener(fn func()) func() {
	remove := e.list.AddListener(fn)
	e.h.attach()
	return func() {
		remove()
		e.h.detachIfIdle()
	}
}

type sliderHandle struct{ *handle }

func (s sliderHandle) GetNormalisedValue() float64 { return s.p.GetValue() }
func (s sliderHandle) SliderDragStarted() { s.p.BeginGestureFrom(s.handle) }
func (s sliderHandle) SliderDragEnded() { s.p.EndGestureFrom(s.handle) }
func (s sliderHandle) ValueChangedEvent() Event { return s.valueChanged }

func (s sliderHandle) SetNormalisedValue(v float64) {
	s.p.SetValueFrom(v, s.handle)
	s.coerced(s.p.GetValue() == v)
}

type toggleHandle struct{ *handle }

func (t toggleHandle) GetValue() bool { return t.p.GetBool() }
func (t toggleHandle) SetValue(v bool) { t.p.SetBoolFrom(v, t.handle) }
func (t toggleHandle) ValueChangedEvent() Event { return t.valueChanged }

type comboHandle struct{ *handle }

func (c comboHandle) GetChoiceIndex() int { return c.p.ChoiceIndex() }
func (c comboHandle) GetChoices() []string { return c.p.Choices() }
func (c comboHandle) ValueChangedEvent() Event { return c.valueChanged }
func (c comboHandle) PropertiesChangedEvent() Event { return c.propertiesChanged }

func (c comboHandle) SetChoiceIndex(i int) {
	c.p.SetChoiceIndexFrom(i, c.handle)
	c.coerced(c.p.ChoiceIndex() == i)
}
