package webview

import (
	"encoding/json"
	"sync"

	"github.com/dop251/goja"

	"github.com/justyntemme/paramrelay/pkg/bridge"
)

// The functions below run on the script goroutine with vmMu held.

func (h *Host) install() error {
	globals := map[string]any{
		"isInJuceWebView":        h.bridge.IsInWebView,
		"getSliderState":         h.sliderState,
		"getToggleState":         h.toggleState,
		"getComboBoxState":       h.comboState,
		"addCustomEventListener": h.addCustomEventListener,
		"emitEvent":              h.emitEvent,
	}
	for name, fn := range globals {
		if err := h.vm.Set(name, fn); err != nil {
			return err
		}
	}
	return nil
}

func (h *Host) sliderState(id string) *goja.Object {
	s := h.bridge.GetSliderState(id)
	obj := h.vm.NewObject()
	h.set(obj, "getNormalisedValue", s.GetNormalisedValue)
	h.set(obj, "setNormalisedValue", s.SetNormalisedValue)
	h.set(obj, "sliderDragStarted", s.SliderDragStarted)
	h.set(obj, "sliderDragEnded", s.SliderDragEnded)
	h.set(obj, "valueChangedEvent", h.event(s.ValueChangedEvent()))
	return obj
}

func (h *Host) toggleState(id string) *goja.Object {
	t := h.bridge.GetToggleState(id)
	obj := h.vm.NewObject()
	h.set(obj, "getValue", t.GetValue)
	h.set(obj, "setValue", t.SetValue)
	h.set(obj, "valueChangedEvent", h.event(t.ValueChangedEvent()))
	return obj
}

func (h *Host) comboState(id string) *goja.Object {
	c := h.bridge.GetComboBoxState(id)
	obj := h.vm.NewObject()
	h.set(obj, "getChoiceIndex", c.GetChoiceIndex)
	h.set(obj, "setChoiceIndex", c.SetChoiceIndex)
	h.set(obj, "getChoices", func() goja.Value {
		choices := c.GetChoices()
		values := make([]any, len(choices))
		for i, s := range choices {
			values[i] = s
		}
		return h.vm.NewArray(values...)
	})
	h.set(obj, "valueChangedEvent", h.event(c.ValueChangedEvent()))
	h.set(obj, "propertiesChangedEvent", h.event(c.PropertiesChangedEvent()))
	return obj
}

// event wraps a bridge event as {addListener(fn) -> remove}.
func (h *Host) event(ev bridge.Event) *goja.Object {
	obj := h.vm.NewObject()
	h.set(obj, "addListener", func(call goja.FunctionCall) goja.Value {
		fn := h.callable(call.Argument(0))
		remove := h.remover(ev.AddListener(func() {
			h.enqueue(func() { h.call(fn) })
		}))
		return h.vm.ToValue(remove)
	})
	return obj
}

func (h *Host) addCustomEventListener(call goja.FunctionCall) goja.Value {
	name := call.Argument(0).String()
	fn := h.callable(call.Argument(1))

	remove := h.remover(h.bridge.AddCustomEventListener(name, func(payload json.RawMessage) {
		data := append(json.RawMessage(nil), payload...)
		h.enqueue(func() {
			var v any
			if err := json.Unmarshal(data, &v); err != nil {
				h.log.Warn("event %s: undecodable payload: %v", name, err)
				return
			}
			h.call(fn, h.vm.ToValue(v))
		})
	}))
	return h.vm.ToValue(remove)
}

// emitEvent sends a JSON payload from script to the host. Bridges that do
// not carry UI events drop it.
func (h *Host) emitEvent(name string, payload goja.Value) {
	emitter, ok := h.bridge.(bridge.HostEmitter)
	if !ok {
		h.log.Debug("bridge has no host side, dropping %s event", name)
		return
	}
	var v any
	if payload != nil {
		v = payload.Export()
	}
	data, err := json.Marshal(v)
	if err != nil {
		panic(h.vm.NewTypeError("event %s: %v", name, err))
	}
	if err := emitter.EmitToHost(name, data); err != nil {
		panic(h.vm.NewGoError(err))
	}
}

// remover tracks remove for Close and returns a once-only version for
// script.
func (h *Host) remover(remove func()) func() {
	var once sync.Once
	wrapped := func() { once.Do(remove) }
	h.track(wrapped)
	return wrapped
}

func (h *Host) callable(v goja.Value) goja.Callable {
	fn, ok := goja.AssertFunction(v)
	if !ok {
		panic(h.vm.NewTypeError("listener must be a function"))
	}
	return fn
}

func (h *Host) set(obj *goja.Object, name string, v any) {
	if err := obj.Set(name, v); err != nil {
		panic(h.vm.NewGoError(err))
	}
}
