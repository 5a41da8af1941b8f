// Package bridge defines the handles a web view uses to reach host
// parameters, plus the host-side Relay that serves them.
//
// Every accessor returns a usable handle. When there is no live parameter
// behind it the handle is a placeholder: setters do nothing, getters return
// stable zero values and events never fire.
package bridge

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Event is a subscribable notification stream.
type Event interface {
	// AddListener registers fn and returns a func that removes it.
	AddListener(fn func()) (remove func())
}

// SliderState is the handle for a continuous parameter.
type SliderState interface {
	GetNormalisedValue() float64
	SetNormalisedValue(v float64)
	SliderDragStarted()
	SliderDragEnded()
	ValueChangedEvent() Event
}

// ToggleState is the handle for a boolean parameter.
type ToggleState interface {
	GetValue() bool
	SetValue(v bool)
	ValueChangedEvent() Event
}

// ComboBoxState is the handle for an enumerated parameter.
type ComboBoxState interface {
	GetChoiceIndex() int
	SetChoiceIndex(i int)
	GetChoices() []string
	ValueChangedEvent() Event
	PropertiesChangedEvent() Event
}

// Bridge hands out parameter handles and custom event subscriptions.
type Bridge interface {
	// IsInWebView reports whether a host is attached.
	IsInWebView() bool
	GetSliderState(id string) SliderState
	GetToggleState(id string) ToggleState
	GetComboBoxState(id string) ComboBoxState
	// AddCustomEventListener subscribes to a named host event. The payload
	// is the raw JSON the host emitted.
	AddCustomEventListener(name string, fn func(payload json.RawMessage)) (remove func())
}

// HostEmitter is implemented by bridges that carry events from the UI back
// to the host.
type HostEmitter interface {
	EmitToHost(name string, payload json.RawMessage) error
}

// ListenerList is an Event that can be fired. Listeners run in
// registration order on the goroutine that calls Notify.
type ListenerList struct {
	mu        sync.Mutex
	listeners []keyedListener
}

type keyedListener struct {
	key uuid.UUID
	fn  func()
}

// AddListener implements Event.
func (l *ListenerList) AddListener(fn func()) func() {
	key := uuid.New()
	l.mu.Lock()
	l.listeners = append(l.listeners, keyedListener{key: key, fn: fn})
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, kl := range l.listeners {
			if kl.key == key {
				l.listeners = append(l.listeners[:i:i], l.listeners[i+1:]...)
				return
			}
		}
	}
}

// Notify calls every listener.
func (l *ListenerList) Notify() {
	l.mu.Lock()
	snapshot := make([]keyedListener, len(l.listeners))
	copy(snapshot, l.listeners)
	l.mu.Unlock()

	for _, kl := range snapshot {
		kl.fn()
	}
}

// Len returns the number of listeners.
func (l *ListenerList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.listeners)
}
