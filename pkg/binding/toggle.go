package binding

import (
	"sync"

	"github.com/justyntemme/paramrelay/pkg/bridge"
	"github.com/justyntemme/paramrelay/pkg/store"
)

// Toggle binds a boolean parameter to a bool store.
type Toggle struct {
	id        string
	handle    bridge.ToggleState
	connected bool
	value     *store.Writable[bool]

	mu       sync.Mutex
	releaser releaser
}

// NewToggle binds the toggle parameter id. def is the value used when the
// host is not connected.
func NewToggle(b bridge.Bridge, id string, def bool, opts ...Option) *Toggle {
	o := newOptions(opts)
	h := b.GetToggleState(id)

	t := &Toggle{
		id:        id,
		handle:    h,
		connected: connected(b, h),
	}

	initial := def
	if t.connected {
		initial = h.GetValue()
	}
	t.value = store.NewWritable(initial)

	if t.connected {
		t.releaser.add(h.ValueChangedEvent().AddListener(func() {
			t.value.Set(h.GetValue())
		}))
	}

	o.log.With("param", id).Debug("toggle bound, connected=%t value=%t", t.connected, initial)
	return t
}

// ID returns the parameter identifier.
func (t *Toggle) ID() string { return t.id }

// IsConnected reports whether writes reach the host.
func (t *Toggle) IsConnected() bool { return t.connected }

// Get returns the current value.
func (t *Toggle) Get() bool { return t.value.Get() }

// Subscribe calls fn with the current value and every later one.
func (t *Toggle) Subscribe(fn func(bool)) store.Unsubscriber {
	return t.value.Subscribe(fn)
}

// Set stores v and forwards it to the host when connected.
func (t *Toggle) Set(v bool) {
	t.value.Set(v)
	if t.connected {
		t.handle.SetValue(v)
	}
}

// Toggle flips the value the store holds now, forwards it when connected
// and returns it.
func (t *Toggle) Toggle() bool {
	v := t.value.Update(func(on bool) bool { return !on })
	if t.connected {
		t.handle.SetValue(v)
	}
	return v
}

// Close stops following host changes. The store keeps its last value.
func (t *Toggle) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.releaser.release()
}
