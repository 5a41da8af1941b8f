package binding

import (
	"sync"

	"github.com/justyntemme/paramrelay/pkg/bridge"
	"github.com/justyntemme/paramrelay/pkg/store"
)

// Slider binds a continuous parameter to a normalized float64 store.
type Slider struct {
	id        string
	handle    bridge.SliderState
	connected bool
	value     *store.Writable[float64]

	mu       sync.Mutex
	releaser releaser
}

// NewSlider binds the slider parameter id. def is the value used when the
// host is not connected.
func NewSlider(b bridge.Bridge, id string, def float64, opts ...Option) *Slider {
	o := newOptions(opts)
	h := b.GetSliderState(id)

	s := &Slider{
		id:        id,
		handle:    h,
		connected: connected(b, h),
	}

	initial := def
	if s.connected {
		initial = h.GetNormalisedValue()
	}
	s.value = store.NewWritable(initial)

	if s.connected {
		s.releaser.add(h.ValueChangedEvent().AddListener(func() {
			s.value.Set(h.GetNormalisedValue())
		}))
	}

	o.log.With("param", id).Debug("slider bound, connected=%t value=%g", s.connected, initial)
	return s
}

// ID returns the parameter identifier.
func (s *Slider) ID() string { return s.id }

// IsConnected reports whether writes reach the host.
func (s *Slider) IsConnected() bool { return s.connected }

// Get returns the current normalized value.
func (s *Slider) Get() float64 { return s.value.Get() }

// Subscribe calls fn with the current value and every later one.
func (s *Slider) Subscribe(fn func(float64)) store.Unsubscriber {
	return s.value.Subscribe(fn)
}

// Set stores v and forwards it to the host when connected.
func (s *Slider) Set(v float64) {
	s.value.Set(v)
	if s.connected {
		s.handle.SetNormalisedValue(v)
	}
}

// Update applies fn to the current value and forwards the result like Set.
func (s *Slider) Update(fn func(float64) float64) float64 {
	v := s.value.Update(fn)
	if s.connected {
		s.handle.SetNormalisedValue(v)
	}
	return v
}

// OnDragStart tells the host a drag gesture began.
func (s *Slider) OnDragStart() { s.handle.SliderDragStarted() }

// OnDragEnd tells the host the drag gesture ended.
func (s *Slider) OnDragEnd() { s.handle.SliderDragEnded() }

// Close stops following host changes. The store keeps its last value.
func (s *Slider) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaser.release()
}
