package param

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"sync/atomic"
)

// Kind classifies how a parameter is presented to a UI.
type Kind int

const (
	// KindContinuous is a slider style parameter.
	KindContinuous Kind = iota
	// KindToggle is an on/off parameter.
	KindToggle
	// KindChoice is an enumerated parameter with a list of display names.
	KindChoice
)

// String returns the lowercase kind name used in layouts and logs.
func (k Kind) String() string {
	switch k {
	case KindContinuous:
		return "slider"
	case KindToggle:
		return "toggle"
	case KindChoice:
		return "choice"
	default:
		return "unknown"
	}
}

// ChangeKind identifies what changed on a parameter.
type ChangeKind int

const (
	// ValueChanged fires when the normalized value changes.
	ValueChanged ChangeKind = iota
	// PropertiesChanged fires when the choice list changes.
	PropertiesChanged
	// GestureBegan fires when an editor starts dragging the parameter.
	GestureBegan
	// GestureEnded fires when the drag is released.
	GestureEnded
)

// Change describes a single notification. Origin is whatever the caller
// passed to the mutating method, so listeners can ignore their own writes.
type Change struct {
	Kind   ChangeKind
	Origin any
}

// Listener receives parameter notifications. It is called synchronously on
// the goroutine that made the change and must not block.
type Listener func(p *Parameter, c Change)

// Parameter represents a host-owned plugin parameter
type Parameter struct {
	ID           string
	Name         string
	ShortName    string
	Unit         string
	Min          float64
	Max          float64
	DefaultValue float64 // normalized
	StepCount    int32
	Flags        uint32

	// Atomic value for lock-free access in audio thread
	value    atomic.Uint64
	gestures atomic.Int32

	mu        sync.RWMutex
	choices   []string
	listeners []listenerEntry
	nextID    uint64

	formatFunc func(float64) string
	parseFunc  func(string) (float64, error)
}

type listenerEntry struct {
	id uint64
	fn Listener
}

// Flags for parameters
const (
	CanAutomate uint32 = 1 << 0
	IsReadOnly  uint32 = 1 << 1
	IsList      uint32 = 1 << 3
	IsHidden    uint32 = 1 << 4
	IsBypass    uint32 = 1 << 16
)

// Kind reports how the parameter should be bound.
func (p *Parameter) Kind() Kind {
	p.mu.RLock()
	n := len(p.choices)
	steps := p.StepCount
	p.mu.RUnlock()
	switch {
	case n > 0:
		return KindChoice
	case steps == 1:
		return KindToggle
	default:
		return KindContinuous
	}
}

// GetValue returns the current normalized value (0-1)
func (p *Parameter) GetValue() float64 {
	return math.Float64frombits(p.value.Load())
}

// SetValue sets the normalized value with no origin.
func (p *Parameter) SetValue(value float64) {
	p.SetValueFrom(value, nil)
}

// SetValueFrom clamps value to 0-1, stores it and notifies listeners if it
// changed.
func (p *Parameter) SetValueFrom(value float64, origin any) {
	value = clamp01(value)
	old := p.value.Swap(math.Float64bits(value))
	if old == math.Float64bits(value) {
		return
	}
	p.notify(Change{Kind: ValueChanged, Origin: origin})
}

// GetBool returns the toggle state.
func (p *Parameter) GetBool() bool {
	return p.GetValue() >= 0.5
}

// SetBoolFrom sets a toggle parameter.
func (p *Parameter) SetBoolFrom(on bool, origin any) {
	if on {
		p.SetValueFrom(1, origin)
		return
	}
	p.SetValueFrom(0, origin)
}

// GetPlainValue converts normalized to plain value
func (p *Parameter) GetPlainValue() float64 {
	return p.Denormalize(p.GetValue())
}

// SetPlainValue converts plain to normalized value
func (p *Parameter) SetPlainValue(plain float64) {
	p.SetValue(p.Normalize(plain))
}

// Choices returns a copy of the choice list.
func (p *Parameter) Choices() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, len(p.choices))
	copy(out, p.choices)
	return out
}

// ChoiceIndex maps the normalized value onto the choice list.
func (p *Parameter) ChoiceIndex() int {
	p.mu.RLock()
	n := len(p.choices)
	p.mu.RUnlock()
	return indexFor(p.GetValue(), n)
}

// SetChoiceIndexFrom selects a choice. Out of range indices are clamped to
// the list.
func (p *Parameter) SetChoiceIndexFrom(index int, origin any) {
	p.mu.RLock()
	n := len(p.choices)
	p.mu.RUnlock()
	p.SetValueFrom(valueFor(index, n), origin)
}

// SetChoicesFrom replaces the choice list and fires PropertiesChanged. The
// selected index is kept where the new list allows it. The plain range and
// step count follow the new list.
func (p *Parameter) SetChoicesFrom(choices []string, origin any) {
	p.mu.Lock()
	index := indexFor(p.GetValue(), len(p.choices))
	p.choices = append([]string(nil), choices...)
	n := len(p.choices)
	p.Max = float64(max(n-1, 0))
	p.StepCount = int32(max(n-1, 0))
	p.mu.Unlock()

	p.notify(Change{Kind: PropertiesChanged, Origin: origin})
	p.SetValueFrom(valueFor(index, n), origin)
}

// BeginGestureFrom marks the start of an edit gesture.
func (p *Parameter) BeginGestureFrom(origin any) {
	p.gestures.Add(1)
	p.notify(Change{Kind: GestureBegan, Origin: origin})
}

// EndGestureFrom marks the end of an edit gesture. Unbalanced ends are
// ignored.
func (p *Parameter) EndGestureFrom(origin any) {
	for {
		n := p.gestures.Load()
		if n <= 0 {
			return
		}
		if p.gestures.CompareAndSwap(n, n-1) {
			break
		}
	}
	p.notify(Change{Kind: GestureEnded, Origin: origin})
}

// InGesture reports whether an edit gesture is in progress.
func (p *Parameter) InGesture() bool {
	return p.gestures.Load() > 0
}

// AddListener registers fn and returns a func that removes it.
func (p *Parameter) AddListener(fn Listener) func() {
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.listeners = append(p.listeners, listenerEntry{id: id, fn: fn})
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			for i, l := range p.listeners {
				if l.id == id {
					p.listeners = append(p.listeners[:i:i], p.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// ListenerCount returns the number of registered listeners.
func (p *Parameter) ListenerCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.listeners)
}

func (p *Parameter) notify(c Change) {
	p.mu.RLock()
	snapshot := make([]listenerEntry, len(p.listeners))
	copy(snapshot, p.listeners)
	p.mu.RUnlock()

	for _, l := range snapshot {
		l.fn(p, c)
	}
}

// SetFormatter sets custom value formatting
func (p *Parameter) SetFormatter(format func(float64) string, parse func(string) (float64, error)) {
	p.formatFunc = format
	p.parseFunc = parse
}

// FormatValue returns formatted parameter value
func (p *Parameter) FormatValue(normalized float64) string {
	switch p.Kind() {
	case KindChoice:
		p.mu.RLock()
		defer p.mu.RUnlock()
		return p.choices[indexFor(normalized, len(p.choices))]
	case KindToggle:
		if normalized >= 0.5 {
			return "On"
		}
		return "Off"
	}

	plain := p.Denormalize(normalized)
	if p.formatFunc != nil {
		return p.formatFunc(plain)
	}
	p.mu.RLock()
	steps := p.StepCount
	p.mu.RUnlock()
	if steps > 0 {
		return fmt.Sprintf("%.0f", plain)
	}
	if p.Unit != "" {
		return fmt.Sprintf("%.2f %s", plain, p.Unit)
	}
	return fmt.Sprintf("%.2f", plain)
}

// ParseValue parses string to normalized value
func (p *Parameter) ParseValue(str string) (float64, error) {
	if p.parseFunc != nil {
		plain, err := p.parseFunc(str)
		if err != nil {
			return 0, err
		}
		return p.Normalize(plain), nil
	}
	plain, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q for %s: %w", str, p.ID, err)
	}
	return p.Normalize(plain), nil
}

// Normalize converts plain value to normalized (0-1)
func (p *Parameter) Normalize(plain float64) float64 {
	lo, hi := p.bounds()
	if hi <= lo {
		return 0
	}
	return clamp01((plain - lo) / (hi - lo))
}

// Denormalize converts normalized (0-1) to plain value
func (p *Parameter) Denormalize(normalized float64) float64 {
	lo, hi := p.bounds()
	return lo + normalized*(hi-lo)
}

func (p *Parameter) bounds() (float64, float64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Min, p.Max
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func indexFor(normalized float64, n int) int {
	if n <= 1 {
		return 0
	}
	return int(math.Round(normalized * float64(n-1)))
}

func valueFor(index, n int) float64 {
	if n <= 1 || index <= 0 {
		return 0
	}
	if index >= n-1 {
		return 1
	}
	return float64(index) / float64(n-1)
}
