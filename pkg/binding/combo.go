package binding

import (
	"slices"
	"sync"

	"github.com/justyntemme/paramrelay/pkg/bridge"
	"github.com/justyntemme/paramrelay/pkg/store"
)

// ComboState is the selected index and the list it indexes. The adapter
// mirrors the host and does not check that Index is within Choices.
type ComboState struct {
	Index   int      `json:"index"`
	Choices []string `json:"choices"`
}

func (s ComboState) clone() ComboState {
	s.Choices = slices.Clone(s.Choices)
	if s.Choices == nil {
		s.Choices = []string{}
	}
	return s
}

// Combo binds an enumerated parameter to a ComboState store.
type Combo struct {
	id        string
	handle    bridge.ComboBoxState
	connected bool
	state     *store.Writable[ComboState]

	mu       sync.Mutex
	releaser releaser
}

// NewCombo binds the choice parameter id. When the host is not connected
// the state is {defaultIndex, []}.
func NewCombo(b bridge.Bridge, id string, defaultIndex int, opts ...Option) *Combo {
	o := newOptions(opts)
	h := b.GetComboBoxState(id)

	c := &Combo{
		id:        id,
		handle:    h,
		connected: connected(b, h),
	}

	initial := ComboState{Index: defaultIndex, Choices: []string{}}
	if c.connected {
		initial = ComboState{Index: h.GetChoiceIndex(), Choices: h.GetChoices()}.clone()
	}
	c.state = store.NewWritable(initial)

	if c.connected {
		c.releaser.add(h.ValueChangedEvent().AddListener(func() {
			index := h.GetChoiceIndex()
			c.state.Update(func(s ComboState) ComboState {
				s.Index = index
				return s
			})
		}))
		c.releaser.add(h.PropertiesChangedEvent().AddListener(func() {
			choices := slices.Clone(h.GetChoices())
			if choices == nil {
				choices = []string{}
			}
			c.state.Update(func(s ComboState) ComboState {
				s.Choices = choices
				return s
			})
		}))
	}

	o.log.With("param", id).Debug("combo bound, connected=%t index=%d choices=%d",
		c.connected, initial.Index, len(initial.Choices))
	return c
}

// ID returns the parameter identifier.
func (c *Combo) ID() string { return c.id }

// IsConnected reports whether writes reach the host.
func (c *Combo) IsConnected() bool { return c.connected }

// Get returns a copy of the current state.
func (c *Combo) Get() ComboState { return c.state.Get().clone() }

// Subscribe calls fn with the current state and every later one. Each call
// receives its own copy of the choice list.
func (c *Combo) Subscribe(fn func(ComboState)) store.Unsubscriber {
	return c.state.Subscribe(func(s ComboState) { fn(s.clone()) })
}

// SetIndex selects i locally, keeping the choice list, and forwards it to
// the host when connected.
func (c *Combo) SetIndex(i int) {
	c.state.Update(func(s ComboState) ComboState {
		s.Index = i
		return s
	})
	if c.connected {
		c.handle.SetChoiceIndex(i)
	}
}

// Close stops following host changes. The store keeps its last state.
func (c *Combo) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaser.release()
}
