package binding

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/justyntemme/paramrelay/pkg/bridge"
	"github.com/justyntemme/paramrelay/pkg/framework/debug"
	"github.com/justyntemme/paramrelay/pkg/store"
	"github.com/justyntemme/paramrelay/pkg/visualizer"
)

// Visualizer is a read-only store of the latest visualizer snapshot. The
// composition root creates one and hands it to the views that draw it.
type Visualizer struct {
	data     *store.Writable[visualizer.Data]
	log      *debug.Logger
	rejected atomic.Uint64

	mu     sync.Mutex
	remove func()
}

// NewVisualizer subscribes to the visualizer event channel of b. Until the
// first payload arrives the store holds visualizer.Default().
func NewVisualizer(b bridge.Bridge, opts ...Option) *Visualizer {
	o := newOptions(opts)
	v := &Visualizer{
		data: store.NewWritable(visualizer.Default()),
		log:  o.log.With("event", visualizer.EventName),
	}
	v.remove = b.AddCustomEventListener(visualizer.EventName, v.receive)
	return v
}

func (v *Visualizer) receive(payload json.RawMessage) {
	d, err := visualizer.Decode(payload)
	if err != nil {
		v.rejected.Add(1)
		v.log.Warn("dropping payload: %v", err)
		return
	}
	v.data.Set(d)
}

// Get returns the latest snapshot.
func (v *Visualizer) Get() visualizer.Data { return v.data.Get() }

// Subscribe calls fn with the latest snapshot and every later one.
func (v *Visualizer) Subscribe(fn func(visualizer.Data)) store.Unsubscriber {
	return v.data.Subscribe(fn)
}

// Rejected returns how many payloads failed validation.
func (v *Visualizer) Rejected() uint64 { return v.rejected.Load() }

// Close unsubscribes from the event channel.
func (v *Visualizer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.remove != nil {
		v.remove()
		v.remove = nil
	}
}
