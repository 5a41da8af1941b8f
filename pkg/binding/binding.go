// Package binding connects bridge parameter handles to reactive stores.
//
// Each adapter reads its initial value from the host when it is connected
// and falls back to a caller supplied default otherwise. Connectivity is
// decided once, at construction: the bridge must report a web view and the
// handle must not be a placeholder. Local writes update the store and are
// forwarded to the host when connected; host notifications update the
// store. Close releases the host listeners.
package binding

import (
	"github.com/justyntemme/paramrelay/pkg/bridge"
	"github.com/justyntemme/paramrelay/pkg/framework/debug"
)

// Option configures an adapter.
type Option func(*options)

type options struct {
	log *debug.Logger
}

// WithLogger sets the logger adapters report to.
func WithLogger(l *debug.Logger) Option {
	return func(o *options) { o.log = l }
}

func newOptions(opts []Option) options {
	o := options{log: debug.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func connected(b bridge.Bridge, handle any) bool {
	return b.IsInWebView() && !bridge.IsPlaceholder(handle)
}

// releaser runs a set of removers once.
type releaser struct {
	removers []func()
	done     bool
}

func (r *releaser) add(remove func()) {
	r.removers = append(r.removers, remove)
}

func (r *releaser) release() {
	if r.done {
		return
	}
	r.done = true
	for _, remove := range r.removers {
		remove()
	}
	r.removers = nil
}
