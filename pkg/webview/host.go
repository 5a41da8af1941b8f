// Package webview runs UI script against a bridge, exposing it under the
// names a JUCE web view provides: isInJuceWebView, getSliderState,
// getToggleState, getComboBoxState and addCustomEventListener.
//
// Script never runs concurrently. Bridge notifications may arrive on any
// goroutine; they are queued and delivered to script by Run, Flush or
// Serve.
package webview

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dop251/goja"

	"github.com/justyntemme/paramrelay/pkg/bridge"
	"github.com/justyntemme/paramrelay/pkg/framework/debug"
)

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("webview host closed")

// Host owns a JavaScript runtime bound to a bridge.
type Host struct {
	bridge bridge.Bridge
	log    *debug.Logger

	vmMu sync.Mutex
	vm   *goja.Runtime

	mu       sync.Mutex
	queue    []func()
	removers []func()
	closed   bool
	wake     chan struct{}
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the host logger.
func WithLogger(l *debug.Logger) Option {
	return func(h *Host) { h.log = l }
}

// New creates a host and installs the bridge globals.
func New(b bridge.Bridge, opts ...Option) (*Host, error) {
	h := &Host{
		bridge: b,
		log:    debug.Default(),
		vm:     goja.New(),
		wake:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.With("component", "webview")

	if err := h.install(); err != nil {
		return nil, fmt.Errorf("install bridge globals: %w", err)
	}
	return h, nil
}

// Run executes src, then delivers any queued notifications. It returns
// the exported completion value of src.
func (h *Host) Run(src string) (any, error) {
	if h.isClosed() {
		return nil, ErrClosed
	}

	h.vmMu.Lock()
	value, err := h.vm.RunString(src)
	h.vmMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("run script: %w", err)
	}

	h.Flush()
	return value.Export(), nil
}

// Flush delivers queued notifications to script and returns how many ran.
func (h *Host) Flush() int {
	n := 0
	for {
		h.mu.Lock()
		if h.closed || len(h.queue) == 0 {
			h.queue = nil
			h.mu.Unlock()
			return n
		}
		pending := h.queue
		h.queue = nil
		h.mu.Unlock()

		h.vmMu.Lock()
		for _, fn := range pending {
			fn()
		}
		h.vmMu.Unlock()
		n += len(pending)
	}
}

// Serve delivers notifications as they arrive until ctx is done or the
// host is closed.
func (h *Host) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-h.wake:
			h.Flush()
			if h.isClosed() {
				return ErrClosed
			}
		}
	}
}

// Close removes every listener script registered and drops queued
// notifications.
func (h *Host) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	removers := h.removers
	h.removers = nil
	h.queue = nil
	h.mu.Unlock()

	for _, remove := range removers {
		remove()
	}
	h.signal()
	h.log.Debug("closed, released %d listeners", len(removers))
}

func (h *Host) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

func (h *Host) enqueue(fn func()) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.queue = append(h.queue, fn)
	h.mu.Unlock()
	h.signal()
}

func (h *Host) signal() {
	select {
	case h.wake <- struct{}{}:
	default:
	}
}

func (h *Host) track(remove func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removers = append(h.removers, remove)
}

// call invokes a script callback. Must hold vmMu.
func (h *Host) call(fn goja.Callable, args ...goja.Value) {
	if _, err := fn(goja.Undefined(), args...); err != nil {
		h.log.Error("listener failed: %v", err)
	}
}
