// Package store provides observable values that UI code subscribes to.
//
// A store always holds a value. Subscribing calls the subscriber once with
// the current value and then again after every Set or Update, on the
// goroutine that made the change. Subscribers run outside the store's lock,
// so they may read or write the store they are subscribed to.
package store

import "sync"

// Unsubscriber removes a subscription. Calling it more than once is safe.
type Unsubscriber func()

// Readable is the read side of a store.
type Readable[T any] interface {
	Get() T
	Subscribe(fn func(T)) Unsubscriber
}

// Writable is a mutable store.
type Writable[T any] struct {
	mu     sync.Mutex
	value  T
	subs   []subscription[T]
	nextID uint64
}

type subscription[T any] struct {
	id uint64
	fn func(T)
}

// NewWritable returns a store holding initial.
func NewWritable[T any](initial T) *Writable[T] {
	return &Writable[T]{value: initial}
}

// Get returns the current value.
func (w *Writable[T]) Get() T {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.value
}

// Set replaces the value and notifies subscribers.
func (w *Writable[T]) Set(v T) {
	w.mu.Lock()
	w.value = v
	subs := w.snapshot()
	w.mu.Unlock()

	notify(subs, v)
}

// Update replaces the value with fn applied to the value held at call time
// and returns the result. fn runs under the store lock and must not touch
// the store.
func (w *Writable[T]) Update(fn func(T) T) T {
	w.mu.Lock()
	v := fn(w.value)
	w.value = v
	subs := w.snapshot()
	w.mu.Unlock()

	notify(subs, v)
	return v
}

// Subscribe calls fn with the current value, then with every later value.
func (w *Writable[T]) Subscribe(fn func(T)) Unsubscriber {
	w.mu.Lock()
	w.nextID++
	id := w.nextID
	w.subs = append(w.subs, subscription[T]{id: id, fn: fn})
	current := w.value
	w.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() { w.remove(id) })
	}
}

// SubscriberCount returns the number of live subscriptions.
func (w *Writable[T]) SubscriberCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.subs)
}

// Readonly hides the write side of the store.
func (w *Writable[T]) Readonly() Readable[T] {
	return readonly[T]{w}
}

func (w *Writable[T]) remove(id uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, s := range w.subs {
		if s.id == id {
			w.subs = append(w.subs[:i:i], w.subs[i+1:]...)
			return
		}
	}
}

func (w *Writable[T]) snapshot() []subscription[T] {
	out := make([]subscription[T], len(w.subs))
	copy(out, w.subs)
	return out
}

func notify[T any](subs []subscription[T], v T) {
	for _, s := range subs {
		s.fn(v)
	}
}

type readonly[T any] struct {
	w *Writable[T]
}

func (r readonly[T]) Get() T { return r.w.Get() }
func (r readonly[T]) Subscribe(fn func(T)) Unsubscriber { return r.w.Subscribe(fn) }
