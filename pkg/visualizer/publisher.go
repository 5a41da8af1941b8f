package visualizer

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/justyntemme/paramrelay/pkg/framework/debug"
)

// DefaultRate is the publish rate in Hz when none is configured.
const DefaultRate = 30.0

// Emitter delivers a named event to the UI.
type Emitter interface {
	EmitEvent(name string, payload any) error
}

// Source produces snapshots.
type Source interface {
	Snapshot() Data
}

// Publisher periodically emits snapshots on EventName.
type Publisher struct {
	emitter  Emitter
	source   Source
	interval time.Duration
	log      *debug.Logger
	sent     atomic.Uint64
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithRate sets the publish rate in Hz. Non-positive rates are ignored.
func WithRate(hz float64) Option {
	return func(p *Publisher) {
		if hz > 0 {
			p.interval = time.Duration(float64(time.Second) / hz)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *debug.Logger) Option {
	return func(p *Publisher) { p.log = l }
}

// NewPublisher creates a publisher that sends source snapshots through
// emitter.
func NewPublisher(emitter Emitter, source Source, opts ...Option) *Publisher {
	p := &Publisher{
		emitter: emitter,
		source:  source,
		log:     debug.Default(),
	}
	WithRate(DefaultRate)(p)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PublishOnce emits a single snapshot.
func (p *Publisher) PublishOnce() error {
	if err := p.emitter.EmitEvent(EventName, p.source.Snapshot()); err != nil {
		return fmt.Errorf("publish visualizer data: %w", err)
	}
	p.sent.Add(1)
	return nil
}

// Run publishes at the configured rate until ctx is done. Emit errors are
// logged and do not stop the loop.
func (p *Publisher) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.log.Debug("visualizer publishing every %v", p.interval)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.PublishOnce(); err != nil {
				p.log.Warn("%v", err)
			}
		}
	}
}

// Sent returns how many snapshots were emitted successfully.
func (p *Publisher) Sent() uint64 {
	return p.sent.Load()
}
