// Package poller keeps server-owned state fresh in the background.
package poller

import (
	"context"
	"time"

	applog "barstore/internal/log"
)

// Refresher is anything that can re-read its state from the backend.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type RefreshFunc func(ctx context.Context) error

func (f RefreshFunc) Refresh(ctx context.Context) error { return f(ctx) }

type Poller struct {
	name      string
	interval  time.Duration
	target    Refresher
	immediate bool
}

// New returns a poller that refreshes target every interval. A non-positive
// interval disables it and Run returns at once.
func New(name string, interval time.Duration, target Refresher) *Poller {
	return &Poller{name: name, interval: interval, target: target}
}

// Immediate makes Run refresh once before waiting for the first tick.
func (p *Poller) Immediate() *Poller {
	p.immediate = true
	return p
}

// Run blocks until ctx is cancelled. Failures are logged and the loop keeps
// going; the target records them in its own state.
func (p *Poller) Run(ctx context.Context) {
	if p.interval <= 0 {
		return
	}
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	if p.immediate {
		p.tick(ctx)
	}
	for {
		select {
		case <-ticker.C:
			p.tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	if err := p.target.Refresh(ctx); err != nil && ctx.Err() == nil {
		applog.Warn("poll.fail", err, map[string]any{"target": p.name})
	}
}
