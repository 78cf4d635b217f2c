package client

import (
	"context"
	"sync"
	"time"
)

// Poller runs a function on a fixed interval until it reports done or the
// poller is stopped. Stopping is idempotent and always releases the ticker.
type Poller struct {
	interval time.Duration
	fn       func(ctx context.Context) bool

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewPoller creates a poller calling fn every interval. fn returns true
// when polling should stop.
func NewPoller(interval time.Duration, fn func(ctx context.Context) bool) *Poller {
	return &Poller{interval: interval, fn: fn}
}

// Start launches the polling loop. Starting a running poller is a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true

	go p.loop(ctx)
}

func (p *Poller) loop(ctx context.Context) {
	defer close(p.done)
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if p.fn(ctx) {
				return
			}
		}
	}
}

// Stop cancels the polling loop and waits for it to exit
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the loop is active
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
