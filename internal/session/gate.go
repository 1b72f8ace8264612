package session

import (
	"context"
	"sync"
	"time"
)

// gate is the session's send-gate: a binary latch, single-producer
// (the receive path) / multi-consumer (keep-alive and the sender loop
// both wait on it). Flipping it broadcasts to every waiter by closing and
// replacing an internal channel, the standard Go substitute for a
// condition variable that composes with select/timeout.
type gate struct {
	mu   sync.Mutex
	open bool
	ch   chan struct{}
}

func newGate() *gate {
	return &gate{open: true, ch: make(chan struct{})}
}

func (g *gate) Open() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.open
}

func (g *gate) SetOpen(v bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.open == v {
		return
	}
	g.open = v
	close(g.ch)
	g.ch = make(chan struct{})
}

// WaitOpen blocks until the gate is open, polling every pollEvery and
// invoking onWait on each poll that finds it still closed. It returns
// false if ctx is done first.
func (g *gate) WaitOpen(ctx context.Context, pollEvery time.Duration, onWait func()) bool {
	for {
		g.mu.Lock()
		open := g.open
		ch := g.ch
		g.mu.Unlock()
		if open {
			return true
		}
		if onWait != nil {
			onWait()
		}
		select {
		case <-ch:
		case <-time.After(pollEvery):
		case <-ctx.Done():
			return false
		}
	}
}
