package particles

import (
	"context"
	"sync"
	"time"
)

// State is the lifecycle position of a Loop.
type State int

const (
	StateUninitialized State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Loop drives an Animator one frame tick at a time. Ticks may come from a
// host that owns the display refresh (call Frame from the host's draw
// callback) or from a channel passed to Run. Resize and Frame are
// serialized, so a host may call Resize from its own goroutine while Run
// is ticking.
type Loop struct {
	mu    sync.Mutex
	anim  *Animator
	state State

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLoop wraps anim. The loop is uninitialized until the first Resize.
func NewLoop(anim *Animator) *Loop {
	return &Loop{
		anim: anim,
		stop: make(chan struct{}),
	}
}

// Resize regenerates the particle set for a width x height viewport. The
// loop keeps ticking; it is not restarted. Resizing a stopped loop does
// nothing.
func (l *Loop) Resize(width, height float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == StateStopped {
		return
	}
	l.anim.Initialize(width, height)
	l.state = StateRunning
}

// Frame renders the current particles onto s and then advances them. It
// reports false once the loop has been stopped, in which case nothing is
// drawn.
func (l *Loop) Frame(s Surface) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == StateStopped {
		return false
	}
	l.anim.Frame(s)
	return true
}

// Run ticks the loop once per value received on ticks until ctx is done,
// Stop is called, or ticks is closed. Cancelling ctx stops the loop.
func (l *Loop) Run(ctx context.Context, ticks <-chan time.Time, s Surface) error {
	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case <-l.stop:
			return nil
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			if !l.Frame(s) {
				return nil
			}
		}
	}
}

// Stop ends the loop. It is safe to call more than once and from any
// goroutine.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		l.mu.Lock()
		l.state = StateStopped
		l.mu.Unlock()
		close(l.stop)
	})
}

// Done is closed once Stop has been called.
func (l *Loop) Done() <-chan struct{} {
	return l.stop
}

// State returns where the loop is in its lifecycle.
func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Particles returns a snapshot of the current particle set.
func (l *Loop) Particles() []Particle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.anim.Particles()
}

// Viewport returns the bounds set by the last Resize.
func (l *Loop) Viewport() (width, height float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.anim.Viewport()
}
