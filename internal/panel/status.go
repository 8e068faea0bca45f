// Package panel turns user actions into backend requests and the results
// into the status text shown next to each control. Panels never return
// errors: every failure ends up as a Status with the error tone.
package panel

import (
	"strings"
	"sync/atomic"
	"time"
)

// Tone selects the colour a status is drawn in.
type Tone int

const (
	Neutral Tone = iota
	OK
	Failure
)

func (t Tone) String() string {
	switch t {
	case OK:
		return "ok"
	case Failure:
		return "failure"
	default:
		return "neutral"
	}
}

// Status is what a panel shows after an action.
type Status struct {
	Lines []string
	Tone  Tone
	// CloseAfter, when non-zero, asks the host to leave the panel after
	// the delay.
	CloseAfter time.Duration
}

func neutral(lines ...string) Status { return Status{Lines: lines} }

func ok(line string) Status { return Status{Lines: []string{line}, Tone: OK} }

func failure(line string) Status { return Status{Lines: []string{line}, Tone: Failure} }

// Text joins the lines for single-string displays.
func (s Status) Text() string { return strings.Join(s.Lines, "\n") }

// Failed reports whether the status carries the error tone.
func (s Status) Failed() bool { return s.Tone == Failure }

// Guard tracks whether an action has a request in flight.
type Guard struct {
	busy atomic.Bool
}

// Begin claims the action. It returns false while a request is outstanding.
func (g *Guard) Begin() bool { return g.busy.CompareAndSwap(false, true) }

// End releases the action.
func (g *Guard) End() { g.busy.Store(false) }

// Busy reports whether a request is outstanding.
func (g *Guard) Busy() bool { return g.busy.Load() }

// Go runs fn on its own goroutine holding the guard. A trigger while a
// request is in flight is dropped and Go returns false.
func (g *Guard) Go(fn func()) bool {
	if !g.Begin() {
		return false
	}
	go func() {
		defer g.End()
		fn()
	}()
	return true
}
