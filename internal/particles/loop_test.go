package particles

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoopStates(t *testing.T) {
	l := NewLoop(NewAnimator(DefaultStyle(), seeded(10)))
	if l.State() != StateUninitialized {
		t.Fatalf("new loop: got %s, want uninitialized", l.State())
	}

	l.Resize(800, 600)
	if l.State() != StateRunning {
		t.Fatalf("after resize: got %s, want running", l.State())
	}

	l.Resize(1024, 768)
	if l.State() != StateRunning {
		t.Fatalf("resize while running: got %s, want running", l.State())
	}
	if w, h := l.Viewport(); w != 1024 || h != 768 {
		t.Errorf("viewport: got %fx%f", w, h)
	}

	l.Stop()
	l.Stop()
	if l.State() != StateStopped {
		t.Fatalf("after stop: got %s, want stopped", l.State())
	}
	select {
	case <-l.Done():
	default:
		t.Error("Done should be closed after Stop")
	}

	l.Resize(10, 10)
	if w, _ := l.Viewport(); w != 1024 {
		t.Error("resize after stop should be ignored")
	}
}

func TestLoopFrameAfterStop(t *testing.T) {
	l := NewLoop(NewAnimator(DefaultStyle(), seeded(11)))
	l.Resize(800, 600)

	s := &recordingSurface{}
	if !l.Frame(s) {
		t.Fatal("Frame on running loop should report true")
	}
	if s.clears != 1 {
		t.Errorf("expected one clear, got %d", s.clears)
	}

	l.Stop()
	before := l.Particles()
	if l.Frame(s) {
		t.Error("Frame after Stop should report false")
	}
	if s.clears != 1 {
		t.Error("Frame after Stop should not draw")
	}
	after := l.Particles()
	for i := range before {
		if before[i] != after[i] {
			t.Fatal("Frame after Stop should not advance")
		}
	}
}

func TestLoopRunTicksUntilStop(t *testing.T) {
	l := NewLoop(NewAnimator(DefaultStyle(), seeded(12)))
	l.Resize(800, 600)

	ticks := make(chan time.Time)
	s := &signalSurface{drawn: make(chan struct{}, 3)}
	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background(), ticks, s) }()

	for i := 0; i < 3; i++ {
		ticks <- time.Now()
		<-s.drawn
	}
	l.Stop()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run after Stop: got %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
	if s.clears != 3 {
		t.Errorf("expected 3 frames, got %d", s.clears)
	}
}

// signalSurface reports each cleared frame on drawn.
type signalSurface struct {
	recordingSurface
	drawn chan struct{}
}

func (s *signalSurface) Clear() {
	s.recordingSurface.Clear()
	s.drawn <- struct{}{}
}

func TestLoopRunContextCancel(t *testing.T) {
	l := NewLoop(NewAnimator(DefaultStyle(), seeded(13)))
	l.Resize(800, 600)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx, make(chan time.Time), &recordingSurface{}) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("got %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if l.State() != StateStopped {
		t.Errorf("cancel should stop the loop, got %s", l.State())
	}
}

func TestLoopRunClosedTicks(t *testing.T) {
	l := NewLoop(NewAnimator(DefaultStyle(), seeded(14)))
	l.Resize(100, 100)

	ticks := make(chan time.Time, 2)
	ticks <- time.Now()
	ticks <- time.Now()
	close(ticks)

	s := &recordingSurface{}
	if err := l.Run(context.Background(), ticks, s); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s.clears != 2 {
		t.Errorf("expected 2 frames, got %d", s.clears)
	}
}

func TestLoopResizeDuringRun(t *testing.T) {
	l := NewLoop(NewAnimator(DefaultStyle(), seeded(15)))
	l.Resize(800, 600)

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx, ticker.C, &recordingSurface{}) }()

	for i := 0; i < 20; i++ {
		l.Resize(float64(100+i), float64(100+i))
	}
	cancel()
	<-done

	for i, p := range l.Particles() {
		if p.X < -1 || p.X > 121 || p.Y < -1 || p.Y > 121 {
			t.Errorf("particle %d outside last viewport: (%f, %f)", i, p.X, p.Y)
		}
	}
}
