// Package recorder captures microphone audio through a system capture tool
// and encodes it as WAV for upload.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"sync"
	"time"

	"github.com/faiface/beep"
)

var (
	ErrAlreadyRecording = errors.New("recorder: already recording")
	ErrNotRecording     = errors.New("recorder: not recording")
)

const (
	// tapRingSize is how many recent frames the level meter can look at.
	tapRingSize = 8192
	chunkFrames = 512
)

// Recorder captures one take at a time from a Backend.
type Recorder struct {
	backend    *Backend
	sampleRate int
	maxSamples int

	mu      sync.Mutex
	cancel  context.CancelFunc
	cmd     *exec.Cmd
	tap     *Tap
	samples []float64
	done    chan struct{}
	readErr error
}

// New creates a recorder using backend, capturing at sampleRate and
// keeping at most maxDuration of audio per take.
func New(backend *Backend, sampleRate int, maxDuration time.Duration) *Recorder {
	return &Recorder{
		backend:    backend,
		sampleRate: sampleRate,
		maxSamples: beep.SampleRate(sampleRate).N(maxDuration),
	}
}

// Start launches the capture tool. The take ends when Stop is called or
// ctx is cancelled; audio past the maximum duration is discarded.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd != nil {
		return ErrAlreadyRecording
	}

	cctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(cctx, r.backend.Path, r.backend.Args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("recorder: %s stdout: %w", r.backend.Name, err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("recorder: starting %s: %w", r.backend.Name, err)
	}
	log.Printf("recorder: capturing with %s at %d Hz", r.backend.Name, r.sampleRate)

	r.cancel = cancel
	r.cmd = cmd
	r.samples = r.samples[:0]
	r.readErr = nil
	r.tap = NewTap(newPCMStreamer(stdout), tapRingSize)
	r.done = make(chan struct{})

	go r.capture(r.tap, r.done)
	return nil
}

// capture pulls frames through the tap until the stream ends.
func (r *Recorder) capture(src beep.Streamer, done chan struct{}) {
	defer close(done)

	buf := make([][2]float64, chunkFrames)
	for {
		n, ok := src.Stream(buf)
		if n > 0 {
			r.mu.Lock()
			room := r.maxSamples - len(r.samples)
			for i := 0; i < n && i < room; i++ {
				r.samples = append(r.samples, buf[i][0])
			}
			r.mu.Unlock()
		}
		if !ok {
			break
		}
	}

	if err := src.Err(); err != nil {
		r.mu.Lock()
		r.readErr = err
		r.mu.Unlock()
	}
}

// Stop ends the take and returns what was captured.
func (r *Recorder) Stop() (*Recording, error) {
	r.mu.Lock()
	if r.cmd == nil {
		r.mu.Unlock()
		return nil, ErrNotRecording
	}
	cmd, cancel, done := r.cmd, r.cancel, r.done
	r.mu.Unlock()

	cancel()
	<-done
	// The tool is killed on cancel, so its exit status carries no information.
	_ = cmd.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.cmd = nil
	r.cancel = nil

	samples := make([]float64, len(r.samples))
	copy(samples, r.samples)
	if len(samples) == 0 {
		if r.readErr != nil {
			return nil, fmt.Errorf("recorder: reading from %s: %w", r.backend.Name, r.readErr)
		}
		return nil, fmt.Errorf("recorder: %s produced no audio", r.backend.Name)
	}
	log.Printf("recorder: captured %d samples", len(samples))
	return NewRecording(samples, r.sampleRate), nil
}

// Recording reports whether a take is in progress.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cmd != nil
}

// Elapsed is the length of audio captured so far in the current take.
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return beep.SampleRate(r.sampleRate).D(len(r.samples))
}

// Full reports whether the current take has hit the maximum duration.
func (r *Recorder) Full() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cmd != nil && len(r.samples) >= r.maxSamples
}

// Tap exposes the live sample tap of the current take, or nil.
func (r *Recorder) Tap() *Tap {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cmd == nil {
		return nil
	}
	return r.tap
}
