package recorder

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
)

// Recording is a finished mono capture.
type Recording struct {
	Samples []float64
	Format  beep.Format
}

// NewRecording wraps mono samples captured at sampleRate.
func NewRecording(samples []float64, sampleRate int) *Recording {
	return &Recording{
		Samples: samples,
		Format: beep.Format{
			SampleRate:  beep.SampleRate(sampleRate),
			NumChannels: 1,
			Precision:   2,
		},
	}
}

// Duration is the length of the captured audio.
func (r *Recording) Duration() time.Duration {
	return r.Format.SampleRate.D(len(r.Samples))
}

// Streamer plays the recording back as a beep stream.
func (r *Recording) Streamer() beep.StreamSeeker {
	return &recordingStreamer{samples: r.Samples}
}

// WriteWAV encodes the recording as a 16-bit mono WAV file.
func (r *Recording) WriteWAV(w io.WriteSeeker) error {
	if err := wav.Encode(w, r.Streamer(), r.Format); err != nil {
		return fmt.Errorf("encoding wav: %w", err)
	}
	return nil
}

// SaveTemp writes the recording to a new audio-*.wav file in dir (the
// system temp dir when empty) and returns its path.
func (r *Recording) SaveTemp(dir string) (string, error) {
	f, err := os.CreateTemp(dir, "audio-*.wav")
	if err != nil {
		return "", fmt.Errorf("creating temp wav: %w", err)
	}
	if err := r.WriteWAV(f); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("closing temp wav: %w", err)
	}
	return f.Name(), nil
}

type recordingStreamer struct {
	samples []float64
	pos     int
}

func (s *recordingStreamer) Stream(out [][2]float64) (int, bool) {
	if s.pos >= len(s.samples) {
		return 0, false
	}
	n := copy2(out, s.samples[s.pos:])
	s.pos += n
	return n, true
}

func copy2(dst [][2]float64, src []float64) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = [2]float64{src[i], src[i]}
	}
	return n
}

func (s *recordingStreamer) Err() error { return nil }

func (s *recordingStreamer) Len() int { return len(s.samples) }

func (s *recordingStreamer) Position() int { return s.pos }

func (s *recordingStreamer) Seek(p int) error {
	if p < 0 || p > len(s.samples) {
		return fmt.Errorf("seek position %d out of range [0, %d]", p, len(s.samples))
	}
	s.pos = p
	return nil
}
