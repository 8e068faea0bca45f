package recorder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// AudioPatterns are the file types Load understands.
var AudioPatterns = []string{"*.wav", "*.mp3", "*.flac"}

// Load decodes a WAV, MP3 or FLAC file into a mono recording so it can be
// uploaded as WAV like a microphone take.
func Load(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		return nil, fmt.Errorf("unsupported file type: %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	defer streamer.Close()

	samples := make([]float64, 0, max(streamer.Len(), 0))
	buf := make([][2]float64, chunkFrames)
	for {
		n, ok := streamer.Stream(buf)
		for _, s := range buf[:n] {
			samples = append(samples, (s[0]+s[1])*0.5)
		}
		if !ok {
			break
		}
	}
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%s contains no audio", filepath.Base(path))
	}
	return NewRecording(samples, int(format.SampleRate)), nil
}

// Play sends rec to the default output device and blocks until it has
// finished or ctx is done.
func Play(ctx context.Context, rec *Recording) error {
	rate := rec.Format.SampleRate
	if err := speaker.Init(rate, rate.N(time.Second/20)); err != nil {
		return fmt.Errorf("opening speaker: %w", err)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(rec.Streamer(), beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		// Clear takes the speaker lock itself.
		speaker.Clear()
		return ctx.Err()
	}
}
