package panel

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"time"

	"github.com/iburimskiy/moodwave/internal/api"
	"github.com/iburimskiy/moodwave/internal/recorder"
)

// UploadName is the filename the audio part is sent under.
const UploadName = "audio.wav"

// MoodDetector is the backend call the mood panel needs.
type MoodDetector interface {
	DetectMood(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// Mood uploads recorded audio for mood detection.
type Mood struct {
	Guard
	detector MoodDetector
	// TempDir holds the WAV file written for each upload. Empty means the
	// system temp dir.
	TempDir string
	// Keep leaves the WAV file on disk after upload.
	Keep bool
}

func NewMood(d MoodDetector) *Mood {
	return &Mood{detector: d}
}

// Pending is shown while the upload runs.
func (m *Mood) Pending() Status { return neutral("Detecting mood...") }

// Detect uploads audio and reports the detected mood.
func (m *Mood) Detect(ctx context.Context, audio io.Reader) Status {
	mood, err := m.detector.DetectMood(ctx, UploadName, audio)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			return failure("Error: " + orDefault(apiErr.Message, "Unknown error"))
		}
		return failure("Error: " + err.Error())
	}
	if mood == "" {
		return failure("Error: Unknown error")
	}
	return neutral("Mood detected: " + mood)
}

// DetectRecording encodes rec as WAV and uploads it. The returned path is
// the WAV file when Keep is set, otherwise "".
func (m *Mood) DetectRecording(ctx context.Context, rec *recorder.Recording) (Status, string) {
	path, err := rec.SaveTemp(m.TempDir)
	if err != nil {
		return failure("Error: " + err.Error()), ""
	}
	if !m.Keep {
		defer os.Remove(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return failure("Error: " + err.Error()), ""
	}
	defer f.Close()

	log.Printf("panel: uploading %s of audio", rec.Duration().Round(10*time.Millisecond))
	st := m.Detect(ctx, f)
	if m.Keep {
		return st, path
	}
	return st, ""
}

// DetectFile decodes a WAV, MP3 or FLAC file and uploads it as WAV.
func (m *Mood) DetectFile(ctx context.Context, path string) Status {
	rec, err := recorder.Load(path)
	if err != nil {
		return failure("Error: " + err.Error())
	}
	st, _ := m.DetectRecording(ctx, rec)
	return st
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
