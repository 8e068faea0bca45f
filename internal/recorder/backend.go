package recorder

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

// ErrNoBackend is returned when no supported capture tool is on PATH.
var ErrNoBackend = errors.New("recorder: no audio capture tool found (install pulseaudio-utils, alsa-utils, sox or ffmpeg)")

// Backend is an external program that writes raw mono s16le PCM from the
// default microphone to stdout.
type Backend struct {
	Name string
	Path string
	Args []string
}

type candidate struct {
	name string
	args func(rate string) []string
}

// Priority: parec > arecord > rec (sox) > ffmpeg
var candidates = []candidate{
	{"parec", func(rate string) []string {
		return []string{"--raw", "--format=s16le", "--rate=" + rate, "--channels=1"}
	}},
	{"arecord", func(rate string) []string {
		return []string{"-q", "-t", "raw", "-f", "S16_LE", "-r", rate, "-c", "1"}
	}},
	{"rec", func(rate string) []string {
		return []string{"-q", "-t", "raw", "-b", "16", "-e", "signed-integer", "-c", "1", "-r", rate, "-"}
	}},
	{"ffmpeg", func(rate string) []string {
		return []string{"-loglevel", "quiet", "-f", "pulse", "-i", "default", "-ac", "1", "-ar", rate, "-f", "s16le", "-"}
	}},
}

var lookPath = exec.LookPath

// DetectBackend finds a capture tool for sampleRate. name picks a specific
// tool; "" or "auto" tries them in priority order.
func DetectBackend(name string, sampleRate int) (*Backend, error) {
	rate := strconv.Itoa(sampleRate)
	for _, c := range candidates {
		if name != "" && name != "auto" && name != c.name {
			continue
		}
		path, err := lookPath(c.name)
		if err != nil {
			continue
		}
		return &Backend{Name: c.name, Path: path, Args: c.args(rate)}, nil
	}
	if name != "" && name != "auto" {
		if !knownBackend(name) {
			return nil, fmt.Errorf("recorder: unsupported capture tool %q", name)
		}
		return nil, fmt.Errorf("%w: %s not on PATH", ErrNoBackend, name)
	}
	return nil, ErrNoBackend
}

func knownBackend(name string) bool {
	for _, c := range candidates {
		if c.name == name {
			return true
		}
	}
	return false
}
