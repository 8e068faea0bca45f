package config

import (
	"fmt"
	"image/color"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/iburimskiy/moodwave/internal/particles"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (MOODWAVE_*). A double underscore in a
// variable name descends into a section: MOODWAVE_WEATHER__API_KEY sets
// weather.api_key.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLocateModes = map[LocateMode]bool{
	LocateAuto:   true,
	LocateStatic: true,
	LocateOff:    true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("backend_url is required")
	}
	if u, err := url.Parse(c.BackendURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid backend_url %q", c.BackendURL)
	}
	if c.TimeoutSec <= 0 {
		return fmt.Errorf("timeout_sec must be positive")
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window dimensions must be positive")
	}

	p := c.Particles
	if p.Count <= 0 {
		return fmt.Errorf("particles.count must be positive")
	}
	if p.MinSize <= 0 {
		return fmt.Errorf("particles.min_size must be positive")
	}
	if p.MaxSize < p.MinSize {
		return fmt.Errorf("particles.max_size must be at least min_size")
	}
	if p.MaxSpeed < 0 {
		return fmt.Errorf("particles.max_speed must be non-negative")
	}
	if p.Glow < 0 {
		return fmt.Errorf("particles.glow must be non-negative")
	}
	if p.FPS <= 0 {
		return fmt.Errorf("particles.fps must be positive")
	}
	if _, err := colorful.Hex(p.Color); err != nil {
		return fmt.Errorf("invalid particles.color %q: %w", p.Color, err)
	}

	if !validLocateModes[c.Weather.Locate] {
		return fmt.Errorf("invalid weather.locate %q: must be one of auto, static, off", c.Weather.Locate)
	}
	if c.Weather.Lat < -90 || c.Weather.Lat > 90 || c.Weather.Lon < -180 || c.Weather.Lon > 180 {
		return fmt.Errorf("weather coordinates out of range")
	}

	if c.Recorder.SampleRate <= 0 {
		return fmt.Errorf("recorder.sample_rate must be positive")
	}
	if c.Recorder.MaxSeconds <= 0 {
		return fmt.Errorf("recorder.max_seconds must be positive")
	}

	return nil
}

// Timeout returns the per-request timeout for backend and weather calls.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// MaxDuration is the longest take the recorder keeps.
func (r RecorderConfig) MaxDuration() time.Duration {
	return time.Duration(r.MaxSeconds) * time.Second
}

// RGBA returns the configured particle colour. Invalid values fall
// back to the default cyan; Validate reports them.
func (p ParticleConfig) RGBA() color.RGBA {
	c, err := colorful.Hex(p.Color)
	if err != nil {
		c, _ = colorful.Hex(ParticleColor)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// FrameInterval is the wall-clock period of one frame tick.
func (p ParticleConfig) FrameInterval() time.Duration {
	if p.FPS <= 0 {
		return time.Second / FramesPerSecond
	}
	return time.Second / time.Duration(p.FPS)
}

// Style converts the particle section into an animator style.
func (p ParticleConfig) Style() particles.Style {
	return particles.Style{
		Count:    p.Count,
		MinSize:  p.MinSize,
		MaxSize:  p.MaxSize,
		MaxSpeed: p.MaxSpeed,
		Color:    p.RGBA(),
		Glow:     p.Glow,
	}
}
