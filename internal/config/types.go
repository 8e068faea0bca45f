package config

// LocateMode selects how the weather panel finds the caller's coordinates.
type LocateMode string

const (
	LocateAuto   LocateMode = "auto"
	LocateStatic LocateMode = "static"
	LocateOff    LocateMode = "off"
)

// Config is the top-level moodwave configuration, corresponding to .moodwave.yml.
type Config struct {
	BackendURL string         `yaml:"backend_url" koanf:"backend_url"`
	TimeoutSec int            `yaml:"timeout_sec" koanf:"timeout_sec"`
	Window     WindowConfig   `yaml:"window" koanf:"window"`
	Particles  ParticleConfig `yaml:"particles" koanf:"particles"`
	Weather    WeatherConfig  `yaml:"weather" koanf:"weather"`
	Recorder   RecorderConfig `yaml:"recorder" koanf:"recorder"`
}

// WindowConfig holds the initial desktop window geometry.
type WindowConfig struct {
	Width  int    `yaml:"width" koanf:"width"`
	Height int    `yaml:"height" koanf:"height"`
	Title  string `yaml:"title" koanf:"title"`
}

// ParticleConfig describes the background particle field.
type ParticleConfig struct {
	Count    int     `yaml:"count" koanf:"count"`
	MinSize  float64 `yaml:"min_size" koanf:"min_size"`
	MaxSize  float64 `yaml:"max_size" koanf:"max_size"`
	MaxSpeed float64 `yaml:"max_speed" koanf:"max_speed"`
	Color    string  `yaml:"color" koanf:"color"`
	Glow     float64 `yaml:"glow" koanf:"glow"`
	FPS      int     `yaml:"fps" koanf:"fps"`
}

// WeatherConfig holds OpenWeatherMap and location settings.
type WeatherConfig struct {
	APIURL   string     `yaml:"api_url" koanf:"api_url"`
	APIKey   string     `yaml:"api_key" koanf:"api_key"`
	Locate   LocateMode `yaml:"locate" koanf:"locate"`
	Lat      float64    `yaml:"lat" koanf:"lat"`
	Lon      float64    `yaml:"lon" koanf:"lon"`
	GeoIPURL string     `yaml:"geoip_url" koanf:"geoip_url"`
}

// RecorderConfig controls microphone capture.
type RecorderConfig struct {
	Command    string `yaml:"command" koanf:"command"`
	SampleRate int    `yaml:"sample_rate" koanf:"sample_rate"`
	MaxSeconds int    `yaml:"max_seconds" koanf:"max_seconds"`
}
