package config

const (
	DefaultFile = ".moodwave.yml"
	EnvPrefix   = "MOODWAVE_"

	WindowWidth  = 1024
	WindowHeight = 640

	ParticleCount    = 120
	ParticleMinSize  = 1.0
	ParticleMaxSize  = 4.0
	ParticleMaxSpeed = 0.6
	ParticleColor    = "#00f5ff"
	ParticleGlow     = 10.0
	FramesPerSecond  = 60
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BackendURL: "http://localhost:5000",
		TimeoutSec: 10,
		Window: WindowConfig{
			Width:  WindowWidth,
			Height: WindowHeight,
			Title:  "moodwave",
		},
		Particles: ParticleConfig{
			Count:    ParticleCount,
			MinSize:  ParticleMinSize,
			MaxSize:  ParticleMaxSize,
			MaxSpeed: ParticleMaxSpeed,
			Color:    ParticleColor,
			Glow:     ParticleGlow,
			FPS:      FramesPerSecond,
		},
		Weather: WeatherConfig{
			APIURL:   "https://api.openweathermap.org/data/2.5",
			Locate:   LocateAuto,
			GeoIPURL: "http://ip-api.com/json",
		},
		Recorder: RecorderConfig{
			Command:    "auto",
			SampleRate: 16000,
			MaxSeconds: 30,
		},
	}
}
