package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iburimskiy/moodwave/internal/api"
	"github.com/iburimskiy/moodwave/internal/config"
	"github.com/iburimskiy/moodwave/internal/panel"
	"github.com/iburimskiy/moodwave/internal/recorder"
	"github.com/iburimskiy/moodwave/internal/weather"
)

var (
	cfgFile string
	verbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "moodwave",
	Short: "Desktop companion for the moodwave mood-detection service",
	Long: `moodwave opens a window with a glowing particle background and panels
for microphone mood detection, local weather, login and signup, and the
admin user table. Every panel is also available as a subcommand.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runWindow,
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errStatus) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// setup loads and validates the configuration for every subcommand.
func setup(cmd *cobra.Command, args []string) error {
	if verbose {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	} else {
		log.SetOutput(io.Discard)
	}

	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg = c
	return nil
}

func newAPIClient() *api.Client {
	var opts []api.Option
	if verbose {
		opts = append(opts, api.WithLogger(log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)))
	}
	return api.NewClient(cfg.BackendURL, cfg.Timeout(), opts...)
}

func newLocator() weather.Locator {
	w := cfg.Weather
	switch w.Locate {
	case config.LocateStatic:
		return weather.StaticLocator{Lat: w.Lat, Lon: w.Lon}
	case config.LocateOff:
		return weather.NoLocator{}
	default:
		return weather.NewIPLocator(w.GeoIPURL, cfg.Timeout())
	}
}

func newWeatherPanel(locator weather.Locator) *panel.Weather {
	source := weather.NewClient(cfg.Weather.APIURL, cfg.Weather.APIKey, cfg.Timeout())
	return panel.NewWeather(locator, source)
}

func newRecorder() (*recorder.Recorder, error) {
	rc := cfg.Recorder
	backend, err := recorder.DetectBackend(rc.Command, rc.SampleRate)
	if err != nil {
		return nil, err
	}
	log.Printf("recorder: using %s (%s)", backend.Name, backend.Path)
	return recorder.New(backend, rc.SampleRate, rc.MaxDuration()), nil
}

// errStatus marks a failure already described by the printed status.
var errStatus = errors.New("request failed")

// printStatus writes st to out and turns an error tone into an error so
// the process exits non-zero.
func printStatus(out io.Writer, st panel.Status) error {
	fmt.Fprintln(out, st.Text())
	if st.Failed() {
		return errStatus
	}
	return nil
}
