package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iburimskiy/moodwave/internal/weather"
)

var weatherLat, weatherLon float64

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Show current weather at your location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		locator := newLocator()
		if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
			if weatherLat < -90 || weatherLat > 90 || weatherLon < -180 || weatherLon > 180 {
				return fmt.Errorf("coordinates out of range: %g,%g", weatherLat, weatherLon)
			}
			locator = weather.StaticLocator{Lat: weatherLat, Lon: weatherLon}
		}

		p := newWeatherPanel(locator)
		fmt.Fprintln(cmd.ErrOrStderr(), p.Pending().Text())
		return printStatus(cmd.OutOrStdout(), p.Fetch(cmd.Context()))
	},
}

func init() {
	weatherCmd.Flags().Float64Var(&weatherLat, "lat", 0, "latitude (overrides the configured locator)")
	weatherCmd.Flags().Float64Var(&weatherLon, "lon", 0, "longitude (overrides the configured locator)")
	rootCmd.AddCommand(weatherCmd)
}
