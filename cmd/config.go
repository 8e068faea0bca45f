package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/moodwave/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the moodwave configuration file",
	// The file may not exist yet, so skip loading it.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

var (
	initDefaults bool
	initForce    bool
)

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file",
	Long:  `Asks for the backend URL, weather API key and location mode, then writes them to the --config file.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfgFile)
		}

		c := config.DefaultConfig()
		if !initDefaults {
			if err := runWizard(c); err != nil {
				return err
			}
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if err := c.Save(cfgFile); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", cfgFile)
		return nil
	},
}

func runWizard(c *config.Config) error {
	backend := promptui.Prompt{
		Label:   "Backend URL",
		Default: c.BackendURL,
	}
	url, err := backend.Run()
	if err != nil {
		return fmt.Errorf("backend prompt: %w", err)
	}
	c.BackendURL = url

	key := promptui.Prompt{
		Label: "OpenWeatherMap API key",
		Mask:  '*',
	}
	if c.Weather.APIKey, err = key.Run(); err != nil {
		return fmt.Errorf("api key prompt: %w", err)
	}

	modes := []config.LocateMode{config.LocateAuto, config.LocateStatic, config.LocateOff}
	locate := promptui.Select{
		Label: "How should the weather panel find your location?",
		Items: []string{
			"auto   - estimate from your IP address",
			"static - fixed coordinates",
			"off    - no location",
		},
	}
	idx, _, err := locate.Run()
	if err != nil {
		return fmt.Errorf("locate selection: %w", err)
	}
	c.Weather.Locate = modes[idx]

	if c.Weather.Locate == config.LocateStatic {
		lat := promptui.Prompt{Label: "Latitude", Validate: floatIn(-90, 90)}
		lon := promptui.Prompt{Label: "Longitude", Validate: floatIn(-180, 180)}
		for _, p := range []struct {
			prompt promptui.Prompt
			dst    *float64
		}{{lat, &c.Weather.Lat}, {lon, &c.Weather.Lon}} {
			s, err := p.prompt.Run()
			if err != nil {
				return fmt.Errorf("coordinate prompt: %w", err)
			}
			if *p.dst, err = strconv.ParseFloat(s, 64); err != nil {
				return err
			}
		}
	}
	return nil
}

func floatIn(lo, hi float64) promptui.ValidateFunc {
	return func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("not a number")
		}
		if v < lo || v > hi {
			return fmt.Errorf("must be between %g and %g", lo, hi)
		}
		return nil
	}
}

func init() {
	configInitCmd.Flags().BoolVar(&initDefaults, "defaults", false, "write the defaults without prompting")
	configInitCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
