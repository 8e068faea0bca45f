package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/iburimskiy/moodwave/internal/game"
	"github.com/iburimskiy/moodwave/internal/panel"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the moodwave window (default)",
	RunE:  runWindow,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runWindow(cmd *cobra.Command, args []string) error {
	client := newAPIClient()

	opts := game.Options{
		Title:        cfg.Window.Title,
		Width:        cfg.Window.Width,
		Height:       cfg.Window.Height,
		TPS:          cfg.Particles.FPS,
		Style:        cfg.Particles.Style(),
		Mood:         panel.NewMood(client),
		Weather:      newWeatherPanel(newLocator()),
		Login:        panel.NewForm(panel.LoginForm, client),
		Signup:       panel.NewForm(panel.SignupForm, client),
		Users:        panel.NewUsers(client),
		MaxRecording: cfg.Recorder.MaxDuration(),
	}

	rec, err := newRecorder()
	if err != nil {
		log.Printf("run: microphone unavailable: %v", err)
		opts.CaptureErr = err
	} else {
		opts.Capture = rec
	}

	return game.Run(cmd.Context(), opts)
}
