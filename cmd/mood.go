package cmd

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/moodwave/internal/panel"
	"github.com/iburimskiy/moodwave/internal/recorder"
)

var (
	moodFile     string
	moodDuration time.Duration
	moodKeep     bool
	moodPlay     bool
)

var moodCmd = &cobra.Command{
	Use:   "mood",
	Short: "Record from the microphone and detect the mood",
	Long: `Records from the default microphone for --duration and uploads the take
for mood detection. With --file an existing WAV, MP3 or FLAC file is
converted to WAV and uploaded instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mood := panel.NewMood(newAPIClient())
		mood.Keep = moodKeep
		out := cmd.OutOrStdout()

		var (
			rec *recorder.Recording
			err error
		)
		if moodFile != "" {
			rec, err = recorder.Load(moodFile)
		} else {
			rec, err = recordTake(cmd)
		}
		if err != nil {
			return err
		}
		if moodPlay {
			fmt.Fprintf(cmd.ErrOrStderr(), "Playing %s...\n", rec.Duration().Round(time.Millisecond))
			if err := recorder.Play(cmd.Context(), rec); err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.ErrOrStderr(), mood.Pending().Text())
		st, kept := mood.DetectRecording(cmd.Context(), rec)
		if kept != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Recording saved to %s\n", kept)
		}
		return printStatus(out, st)
	},
}

// recordTake captures one take, showing a countdown bar. Ctrl-C abandons
// the take.
func recordTake(cmd *cobra.Command) (*recorder.Recording, error) {
	r, err := newRecorder()
	if err != nil {
		return nil, err
	}
	duration := min(moodDuration, cfg.Recorder.MaxDuration())

	ctx := cmd.Context()
	if err := r.Start(ctx); err != nil {
		return nil, err
	}

	const step = 100 * time.Millisecond
	bar := progressbar.NewOptions(int(duration/step),
		progressbar.OptionSetDescription("recording"),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
	)
	ticker := time.NewTicker(step)
	defer ticker.Stop()

loop:
	for r.Elapsed() < duration && !r.Full() {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			_ = bar.Set(int(r.Elapsed() / step))
		}
	}
	_ = bar.Finish()
	rec, err := r.Stop()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return rec, err
}

func init() {
	moodCmd.Flags().StringVarP(&moodFile, "file", "f", "", "upload this audio file instead of recording")
	moodCmd.Flags().DurationVarP(&moodDuration, "duration", "d", 5*time.Second, "how long to record")
	moodCmd.Flags().BoolVar(&moodKeep, "keep", false, "keep the uploaded WAV file")
	moodCmd.Flags().BoolVar(&moodPlay, "play", false, "play the audio back before uploading")
	rootCmd.AddCommand(moodCmd)
}
