package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/moodwave/internal/panel"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage the admin user table",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users in backend order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, st := panel.NewUsers(newAPIClient()).Load(cmd.Context())
		if st.Failed() {
			return printStatus(cmd.ErrOrStderr(), st)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "#\tUSERNAME")
		for i, u := range users {
			fmt.Fprintf(w, "%d\t%s\n", i+1, u.Username)
		}
		return w.Flush()
	},
}

var deleteYes bool

var usersDeleteCmd = &cobra.Command{
	Use:   "delete USERNAME",
	Short: "Delete a user after confirmation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]
		if !deleteYes {
			p := promptui.Prompt{
				Label:     panel.ConfirmDeleteText(username),
				IsConfirm: true,
			}
			if _, err := p.Run(); err != nil {
				if errors.Is(err, promptui.ErrAbort) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
				return fmt.Errorf("confirm prompt: %w", err)
			}
		}
		_, st := panel.NewUsers(newAPIClient()).Delete(cmd.Context(), username)
		return printStatus(cmd.OutOrStdout(), st)
	},
}

var exportOut string

var usersExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the user table as CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		body, size, err := newAPIClient().OpenExport(cmd.Context())
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		defer body.Close()

		if exportOut == "-" {
			_, err := io.Copy(cmd.OutOrStdout(), body)
			return err
		}

		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		bar := progressbar.NewOptions64(size,
			progressbar.OptionSetDescription("exporting"),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionClearOnFinish(),
		)
		n, err := io.Copy(io.MultiWriter(f, bar), body)
		_ = bar.Finish()
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("writing %s: %w", exportOut, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bytes to %s\n", n, exportOut)
		return nil
	},
}

func init() {
	usersDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
	usersExportCmd.Flags().StringVarP(&exportOut, "output", "o", "users.csv", "output file (- for stdout)")

	usersCmd.AddCommand(usersListCmd, usersDeleteCmd, usersExportCmd)
	rootCmd.AddCommand(usersCmd)
}
