package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/moodwave/internal/api"
	"github.com/iburimskiy/moodwave/internal/panel"
)

func init() {
	rootCmd.AddCommand(newAccountCmd(panel.LoginForm, "Log in to the backend"))
	rootCmd.AddCommand(newAccountCmd(panel.SignupForm, "Create a backend account"))
}

func newAccountCmd(kind panel.FormKind, short string) *cobra.Command {
	var (
		username      string
		passwordStdin bool
	)
	c := &cobra.Command{
		Use:   kind.String(),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := readCredentials(cmd.InOrStdin(), username, passwordStdin)
			if err != nil {
				return err
			}
			st := panel.NewForm(kind, newAPIClient()).Submit(cmd.Context(), creds)
			return printStatus(cmd.OutOrStdout(), st)
		},
	}
	c.Flags().StringVarP(&username, "username", "u", "", "account username (prompted when empty)")
	c.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return c
}

func readCredentials(in io.Reader, username string, passwordStdin bool) (api.Credentials, error) {
	if username == "" {
		p := promptui.Prompt{
			Label:    "Username",
			Validate: required("username"),
		}
		u, err := p.Run()
		if err != nil {
			return api.Credentials{}, fmt.Errorf("username prompt: %w", err)
		}
		username = u
	}

	var password string
	if passwordStdin {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return api.Credentials{}, fmt.Errorf("reading password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	} else {
		p := promptui.Prompt{
			Label:    "Password",
			Mask:     '*',
			Validate: required("password"),
		}
		pw, err := p.Run()
		if err != nil {
			return api.Credentials{}, fmt.Errorf("password prompt: %w", err)
		}
		password = pw
	}
	return api.Credentials{Username: username, Password: password}, nil
}

func required(field string) promptui.ValidateFunc {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
