package game

import (
	"errors"

	"github.com/ncruces/zenity"

	"github.com/iburimskiy/moodwave/internal/api"
	"github.com/iburimskiy/moodwave/internal/panel"
	"github.com/iburimskiy/moodwave/internal/recorder"
)

// Dialogs are the blocking native prompts the window opens. They are
// always called off the ebiten goroutine and return zenity.ErrCanceled
// when the user backs out.
type Dialogs interface {
	Credentials(kind panel.FormKind) (api.Credentials, error)
	Confirm(question string) (bool, error)
	OpenAudio() (string, error)
	SavePath(defaultName string) (string, error)
	Error(msg string)
}

type zenityDialogs struct{}

func (zenityDialogs) Credentials(kind panel.FormKind) (api.Credentials, error) {
	title := "Log in"
	if kind == panel.SignupForm {
		title = "Sign up"
	}
	user, pass, err := zenity.Password(zenity.Title(title), zenity.Username())
	if err != nil {
		return api.Credentials{}, err
	}
	return api.Credentials{Username: user, Password: pass}, nil
}

func (zenityDialogs) Confirm(question string) (bool, error) {
	err := zenity.Question(question,
		zenity.Title("Confirm"),
		zenity.OKLabel("Delete"),
		zenity.CancelLabel("Cancel"),
		zenity.WarningIcon,
	)
	if errors.Is(err, zenity.ErrCanceled) {
		return false, nil
	}
	return err == nil, err
}

func (zenityDialogs) OpenAudio() (string, error) {
	return zenity.SelectFile(
		zenity.Title("Open Audio File"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: recorder.AudioPatterns,
		}},
	)
}

func (zenityDialogs) SavePath(defaultName string) (string, error) {
	return zenity.SelectFileSave(
		zenity.Title("Export users"),
		zenity.Filename(defaultName),
		zenity.ConfirmOverwrite(),
		zenity.FileFilters{{
			Name:     "CSV",
			Patterns: []string{"*.csv"},
		}},
	)
}

func (zenityDialogs) Error(msg string) {
	_ = zenity.Error(msg, zenity.Title("moodwave"), zenity.ErrorIcon)
}
