package panel

import (
	"context"
	"errors"
	"time"

	"github.com/iburimskiy/moodwave/internal/api"
)

// LoginCloseDelay is how long a successful login stays on screen.
const LoginCloseDelay = 1500 * time.Millisecond

// Accounts is the backend surface the login and signup forms use.
type Accounts interface {
	Login(ctx context.Context, creds api.Credentials) (string, error)
	Signup(ctx context.Context, creds api.Credentials) (string, error)
}

// FormKind picks the endpoint a Form submits to.
type FormKind int

const (
	LoginForm FormKind = iota
	SignupForm
)

func (k FormKind) String() string {
	if k == SignupForm {
		return "signup"
	}
	return "login"
}

// Form submits credentials for login or signup.
type Form struct {
	Guard
	kind     FormKind
	accounts Accounts
}

func NewForm(kind FormKind, accounts Accounts) *Form {
	return &Form{kind: kind, accounts: accounts}
}

func (f *Form) Kind() FormKind { return f.kind }

// Submit posts creds. A successful login asks the host to close the form.
func (f *Form) Submit(ctx context.Context, creds api.Credentials) Status {
	submit := f.accounts.Login
	if f.kind == SignupForm {
		submit = f.accounts.Signup
	}

	msg, err := submit(ctx, creds)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			return failure(orDefault(apiErr.Message, "Failed"))
		}
		return failure(orDefault(err.Error(), "Error occurred"))
	}

	st := ok(orDefault(msg, "Success!"))
	if f.kind == LoginForm {
		st.CloseAfter = LoginCloseDelay
	}
	return st
}
