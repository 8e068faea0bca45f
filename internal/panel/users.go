package panel

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/iburimskiy/moodwave/internal/api"
)

// Directory is the admin surface of the backend.
type Directory interface {
	Users(ctx context.Context) ([]api.User, error)
	DeleteUser(ctx context.Context, username string) error
	ExportUsers(ctx context.Context, w io.Writer) (int64, error)
}

// Users is the admin user table.
type Users struct {
	Guard
	dir Directory
}

func NewUsers(dir Directory) *Users {
	return &Users{dir: dir}
}

// ConfirmDeleteText is the question asked before deleting username.
func ConfirmDeleteText(username string) string {
	return fmt.Sprintf("Delete user \"%s\"?", username)
}

// Load fetches the table. On failure the rows are nil and the status says why.
func (u *Users) Load(ctx context.Context) ([]api.User, Status) {
	users, err := u.dir.Users(ctx)
	if err != nil {
		log.Printf("panel: loading users: %v", err)
		return nil, failure("Failed to load users: " + describe(err))
	}
	return users, neutral(fmt.Sprintf("%d users", len(users)))
}

// Delete removes username and reloads the table. If the delete fails the
// table is still reloaded so it reflects the backend.
func (u *Users) Delete(ctx context.Context, username string) ([]api.User, Status) {
	if err := u.dir.DeleteUser(ctx, username); err != nil {
		log.Printf("panel: deleting %q: %v", username, err)
		users, _ := u.Load(ctx)
		return users, failure("Failed to delete user")
	}
	users, st := u.Load(ctx)
	if st.Failed() {
		return users, st
	}
	return users, ok(fmt.Sprintf("Deleted %s", username))
}

// Export writes the CSV export to w.
func (u *Users) Export(ctx context.Context, w io.Writer, dest string) Status {
	n, err := u.dir.ExportUsers(ctx, w)
	if err != nil {
		return failure("Export failed: " + describe(err))
	}
	return ok(fmt.Sprintf("Exported %d bytes to %s", n, dest))
}

func describe(err error) string {
	if msg := api.Message(err); msg != "" {
		return msg
	}
	return err.Error()
}
