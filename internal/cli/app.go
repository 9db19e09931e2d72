package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"biblio/internal/api"
	"biblio/internal/config"
	"biblio/internal/session"
)

var (
	errNotLoggedIn    = errors.New("not logged in (run 'biblio login' first)")
	errLibrarianOnly  = errors.New("this action requires a librarian session")
	errEmailRequired  = errors.New("email is required")
	errPasswdRequired = errors.New("password is required")
	errNameRequired   = errors.New("name is required")
	errRoleInvalid    = errors.New("role must be 'librarian' or 'reader'")
	errIDRequired     = errors.New("a numeric id argument is required")
	errBadDate        = errors.New("invalid date (want YYYY-MM-DD)")
)

// App bundles the pieces every command needs.
type App struct {
	Config      config.Config
	IO          *IO
	Input       *bufio.Reader
	Client      *api.Client
	Session     session.Session
	SessionPath string
	Confirm     Confirmer
}

// promptLine prints a prompt and reads one trimmed line of input.
func (a *App) promptLine(prompt string) (string, error) {
	a.IO.Printf("%s", prompt)

	line, err := a.Input.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

// RequireLogin fails when no session token is stored. An expired token only
// produces a warning; the backend is the authority on token validity.
func (a *App) RequireLogin() error {
	if !a.Session.LoggedIn() {
		return errNotLoggedIn
	}

	if a.Session.Expired() {
		a.IO.ErrPrintln("warning: stored session looks expired, you may need to log in again")
	}

	return nil
}

// RequireLibrarian fails unless the stored session belongs to a librarian.
func (a *App) RequireLibrarian() error {
	if err := a.RequireLogin(); err != nil {
		return err
	}

	if a.Session.Role != api.RoleLibrarian {
		return errLibrarianOnly
	}

	return nil
}

// parseDate parses a YYYY-MM-DD argument in local time.
func parseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", errBadDate, value)
	}

	return t, nil
}
