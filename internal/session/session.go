// Package session persists the logged-in user between command invocations.
//
// It is the terminal analog of the browser's local storage: a small JSON file
// holding the bearer token plus the few user fields the dashboard displays.
// A missing or unreadable file always degrades to "not logged in" - nothing
// here is allowed to take the UI down.
package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/natefinch/atomic"
)

const (
	dirPerms  = 0o700
	filePerms = 0o600
)

// Session holds the stored login state.
type Session struct {
	Token  string `json:"token"`
	Name   string `json:"name,omitempty"`
	UserID int    `json:"user_id,omitempty"`
	Role   string `json:"role,omitempty"`
}

// LoggedIn reports whether a token is stored.
func (s Session) LoggedIn() bool {
	return s.Token != ""
}

// DisplayName returns the stored name, falling back to the role and finally
// to a generic label so the header never renders blank.
func (s Session) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}

	if s.Role != "" {
		return strings.ToUpper(s.Role[:1]) + s.Role[1:]
	}

	return "Guest"
}

// Initial returns the single-character avatar initial for the display name.
func (s Session) Initial() string {
	name := s.DisplayName()

	return strings.ToUpper(name[:1])
}

// Expired reports whether the stored token carries an exp claim in the past.
// The token is parsed without verification; this is a courtesy check so the
// dashboard can suggest logging in again before a request bounces. Tokens
// without a readable exp claim count as not expired - the backend decides.
func (s Session) Expired() bool {
	if s.Token == "" {
		return false
	}

	claims := jwt.MapClaims{}

	_, _, err := jwt.NewParser().ParseUnverified(s.Token, claims)
	if err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Before(time.Now())
}

// DefaultPath returns the session file location:
// $XDG_STATE_HOME/biblio/session.json, falling back to
// ~/.local/state/biblio/session.json. Empty when no home is known.
func DefaultPath(env map[string]string) string {
	if stateDir := env["XDG_STATE_HOME"]; stateDir != "" {
		return filepath.Join(stateDir, "biblio", "session.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".local", "state", "biblio", "session.json")
	}

	return ""
}

// Load reads the session file. Any failure (missing file, bad JSON) yields a
// zero Session, i.e. not logged in.
func Load(path string) Session {
	if path == "" {
		return Session{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Session{}
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}
	}

	return s
}

// Save writes the session file atomically, creating parent directories and
// keeping the file private to the user.
func Save(path string, s Session) error {
	if path == "" {
		return fmt.Errorf("saving session: no session file path configured")
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerms); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	data = append(data, '\n')

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}

	if err := os.Chmod(path, filePerms); err != nil {
		return fmt.Errorf("restricting session file: %w", err)
	}

	return nil
}

// Clear removes the session file (logout). Missing files are fine.
func Clear(path string) error {
	if path == "" {
		return nil
	}

	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing session: %w", err)
	}

	return nil
}
