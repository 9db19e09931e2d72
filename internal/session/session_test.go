package session

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileIsLoggedOut(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "nope.json"))

	if s.LoggedIn() {
		t.Fatal("missing session file reports logged in")
	}
}

func TestLoadGarbageIsLoggedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o600); err != nil {
		t.Fatal(err)
	}

	s := Load(path)
	if s.LoggedIn() {
		t.Fatal("corrupt session file reports logged in")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "biblio", "session.json")

	want := Session{Token: "tok", Name: "Ada", UserID: 7, Role: "librarian"}

	if err := Save(path, want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got := Load(path)
	if got != want {
		t.Fatalf("Load() = %+v, want %+v", got, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	if perms := info.Mode().Perm(); perms != 0o600 {
		t.Fatalf("session file perms = %o, want 600", perms)
	}
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	if err := Save(path, Session{Token: "tok"}); err != nil {
		t.Fatal(err)
	}

	if err := Clear(path); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}

	if Load(path).LoggedIn() {
		t.Fatal("session survived Clear()")
	}

	// Clearing again is fine.
	if err := Clear(path); err != nil {
		t.Fatalf("Clear() of a missing file: %v", err)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		s    Session
		want string
	}{
		{name: "name wins", s: Session{Name: "Ada", Role: "reader"}, want: "Ada"},
		{name: "role fallback capitalized", s: Session{Role: "librarian"}, want: "Librarian"},
		{name: "guest fallback", s: Session{}, want: "Guest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.DisplayName(); got != tt.want {
				t.Fatalf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInitial(t *testing.T) {
	if got := (Session{Name: "ada"}).Initial(); got != "A" {
		t.Fatalf("Initial() = %q, want A", got)
	}

	if got := (Session{}).Initial(); got != "G" {
		t.Fatalf("Initial() = %q, want G (guest)", got)
	}
}

func TestExpired(t *testing.T) {
	if (Session{}).Expired() {
		t.Fatal("empty session reports expired")
	}

	if (Session{Token: "not-a-jwt"}).Expired() {
		t.Fatal("unparsable token reports expired")
	}

	past := unsignedToken(t, time.Now().Add(-time.Hour))
	if !(Session{Token: past}).Expired() {
		t.Fatal("token with past exp not reported expired")
	}

	future := unsignedToken(t, time.Now().Add(time.Hour))
	if (Session{Token: future}).Expired() {
		t.Fatal("token with future exp reported expired")
	}
}

func TestDefaultPath(t *testing.T) {
	got := DefaultPath(map[string]string{"XDG_STATE_HOME": "/tmp/state"})
	if got != filepath.Join("/tmp/state", "biblio", "session.json") {
		t.Fatalf("DefaultPath(xdg) = %q", got)
	}

	got = DefaultPath(map[string]string{"HOME": "/home/ada"})
	if got != filepath.Join("/home/ada", ".local", "state", "biblio", "session.json") {
		t.Fatalf("DefaultPath(home) = %q", got)
	}

	if got = DefaultPath(map[string]string{}); got != "" {
		t.Fatalf("DefaultPath(empty env) = %q, want empty", got)
	}
}

// unsignedToken builds a syntactically valid JWT with the given exp claim.
// The expiry check never verifies signatures, so a fake one suffices.
func unsignedToken(t *testing.T, exp time.Time) string {
	t.Helper()

	encode := func(v any) string {
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatal(err)
		}

		return base64.RawURLEncoding.EncodeToString(data)
	}

	header := encode(map[string]string{"alg": "HS256", "typ": "JWT"})
	claims := encode(map[string]int64{"exp": exp.Unix()})

	return fmt.Sprintf("%s.%s.%s", header, claims, base64.RawURLEncoding.EncodeToString([]byte("sig")))
}
