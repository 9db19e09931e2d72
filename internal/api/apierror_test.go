package api

import (
	"net/http"
	"testing"
	"time"
)

func TestClassifyKinds(t *testing.T) {
	tests := []struct {
		name  string
		reply *Reply
		want  Kind
	}{
		{
			name:  "conflict",
			reply: &Reply{Status: http.StatusConflict, Body: []byte(`{"detail": "still referenced"}`)},
			want:  KindConflict,
		},
		{
			name:  "not found",
			reply: &Reply{Status: http.StatusNotFound, Body: []byte(`{"detail": "missing"}`)},
			want:  KindNotFound,
		},
		{
			name:  "unprocessable entity",
			reply: &Reply{Status: http.StatusUnprocessableEntity, Body: []byte(`{"detail": []}`)},
			want:  KindValidation,
		},
		{
			name:  "detail array on another status",
			reply: &Reply{Status: http.StatusBadRequest, Body: []byte(`{"detail": [{"loc": ["body", "x"], "msg": "bad"}]}`)},
			want:  KindValidation,
		},
		{
			name:  "server error",
			reply: &Reply{Status: http.StatusInternalServerError, Body: []byte(`{}`)},
			want:  KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.reply, nil)
			if got == nil {
				t.Fatal("Classify() = nil for a failed reply")
			}

			if got.Kind != tt.want {
				t.Fatalf("Classify().Kind = %v, want %v", got.Kind, tt.want)
			}
		})
	}
}

func TestClassifySuccessIsNil(t *testing.T) {
	if got := Classify(&Reply{Status: http.StatusOK}, nil); got != nil {
		t.Fatalf("Classify(2xx) = %v, want nil", got)
	}
}

func TestClassifyTransportError(t *testing.T) {
	got := Classify(nil, ErrUnreachable)
	if got == nil || got.Kind != KindConnectivity {
		t.Fatalf("Classify(err) = %v, want connectivity kind", got)
	}
}

func TestErrorMessagePlainDetail(t *testing.T) {
	got := ErrorMessage([]byte(`{"detail": "Book not found"}`))
	if got != "Book not found" {
		t.Fatalf("ErrorMessage() = %q", got)
	}
}

func TestErrorMessageUnknownShape(t *testing.T) {
	for _, body := range []string{`{}`, ``, `{"detail": 42}`, `garbage`} {
		got := ErrorMessage([]byte(body))
		if got != unknownErrorMessage {
			t.Fatalf("ErrorMessage(%q) = %q, want the unknown-error message", body, got)
		}
	}
}

func TestErrorMessageReturnDateRule(t *testing.T) {
	restore := SetNow(func() time.Time {
		return time.Date(2024, 6, 14, 10, 0, 0, 0, time.UTC)
	})
	defer restore()

	body := []byte(`{"detail": [{"loc": ["body", "due_date"], "msg": "Value error, expected return date must be after the loan date"}]}`)

	got := ErrorMessage(body)
	want := "invalid date: the return must be scheduled for 2024-06-15 (tomorrow) or later"

	if got != want {
		t.Fatalf("ErrorMessage() = %q, want %q", got, want)
	}
}

func TestErrorMessageBirthDate(t *testing.T) {
	body := []byte(`{"detail": [{"loc": ["body", "birth_date"], "msg": "Value error, birth date cannot be in the future (2031-01-01). Authors must be born already."}]}`)

	// The date in parentheses is stripped; the surrounding space survives,
	// matching the regex exactly.
	got := ErrorMessage(body)
	want := "birth date: birth date cannot be in the future . Authors must be born already."

	if got != want {
		t.Fatalf("ErrorMessage() = %q, want %q", got, want)
	}
}

func TestErrorMessageGenericFieldErrors(t *testing.T) {
	body := []byte(`{"detail": [
		{"loc": ["body", "title"], "msg": "field required"},
		{"loc": ["body", "isbn"], "msg": "ensure this value has at least 10 characters"}
	]}`)

	got := ErrorMessage(body)
	want := "validation errors: title: field required; isbn: ensure this value has at least 10 characters"

	if got != want {
		t.Fatalf("ErrorMessage() = %q, want %q", got, want)
	}
}

func TestErrorMessageTruncatesLongMessages(t *testing.T) {
	long := "this validation message is far too long to show in full on a single dashboard line"

	body := []byte(`{"detail": [{"loc": ["body", "isbn"], "msg": "` + long + `"}]}`)

	got := ErrorMessage(body)
	want := "validation errors: isbn: " + long[:maxFieldErrorLen] + "..."

	if got != want {
		t.Fatalf("ErrorMessage() = %q, want %q", got, want)
	}
}

func TestErrorMessageMissingLoc(t *testing.T) {
	body := []byte(`{"detail": [{"loc": [], "msg": "boom"}]}`)

	got := ErrorMessage(body)
	want := "validation errors: API: boom"

	if got != want {
		t.Fatalf("ErrorMessage() = %q, want %q", got, want)
	}
}

func TestErrorMessageNestedLoc(t *testing.T) {
	body := []byte(`{"detail": [{"loc": ["body", "author", "name"], "msg": "field required"}]}`)

	got := ErrorMessage(body)
	want := "validation errors: author.name: field required"

	if got != want {
		t.Fatalf("ErrorMessage() = %q, want %q", got, want)
	}
}

func TestAuthErrorMessageRewrites(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "invalid email",
			body: `{"detail": [{"loc": ["body", "email"], "msg": "value is not a valid email address: An email address must have an @-sign."}]}`,
			want: "please enter a valid email address",
		},
		{
			name: "short password",
			body: `{"detail": [{"loc": ["body", "password"], "msg": "String should have at least 6 characters"}]}`,
			want: "the password must be at least 6 characters long",
		},
		{
			name: "empty name",
			body: `{"detail": [{"loc": ["body", "name"], "msg": "String should have at least 1 character"}]}`,
			want: "name: the name field is required",
		},
		{
			name: "multiple joined with pipe",
			body: `{"detail": [
				{"loc": ["body", "email"], "msg": "An email address must have an @-sign."},
				{"loc": ["body", "password"], "msg": "String should have at least 6 characters"}
			]}`,
			want: "please enter a valid email address | the password must be at least 6 characters long",
		},
		{
			name: "plain detail string passes through",
			body: `{"detail": "Incorrect email or password"}`,
			want: "Incorrect email or password",
		},
		{
			name: "unmatched message keeps field prefix",
			body: `{"detail": [{"loc": ["body", "role"], "msg": "unexpected value"}]}`,
			want: "role: unexpected value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AuthErrorMessage([]byte(tt.body))
			if got != tt.want {
				t.Fatalf("AuthErrorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTomorrow(t *testing.T) {
	restore := SetNow(func() time.Time {
		return time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)
	})
	defer restore()

	if got := Tomorrow(); got != "2025-01-01" {
		t.Fatalf("Tomorrow() = %q, want 2025-01-01", got)
	}
}
