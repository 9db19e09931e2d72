package api

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Kind classifies a failed API exchange. The matching rules below preserve
// the substring heuristics the backend contract grew around; they are fragile
// against message wording changes and intentionally kept as-is.
type Kind int

const (
	// KindUnknown is any failure the other kinds don't cover.
	KindUnknown Kind = iota

	// KindValidation is a field-level validation failure, recoverable by
	// fixing the submitted form.
	KindValidation

	// KindConflict is a business-rule block (e.g. deletion with related
	// records); the operation was aborted with no partial state change.
	KindConflict

	// KindNotFound is a missing resource. List-style callers treat it as an
	// empty result, not a hard error.
	KindNotFound

	// KindConnectivity is a transport failure with no response at all.
	KindConnectivity
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindConnectivity:
		return "connectivity"
	default:
		return "unknown"
	}
}

// Error is a failed API exchange with a classified kind and a
// human-readable message extracted from the error payload.
type Error struct {
	Status  int
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// unknownErrorMessage is shown when the error payload has no recognizable shape.
const unknownErrorMessage = "unknown error, check the server response for details"

// connectivityMessage is shown for transport failures. Never retried silently.
const connectivityMessage = "cannot reach the library API, check your connection and the configured base URL"

// Classify turns a completed-but-failed exchange (or a transport error) into
// a typed *Error. Returns nil when the exchange succeeded.
func Classify(reply *Reply, err error) *Error {
	if err != nil {
		return &Error{Kind: KindConnectivity, Message: connectivityMessage}
	}

	if reply.OK() {
		return nil
	}

	apiErr := &Error{
		Status:  reply.Status,
		Message: ErrorMessage(reply.Body),
	}

	switch {
	case reply.Status == http.StatusConflict:
		apiErr.Kind = KindConflict
	case reply.Status == http.StatusNotFound:
		apiErr.Kind = KindNotFound
	case reply.Status == http.StatusUnprocessableEntity, gjson.GetBytes(reply.Body, "detail").IsArray():
		apiErr.Kind = KindValidation
	default:
		apiErr.Kind = KindUnknown
	}

	return apiErr
}

// IsNotFound reports whether err is an API error of kind not-found.
func IsNotFound(err error) bool {
	var apiErr *Error

	return errors.As(err, &apiErr) && apiErr.Kind == KindNotFound
}

// IsConflict reports whether err is an API error of kind conflict.
func IsConflict(err error) bool {
	var apiErr *Error

	return errors.As(err, &apiErr) && apiErr.Kind == KindConflict
}

// Substrings the backend embeds in specific validation messages. Matching on
// message text is inherently fragile; these mirror the backend's wording and
// must move in lockstep with it.
const (
	returnDateRuleFragment = "expected return date must be after"
	birthDateField         = "birth_date"
	valueErrorBoilerplate  = "Value error, "
)

// embeddedDate matches literal dates the backend bakes into birth-date
// validation messages, e.g. "(2024-01-01).".
var embeddedDate = regexp.MustCompile(`\(\d{4}-\d{2}-\d{2}\)\.`)

// maxFieldErrorLen caps how much of a raw validation message is echoed per field.
const maxFieldErrorLen = 50

// now is stubbed in tests to pin the "tomorrow" date.
var now = time.Now

// Tomorrow returns tomorrow's date as YYYY-MM-DD. Loan due dates must be
// scheduled at this date or later.
func Tomorrow() string {
	return now().AddDate(0, 0, 1).Format("2006-01-02")
}

// ErrorMessage extracts a single human-readable message from an error
// payload. The payload's "detail" field carries either a plain string or a
// list of field-validation error objects, each with a "loc" path and a "msg".
func ErrorMessage(body []byte) string {
	detail := gjson.GetBytes(body, "detail")

	if detail.IsArray() {
		return validationMessage(detail.Array())
	}

	if detail.Type == gjson.String && detail.Str != "" {
		return detail.Str
	}

	return unknownErrorMessage
}

func validationMessage(details []gjson.Result) string {
	if len(details) == 0 {
		return unknownErrorMessage
	}

	// Business rule on the loan due date gets a fixed message naming
	// tomorrow's date instead of the backend's raw wording.
	for _, d := range details {
		if strings.Contains(d.Get("msg").Str, returnDateRuleFragment) {
			return fmt.Sprintf("invalid date: the return must be scheduled for %s (tomorrow) or later", Tomorrow())
		}
	}

	// Birth-date validation gets the boilerplate and the embedded literal
	// dates stripped.
	for _, d := range details {
		if !locContains(d, birthDateField) {
			continue
		}

		msg := strings.ReplaceAll(d.Get("msg").Str, valueErrorBoilerplate, "")
		msg = embeddedDate.ReplaceAllString(msg, ".")

		return "birth date: " + msg
	}

	parts := make([]string, 0, len(details))
	for _, d := range details {
		parts = append(parts, fieldError(d))
	}

	return "validation errors: " + strings.Join(parts, "; ")
}

// locContains reports whether any segment of the entry's "loc" path equals field.
func locContains(d gjson.Result, field string) bool {
	for _, seg := range d.Get("loc").Array() {
		if seg.String() == field {
			return true
		}
	}

	return false
}

// fieldError formats one validation entry as "field: message", dropping the
// leading "body"/"query" segment of the location path and truncating long
// messages.
func fieldError(d gjson.Result) string {
	loc := "API"

	if segments := d.Get("loc").Array(); len(segments) > 1 {
		parts := make([]string, 0, len(segments)-1)
		for _, seg := range segments[1:] {
			parts = append(parts, seg.String())
		}

		loc = strings.Join(parts, ".")
	}

	msg := d.Get("msg").Str
	if len(msg) > maxFieldErrorLen {
		msg = msg[:maxFieldErrorLen] + "..."
	}

	return loc + ": " + msg
}

// AuthErrorMessage formats login/register error payloads with friendlier
// wording for the handful of validation messages users hit most.
func AuthErrorMessage(body []byte) string {
	detail := gjson.GetBytes(body, "detail")

	if !detail.IsArray() {
		if detail.Type == gjson.String && detail.Str != "" {
			return detail.Str
		}

		return unknownErrorMessage
	}

	details := detail.Array()

	parts := make([]string, 0, len(details))

	for _, d := range details {
		field := "error"
		if segments := d.Get("loc").Array(); len(segments) > 0 {
			field = segments[len(segments)-1].String()
		}

		msg := d.Get("msg").Str

		switch {
		case field == "email" && strings.Contains(msg, "@-sign"):
			parts = append(parts, "please enter a valid email address")
		case field == "password" && strings.Contains(msg, "at least 6 characters"):
			parts = append(parts, "the password must be at least 6 characters long")
		case field == "name" && strings.Contains(msg, "at least 1 character"):
			parts = append(parts, "name: the name field is required")
		default:
			parts = append(parts, field+": "+msg)
		}
	}

	return strings.Join(parts, " | ")
}
