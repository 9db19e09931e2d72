package loan

import (
	"errors"
	"strings"
	"time"

	"biblio/internal/api"
)

// Class is the display classification of a loan. Every loan falls into
// exactly one class.
type Class int

const (
	// ClassInTime is an active loan that is not overdue.
	ClassInTime Class = iota

	// ClassOverdue is an active loan whose due date has passed, per the
	// server-computed overdue flag.
	ClassOverdue

	// ClassReturned is a finished loan.
	ClassReturned
)

// String returns the display label for the class.
func (c Class) String() string {
	switch c {
	case ClassReturned:
		return "returned"
	case ClassOverdue:
		return "overdue"
	default:
		return "in time"
	}
}

// Classify assigns a loan to exactly one class.
//
// A loan is returned iff its status tag is "returned" or the legacy synonym
// "finalized" (case-insensitive). Otherwise the server-computed overdue flag
// decides between overdue and in-time. The overdue flag never gates the
// returned branch: once returned, overdue is not re-evaluated. Unknown status
// tags fall through to the overdue/in-time branch.
func Classify(l api.Loan) Class {
	switch strings.ToLower(l.Status) {
	case api.StatusReturned, api.StatusFinalized:
		return ClassReturned
	}

	if l.IsOverdue {
		return ClassOverdue
	}

	return ClassInTime
}

// StatusFilter selects loans by class.
type StatusFilter int

const (
	// StatusAny matches every loan.
	StatusAny StatusFilter = iota

	// StatusInTime matches active loans that are not overdue.
	StatusInTime

	// StatusOverdue matches active overdue loans.
	StatusOverdue

	// StatusReturned matches returned (or finalized) loans.
	StatusReturned
)

// ErrUnknownStatusFilter is returned for unrecognized filter names.
var ErrUnknownStatusFilter = errors.New("unknown status filter (want all, in-time, overdue or returned)")

// ParseStatusFilter parses a user-supplied status filter name.
func ParseStatusFilter(name string) (StatusFilter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "all":
		return StatusAny, nil
	case "in-time", "in_time", "on-loan":
		return StatusInTime, nil
	case "overdue":
		return StatusOverdue, nil
	case "returned":
		return StatusReturned, nil
	default:
		return StatusAny, ErrUnknownStatusFilter
	}
}

// matches reports whether a loan's class satisfies the filter.
func (f StatusFilter) matches(l api.Loan) bool {
	switch f {
	case StatusReturned:
		return Classify(l) == ClassReturned
	case StatusOverdue:
		return Classify(l) == ClassOverdue
	case StatusInTime:
		return Classify(l) == ClassInTime
	default:
		return true
	}
}

// Criteria are the client-side filters applied to cached loans. All fields
// are optional; zero values are unconstrained. Criteria are transient,
// request-scoped values.
type Criteria struct {
	// ReaderID selects the query scope (server-side), not a local
	// predicate: changing it changes which endpoint the records come from.
	ReaderID int

	// DueBy retains loans due on or before this date, at end-of-day
	// granularity.
	DueBy time.Time

	// LoanedFrom/LoanedTo retain loans whose loan date falls inside the
	// range, inclusive on both ends. An absent bound is unconstrained on
	// that side.
	LoanedFrom time.Time
	LoanedTo   time.Time

	// Status retains loans of one class.
	Status StatusFilter
}

// Scope returns the fetch scope the criteria require.
func (c Criteria) Scope() Scope {
	if c.ReaderID > 0 {
		return ForReader(c.ReaderID)
	}

	return AllLoans()
}

// endOfDay returns t's date at 23:59:59.999 local time.
func endOfDay(t time.Time) time.Time {
	year, month, day := t.Date()

	return time.Date(year, month, day, 23, 59, 59, 999e6, t.Location())
}

// startOfDay returns t's date at 00:00:00.000 local time.
func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()

	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// Apply filters records by the criteria. Pure: no side effects, the input
// slice is never modified, and output order equals input order.
func Apply(records []api.Loan, crit Criteria) []api.Loan {
	filtered := make([]api.Loan, 0, len(records))

	dueBound := time.Time{}
	if !crit.DueBy.IsZero() {
		dueBound = endOfDay(crit.DueBy)
	}

	fromBound := time.Time{}
	if !crit.LoanedFrom.IsZero() {
		fromBound = startOfDay(crit.LoanedFrom)
	}

	toBound := time.Time{}
	if !crit.LoanedTo.IsZero() {
		toBound = endOfDay(crit.LoanedTo)
	}

	for _, record := range records {
		if !dueBound.IsZero() && record.DueDate.After(dueBound) {
			continue
		}

		if !fromBound.IsZero() && record.LoanDate.Before(fromBound) {
			continue
		}

		if !toBound.IsZero() && record.LoanDate.After(toBound) {
			continue
		}

		if !crit.Status.matches(record) {
			continue
		}

		filtered = append(filtered, record)
	}

	return filtered
}
