// Package loan holds the client-side loan cache and filter engine.
//
// The dashboard fetches loans once per query scope ("all loans" or "loans of
// one reader") and answers filter changes from the cached records without
// touching the network. The cache is a two-state machine:
//
//	Empty ──fetch ok──▶ Populated(scope)
//	Populated(scope) ──invalidate / different scope──▶ Empty
//
// A cached result is valid only for the scope it was tagged with. Mutations
// (creating a loan, finalizing a loan) and section re-entry invalidate it
// explicitly. Because fetches are asynchronous, a late result from a
// superseded fetch may arrive after the wanted scope changed; Install
// discards such results instead of poisoning the cache.
package loan

import (
	"strconv"

	"biblio/internal/api"
)

// Scope identifies the query a cached result set is valid for.
// The zero value means "all loans".
type Scope struct {
	ReaderID int
}

// AllLoans is the unscoped query.
func AllLoans() Scope {
	return Scope{}
}

// ForReader scopes the query to one reader.
func ForReader(readerID int) Scope {
	return Scope{ReaderID: readerID}
}

// All reports whether the scope covers every loan.
func (s Scope) All() bool {
	return s.ReaderID == 0
}

// Path returns the collection endpoint serving this scope.
func (s Scope) Path() string {
	if s.All() {
		return "/loans/"
	}

	return "/loans/reader/" + strconv.Itoa(s.ReaderID)
}

// Cache holds the most recently fetched loans for one scope.
// Not safe for concurrent use; the dashboard is single-threaded.
type Cache struct {
	populated bool
	scope     Scope
	wanted    Scope
	records   []api.Loan
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Populated reports whether the cache holds records for some scope.
func (c *Cache) Populated() bool {
	return c.populated
}

// Scope returns the scope tag of the cached records. Only meaningful while
// Populated.
func (c *Cache) Scope() Scope {
	return c.scope
}

// Request marks scope as the wanted query and returns the cached records if
// they already serve it. A request for a different scope empties the cache,
// forcing the caller to fetch.
func (c *Cache) Request(scope Scope) ([]api.Loan, bool) {
	c.wanted = scope

	if c.populated && c.scope == scope {
		return c.records, true
	}

	c.populated = false
	c.records = nil

	return nil, false
}

// Install stores a fetch result. The result is applied only when its scope
// still matches the last requested scope; a stale result from a superseded
// fetch is discarded and the cache left untouched. Reports whether the
// result was installed.
func (c *Cache) Install(scope Scope, records []api.Loan) bool {
	if scope != c.wanted {
		return false
	}

	c.populated = true
	c.scope = scope
	c.records = records

	return true
}

// Invalidate empties the cache. Called after any mutation that changes loan
// state and when the loans section is re-entered.
func (c *Cache) Invalidate() {
	c.populated = false
	c.records = nil
}
