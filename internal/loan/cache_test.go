package loan

import (
	"testing"

	"biblio/internal/api"

	"github.com/google/go-cmp/cmp"
)

func TestCacheStartsEmpty(t *testing.T) {
	c := NewCache()

	if c.Populated() {
		t.Fatal("new cache reports populated")
	}

	if _, hit := c.Request(AllLoans()); hit {
		t.Fatal("empty cache answered a request")
	}
}

func TestCacheHitOnSameScope(t *testing.T) {
	c := NewCache()

	records := []api.Loan{{ID: 1}, {ID: 2}}

	c.Request(AllLoans())

	if !c.Install(AllLoans(), records) {
		t.Fatal("Install() discarded a result for the wanted scope")
	}

	got, hit := c.Request(AllLoans())
	if !hit {
		t.Fatal("populated cache missed on the same scope")
	}

	if diff := cmp.Diff(records, got); diff != "" {
		t.Fatalf("cached records mismatch (-want +got):\n%s", diff)
	}
}

func TestCacheScopeChangeEmptiesCache(t *testing.T) {
	c := NewCache()

	c.Request(AllLoans())
	c.Install(AllLoans(), []api.Loan{{ID: 1}})

	// Asking for a different scope must not serve the old records.
	if _, hit := c.Request(ForReader(5)); hit {
		t.Fatal("cache served records tagged with a different scope")
	}

	if c.Populated() {
		t.Fatal("cache still populated after a scope change")
	}
}

func TestCacheDiscardsStaleResult(t *testing.T) {
	c := NewCache()

	// A fetch for all loans starts, then the user switches to a reader scope
	// before the result arrives.
	c.Request(AllLoans())
	c.Request(ForReader(5))

	if c.Install(AllLoans(), []api.Loan{{ID: 1}}) {
		t.Fatal("Install() accepted a result for a superseded scope")
	}

	if c.Populated() {
		t.Fatal("stale result poisoned the cache")
	}

	// The result for the wanted scope still lands.
	if !c.Install(ForReader(5), []api.Loan{{ID: 9}}) {
		t.Fatal("Install() discarded the wanted result")
	}

	got, hit := c.Request(ForReader(5))
	if !hit || len(got) != 1 || got[0].ID != 9 {
		t.Fatalf("Request() = %v, %v, want the reader-scoped records", got, hit)
	}
}

func TestCacheInvalidate(t *testing.T) {
	c := NewCache()

	c.Request(AllLoans())
	c.Install(AllLoans(), []api.Loan{{ID: 1}})

	c.Invalidate()

	if c.Populated() {
		t.Fatal("cache populated after Invalidate()")
	}

	if _, hit := c.Request(AllLoans()); hit {
		t.Fatal("invalidated cache answered a request")
	}
}

func TestScopePath(t *testing.T) {
	if got := AllLoans().Path(); got != "/loans/" {
		t.Fatalf("AllLoans().Path() = %q", got)
	}

	if got := ForReader(42).Path(); got != "/loans/reader/42" {
		t.Fatalf("ForReader(42).Path() = %q", got)
	}
}
