// Package view turns fetched records into display units and drives the
// section state machine of the dashboard.
package view

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"biblio/internal/api"
)

// EntityKind names the entity types the resolver can label.
type EntityKind string

const (
	KindBook   EntityKind = "book"
	KindAuthor EntityKind = "author"
	KindReader EntityKind = "reader"
)

// DetailFetcher is the subset of the API client the resolver needs.
type DetailFetcher interface {
	BookByID(ctx context.Context, id int) (api.Book, error)
	AuthorByID(ctx context.Context, id int) (api.Author, error)
	UserByID(ctx context.Context, id int) (api.User, error)
}

// Resolver turns foreign-key ids into human-readable labels.
//
// Results are memoized per resolver, and a resolver is meant to live for
// exactly one render pass: create it, render, discard it. Sharing one across
// renders would pin stale labels. Lookups never fail - a fetch error or a
// record with missing fields yields a fallback label that still contains the
// id, so the UI never shows a blank field.
type Resolver struct {
	fetcher DetailFetcher

	mu   sync.Mutex
	memo map[string]string
}

// NewResolver creates a resolver for one render pass.
func NewResolver(fetcher DetailFetcher) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		memo:    make(map[string]string),
	}
}

// Resolve returns the display label for an entity. Safe for concurrent use
// within the render pass that owns the resolver.
func (r *Resolver) Resolve(ctx context.Context, kind EntityKind, id int) string {
	key := string(kind) + ":" + fmt.Sprint(id)

	r.mu.Lock()
	label, hit := r.memo[key]
	r.mu.Unlock()

	if hit {
		return label
	}

	label = r.fetch(ctx, kind, id)

	r.mu.Lock()
	r.memo[key] = label
	r.mu.Unlock()

	return label
}

// ResolveAll resolves a set of lookups concurrently and waits for all of
// them. Independent lookups within one render run in parallel; the render
// pass continues only once every label is available.
func (r *Resolver) ResolveAll(ctx context.Context, lookups []Lookup) {
	seen := make(map[Lookup]bool, len(lookups))

	var wg sync.WaitGroup

	for _, l := range lookups {
		if seen[l] {
			continue
		}

		seen[l] = true

		wg.Add(1)

		go func(l Lookup) {
			defer wg.Done()
			r.Resolve(ctx, l.Kind, l.ID)
		}(l)
	}

	wg.Wait()
}

// Lookup is one entity reference to resolve.
type Lookup struct {
	Kind EntityKind
	ID   int
}

func (r *Resolver) fetch(ctx context.Context, kind EntityKind, id int) string {
	switch kind {
	case KindBook:
		book, err := r.fetcher.BookByID(ctx, id)
		if err != nil || book.Title == "" {
			return fmt.Sprintf("Unknown Book (id %d)", id)
		}

		return book.Title

	case KindAuthor:
		author, err := r.fetcher.AuthorByID(ctx, id)
		if err != nil {
			return fmt.Sprintf("Unknown Author (id %d)", id)
		}

		if label := fullName(author.Name, author.Surname); label != "" {
			return label
		}

		return fmt.Sprintf("Unknown Author (id %d)", id)

	case KindReader:
		user, err := r.fetcher.UserByID(ctx, id)
		if err != nil {
			return fmt.Sprintf("Unknown Reader (id %d)", id)
		}

		if label := fullName(user.Name, user.Surname); label != "" {
			return label
		}

		return fmt.Sprintf("Unknown Reader (id %d)", id)
	}

	return fmt.Sprintf("Unknown (id %d)", id)
}

// fullName joins given and family name, tolerating either being empty.
func fullName(name, surname string) string {
	return strings.TrimSpace(strings.TrimSpace(name) + " " + strings.TrimSpace(surname))
}
