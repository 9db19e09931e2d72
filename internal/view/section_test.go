package view

import (
	"context"
	"errors"
	"testing"
)

func TestParseSection(t *testing.T) {
	tests := []struct {
		input   string
		want    Section
		wantErr bool
	}{
		{input: "home", want: SectionHome},
		{input: "dashboard", want: SectionHome},
		{input: "loans", want: SectionLoans},
		{input: "books", want: SectionManageBooks},
		{input: "authors", want: SectionManageAuthors},
		{input: "genres", want: SectionManageGenres},
		{input: "catalog", want: SectionCatalog},
		{input: " Loans ", want: SectionLoans},
		{input: "settings", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("input="+tt.input, func(t *testing.T) {
			got, err := ParseSection(tt.input)

			if tt.wantErr {
				if !errors.Is(err, ErrUnknownSection) {
					t.Fatalf("ParseSection(%q) error = %v, want ErrUnknownSection", tt.input, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("ParseSection(%q) error: %v", tt.input, err)
			}

			if got != tt.want {
				t.Fatalf("ParseSection(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestControllerExclusiveActivation(t *testing.T) {
	c := NewController()

	if _, ok := c.Active(); ok {
		t.Fatal("new controller has an active section")
	}

	if err := c.Activate(context.Background(), SectionLoans); err != nil {
		t.Fatalf("Activate() error: %v", err)
	}

	active, ok := c.Active()
	if !ok || active != SectionLoans {
		t.Fatalf("Active() = %v, %v, want loans", active, ok)
	}

	// Switching replaces the active section; there is never more than one.
	if err := c.Activate(context.Background(), SectionCatalog); err != nil {
		t.Fatalf("Activate() error: %v", err)
	}

	active, _ = c.Active()
	if active != SectionCatalog {
		t.Fatalf("Active() = %v, want catalog", active)
	}
}

func TestControllerRunsLoadersOnEveryEntry(t *testing.T) {
	c := NewController()

	loads := 0
	c.Register(SectionLoans, func(context.Context) error {
		loads++

		return nil
	})

	ctx := context.Background()

	_ = c.Activate(ctx, SectionLoans)
	_ = c.Activate(ctx, SectionLoans) // re-entry reloads, never serves stale state
	_ = c.Activate(ctx, SectionHome)
	_ = c.Activate(ctx, SectionLoans)

	if loads != 3 {
		t.Fatalf("loader ran %d times, want 3", loads)
	}
}

func TestControllerLoaderOrderAndFailure(t *testing.T) {
	c := NewController()

	var order []string

	c.Register(SectionHome, func(context.Context) error {
		order = append(order, "first")

		return nil
	})

	boom := errors.New("boom")

	c.Register(SectionHome, func(context.Context) error {
		order = append(order, "second")

		return boom
	})

	c.Register(SectionHome, func(context.Context) error {
		order = append(order, "third")

		return nil
	})

	err := c.Activate(context.Background(), SectionHome)
	if !errors.Is(err, boom) {
		t.Fatalf("Activate() error = %v, want the loader failure", err)
	}

	// The section still became active; the failure only stopped later loaders.
	if active, ok := c.Active(); !ok || active != SectionHome {
		t.Fatalf("Active() = %v, %v after loader failure", active, ok)
	}

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("loader order = %v", order)
	}
}

func TestSectionsOrder(t *testing.T) {
	sections := Sections()

	if len(sections) != 6 {
		t.Fatalf("Sections() has %d entries", len(sections))
	}

	if sections[0] != SectionHome || sections[len(sections)-1] != SectionCatalog {
		t.Fatalf("Sections() order = %v", sections)
	}
}
