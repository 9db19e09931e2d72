package view

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Section is one mutually-exclusive panel of the dashboard.
type Section int

const (
	SectionHome Section = iota
	SectionLoans
	SectionManageBooks
	SectionManageAuthors
	SectionManageGenres
	SectionCatalog
)

// String returns the section's navigation name.
func (s Section) String() string {
	switch s {
	case SectionHome:
		return "home"
	case SectionLoans:
		return "loans"
	case SectionManageBooks:
		return "books"
	case SectionManageAuthors:
		return "authors"
	case SectionManageGenres:
		return "genres"
	case SectionCatalog:
		return "catalog"
	default:
		return fmt.Sprintf("section(%d)", int(s))
	}
}

// Title returns the section heading shown above its content.
func (s Section) Title() string {
	switch s {
	case SectionHome:
		return "Dashboard"
	case SectionLoans:
		return "Manage Loans"
	case SectionManageBooks:
		return "Manage Books"
	case SectionManageAuthors:
		return "Manage Authors"
	case SectionManageGenres:
		return "Manage Genres"
	case SectionCatalog:
		return "Catalog"
	default:
		return s.String()
	}
}

// ErrUnknownSection is returned for unrecognized section names.
var ErrUnknownSection = errors.New("unknown section")

// ParseSection maps a navigation name to its section.
func ParseSection(name string) (Section, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "home", "dashboard":
		return SectionHome, nil
	case "loans":
		return SectionLoans, nil
	case "books":
		return SectionManageBooks, nil
	case "authors":
		return SectionManageAuthors, nil
	case "genres":
		return SectionManageGenres, nil
	case "catalog":
		return SectionCatalog, nil
	default:
		return SectionHome, fmt.Errorf("%w: %s", ErrUnknownSection, name)
	}
}

// Sections lists every section in navigation order.
func Sections() []Section {
	return []Section{
		SectionHome,
		SectionLoans,
		SectionManageBooks,
		SectionManageAuthors,
		SectionManageGenres,
		SectionCatalog,
	}
}

// Loader fetches and renders the data one section needs on entry.
type Loader func(ctx context.Context) error

// Controller is the section state machine: exactly one section is active at
// a time, activating one deactivates the rest, and entering a section always
// runs its loaders - re-entering the active section reloads identically, so
// navigation never shows stale data.
type Controller struct {
	active    Section
	activated bool
	loaders   map[Section][]Loader
}

// NewController creates a controller with no active section.
func NewController() *Controller {
	return &Controller{loaders: make(map[Section][]Loader)}
}

// Register appends a loader to run whenever the section is entered.
// Loaders run in registration order.
func (c *Controller) Register(s Section, load Loader) {
	c.loaders[s] = append(c.loaders[s], load)
}

// Active returns the currently active section, if any.
func (c *Controller) Active() (Section, bool) {
	return c.active, c.activated
}

// Activate makes s the single active section and runs its loaders. The
// transition happens even when a loader fails; the error is reported so the
// caller can surface it, but the dashboard stays on the section with
// whatever did render.
func (c *Controller) Activate(ctx context.Context, s Section) error {
	c.active = s
	c.activated = true

	for _, load := range c.loaders[s] {
		if err := load(ctx); err != nil {
			return err
		}
	}

	return nil
}
