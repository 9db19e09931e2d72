package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"biblio/internal/api"
	"biblio/internal/loan"
	"biblio/internal/view"

	"github.com/peterh/liner"
)

// dashboard is the interactive shell. It owns the pieces the one-shot
// commands create per invocation: the section controller, the scoped loan
// cache and the current filter criteria all live for the whole shell session.
type dashboard struct {
	app        *App
	cache      *loan.Cache
	crit       loan.Criteria
	controller *view.Controller
	line       *liner.State
}

func cmdDash(ctx context.Context, app *App) error {
	if err := app.RequireLogin(); err != nil {
		return err
	}

	d := &dashboard{
		app:        app,
		cache:      loan.NewCache(),
		controller: view.NewController(),
	}

	d.registerSections()

	return d.run(ctx)
}

// registerSections wires each section's loaders. Loans re-entry invalidates
// the cache first so navigating away and back always refetches.
func (d *dashboard) registerSections() {
	d.controller.Register(view.SectionHome, func(ctx context.Context) error {
		return cmdSummary(ctx, d.app)
	})

	d.controller.Register(view.SectionLoans, func(ctx context.Context) error {
		d.cache.Invalidate()

		return showLoans(ctx, d.app, d.cache, d.crit)
	})

	d.controller.Register(view.SectionManageBooks, func(ctx context.Context) error {
		return cmdCatalog(ctx, d.app, nil)
	})

	d.controller.Register(view.SectionManageAuthors, func(ctx context.Context) error {
		return authorLs(ctx, d.app)
	})

	d.controller.Register(view.SectionManageGenres, func(ctx context.Context) error {
		return genreLs(ctx, d.app)
	})

	d.controller.Register(view.SectionCatalog, func(ctx context.Context) error {
		return cmdCatalog(ctx, d.app, nil)
	})
}

// historyFile returns the path to the shell history file.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".biblio_history")
}

func (d *dashboard) run(ctx context.Context) error {
	d.line = liner.NewLiner()
	defer d.line.Close()

	d.line.SetCtrlCAborts(true)
	d.line.SetCompleter(d.completer)

	if f, err := os.Open(historyFile()); err == nil {
		d.line.ReadHistory(f)
		f.Close()
	}

	// Confirmations go through the line editor while the shell runs.
	restore := d.app.Confirm
	d.app.Confirm = &linerConfirmer{line: d.line, o: d.app.IO}

	defer func() { d.app.Confirm = restore }()

	d.app.IO.Printf("biblio dashboard - logged in as %s (%s)\n", d.app.Session.DisplayName(), d.app.Session.Role)
	d.app.IO.Println("Type 'help' for available commands.")

	// Librarians land on the dashboard, readers on the catalog.
	landing := view.SectionCatalog
	if d.app.Session.Role == api.RoleLibrarian {
		landing = view.SectionHome
	}

	d.activate(ctx, landing)

	for {
		prompt := "biblio> "
		if active, ok := d.controller.Active(); ok {
			prompt = fmt.Sprintf("biblio:%s> ", active)
		}

		input, err := d.line.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				d.app.IO.Println("\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		d.line.AppendHistory(input)

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		if cmd == "exit" || cmd == "quit" || cmd == "q" {
			d.app.IO.Println("Bye!")

			break
		}

		d.dispatch(ctx, cmd, args)
	}

	d.saveHistory()

	return nil
}

func (d *dashboard) dispatch(ctx context.Context, cmd string, args []string) {
	// Section names navigate.
	if section, err := view.ParseSection(cmd); err == nil {
		d.activate(ctx, section)

		return
	}

	switch cmd {
	case "help", "?":
		d.printHelp()

	case "filter":
		d.cmdFilter(ctx, args)

	case "lend":
		d.mutate(ctx, func() error { return cmdLend(ctx, d.app, args) })

	case "return":
		d.mutate(ctx, func() error { return cmdReturn(ctx, d.app, args) })

	case "author":
		d.manage(ctx, args, func() error { return cmdAuthor(ctx, d.app, args) })

	case "genre":
		d.manage(ctx, args, func() error { return cmdGenre(ctx, d.app, args) })

	case "book":
		d.manage(ctx, args, func() error { return cmdBook(ctx, d.app, args) })

	case "readers":
		if err := d.listReaders(ctx); err != nil {
			d.app.IO.ErrPrintln("error:", err)
		}

	case "whoami":
		_ = cmdWhoami(d.app)

	case "clear", "cls":
		d.app.IO.Printf("\033[H\033[2J")

	default:
		d.app.IO.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
	}
}

// activate switches sections. Errors are reported but never end the shell;
// the section stays active with whatever rendered.
func (d *dashboard) activate(ctx context.Context, s view.Section) {
	if err := d.controller.Activate(ctx, s); err != nil {
		d.app.IO.ErrPrintln("error:", err)
	}
}

// mutate runs a loan-state mutation, then invalidates the cache and reloads
// the active section so no stale records survive the change.
func (d *dashboard) mutate(ctx context.Context, run func() error) {
	if err := run(); err != nil {
		d.app.IO.ErrPrintln("error:", err)

		return
	}

	d.cache.Invalidate()

	if active, ok := d.controller.Active(); ok {
		d.activate(ctx, active)
	}
}

// manage runs an author/genre/book subcommand. Mutating subcommands reload
// the active section; bare listings don't.
func (d *dashboard) manage(ctx context.Context, args []string, run func() error) {
	mutating := len(args) > 0 && (args[0] == "add" || args[0] == "rm")

	if err := run(); err != nil {
		d.app.IO.ErrPrintln("error:", err)

		return
	}

	if !mutating {
		return
	}

	if active, ok := d.controller.Active(); ok {
		d.activate(ctx, active)
	}
}

// cmdFilter adjusts the loan criteria and re-renders from the cache. Only a
// reader-scope change forces a refetch; every other filter is answered from
// the cached records.
func (d *dashboard) cmdFilter(ctx context.Context, args []string) {
	if len(args) == 1 && args[0] == "clear" {
		d.crit = loan.Criteria{}
	} else {
		crit, err := parseFilterArgs(d.crit, args)
		if err != nil {
			d.app.IO.ErrPrintln("error:", err)

			return
		}

		d.crit = crit
	}

	if err := showLoans(ctx, d.app, d.cache, d.crit); err != nil {
		d.app.IO.ErrPrintln("error:", err)
	}
}

// parseFilterArgs applies key=value filter updates on top of the current
// criteria.
func parseFilterArgs(crit loan.Criteria, args []string) (loan.Criteria, error) {
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found {
			return loan.Criteria{}, fmt.Errorf("want key=value, got %q", arg)
		}

		switch key {
		case "reader":
			if value == "" || value == "all" {
				crit.ReaderID = 0

				continue
			}

			id, err := parsePositiveInt(value)
			if err != nil {
				return loan.Criteria{}, err
			}

			crit.ReaderID = id

		case "due-by":
			if value == "" {
				crit.DueBy = time.Time{}

				continue
			}

			t, err := parseDate(value)
			if err != nil {
				return loan.Criteria{}, err
			}

			crit.DueBy = t

		case "from":
			if value == "" {
				crit.LoanedFrom = time.Time{}

				continue
			}

			t, err := parseDate(value)
			if err != nil {
				return loan.Criteria{}, err
			}

			crit.LoanedFrom = t

		case "to":
			if value == "" {
				crit.LoanedTo = time.Time{}

				continue
			}

			t, err := parseDate(value)
			if err != nil {
				return loan.Criteria{}, err
			}

			crit.LoanedTo = t

		case "status":
			status, err := loan.ParseStatusFilter(value)
			if err != nil {
				return loan.Criteria{}, err
			}

			crit.Status = status

		default:
			return loan.Criteria{}, fmt.Errorf("unknown filter: %s", key)
		}
	}

	return crit, nil
}

func parsePositiveInt(value string) (int, error) {
	var id int
	if _, err := fmt.Sscanf(value, "%d", &id); err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s", errIDRequired, value)
	}

	return id, nil
}

func (d *dashboard) listReaders(ctx context.Context) error {
	readers, err := d.app.Client.Readers(ctx)
	if err != nil {
		return err
	}

	renderHeading(d.app.IO, "Readers")
	renderReaders(d.app.IO, readers)

	return nil
}

func (d *dashboard) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			d.line.WriteHistory(f)
			f.Close()
		}
	}
}

// completer provides tab completion for shell commands and section names.
func (d *dashboard) completer(input string) []string {
	commands := []string{
		"home", "loans", "books", "authors", "genres", "catalog",
		"filter", "lend", "return",
		"author", "genre", "book", "readers",
		"whoami", "clear", "cls",
		"help", "exit", "quit", "q",
	}

	var completions []string

	lower := strings.ToLower(input)
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}

	return completions
}

func (d *dashboard) printHelp() {
	o := d.app.IO
	o.Println("Sections:")
	o.Println("  home | loans | books | authors | genres | catalog")
	o.Println("")
	o.Println("Commands:")
	o.Println("  filter key=value ...           Filter cached loans locally")
	o.Println("                                 (reader, due-by, from, to, status)")
	o.Println("  filter clear                   Reset all filters")
	o.Println("  lend --book=N --reader=N --due=YYYY-MM-DD")
	o.Println("  return <loan-id>               Finalize a loan")
	o.Println("  author ls|add|rm               Manage authors")
	o.Println("  genre ls|add|rm                Manage genres")
	o.Println("  book add|rm                    Manage books")
	o.Println("  readers                        List registered readers")
	o.Println("  whoami                         Show the stored session")
	o.Println("  help                           Show this help")
	o.Println("  exit / quit / q                Exit")
}

// linerConfirmer asks for confirmation through the line editor so prompts
// work while the shell owns the terminal.
type linerConfirmer struct {
	line *liner.State
	o    *IO
}

func (c *linerConfirmer) Confirm(req ConfirmRequest) (bool, error) {
	c.o.Println()
	c.o.Println("==", req.Title, "==")
	c.o.Println(req.Message)

	answer, err := c.line.Prompt(fmt.Sprintf("%s? Type 'yes' to proceed: ", req.Label))
	if err != nil {
		return false, nil
	}

	answer = strings.ToLower(strings.TrimSpace(answer))

	return answer == "yes" || answer == "y", nil
}
