package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"biblio/internal/api"
	"biblio/internal/loan"
	"biblio/internal/view"

	flag "github.com/spf13/pflag"
)

// fetchLoans answers a loan query from the cache, fetching only on a miss.
// The fetched result is installed under the scope it was requested for; a
// result whose scope was superseded while the fetch ran is discarded.
func fetchLoans(ctx context.Context, app *App, cache *loan.Cache, scope loan.Scope) ([]api.Loan, error) {
	if records, hit := cache.Request(scope); hit {
		return records, nil
	}

	var (
		records []api.Loan
		err     error
	)

	if scope.All() {
		records, err = app.Client.Loans(ctx)
	} else {
		records, err = app.Client.LoansByReader(ctx, scope.ReaderID)
	}

	if err != nil {
		return nil, err
	}

	cache.Install(scope, records)

	return records, nil
}

// parseLoanCriteria parses the shared loan filter flags.
func parseLoanCriteria(flagSet *flag.FlagSet, args []string) (loan.Criteria, error) {
	readerID := flagSet.Int("reader", 0, "Only loans of this reader (server-side scope)")
	dueBy := flagSet.String("due-by", "", "Only loans due on or before this date")
	from := flagSet.String("from", "", "Only loans starting on or after this date")
	to := flagSet.String("to", "", "Only loans starting on or before this date")
	status := flagSet.String("status", "all", "Only loans of one class (all|in-time|overdue|returned)")

	if err := flagSet.Parse(args); err != nil {
		return loan.Criteria{}, err
	}

	crit := loan.Criteria{ReaderID: *readerID}

	if *dueBy != "" {
		t, err := parseDate(*dueBy)
		if err != nil {
			return loan.Criteria{}, err
		}

		crit.DueBy = t
	}

	if *from != "" {
		t, err := parseDate(*from)
		if err != nil {
			return loan.Criteria{}, err
		}

		crit.LoanedFrom = t
	}

	if *to != "" {
		t, err := parseDate(*to)
		if err != nil {
			return loan.Criteria{}, err
		}

		crit.LoanedTo = t
	}

	statusFilter, err := loan.ParseStatusFilter(*status)
	if err != nil {
		return loan.Criteria{}, err
	}

	crit.Status = statusFilter

	return crit, nil
}

func cmdLoans(ctx context.Context, app *App, args []string) error {
	if hasHelpFlag(args) {
		printLoansHelp(app.IO)

		return nil
	}

	if err := app.RequireLogin(); err != nil {
		return err
	}

	flagSet := flag.NewFlagSet("loans", flag.ContinueOnError)

	crit, err := parseLoanCriteria(flagSet, args)
	if err != nil {
		return err
	}

	return showLoans(ctx, app, loan.NewCache(), crit)
}

// showLoans fetches (or reuses) the scoped records, filters them locally and
// renders the cards. Shared by the one-shot command and the dashboard shell.
func showLoans(ctx context.Context, app *App, cache *loan.Cache, crit loan.Criteria) error {
	records, err := fetchLoans(ctx, app, cache, crit.Scope())
	if err != nil {
		return err
	}

	filtered := loan.Apply(records, crit)

	resolver := view.NewResolver(app.Client)
	cards := view.BuildLoanCards(ctx, resolver, filtered)

	renderHeading(app.IO, view.SectionLoans.Title())
	renderLoanCards(app.IO, cards)

	return nil
}

func printLoansHelp(o *IO) {
	o.Println("Usage: biblio loans [options]")
	o.Println("")
	o.Println("List loans. Records are fetched once per scope and filtered locally.")
	o.Println("")
	o.Println("Options:")
	o.Println("  --reader=N           Only loans of reader N (changes the fetch scope)")
	o.Println("  --due-by=YYYY-MM-DD  Only loans due on or before the date")
	o.Println("  --from=YYYY-MM-DD    Only loans starting on or after the date")
	o.Println("  --to=YYYY-MM-DD      Only loans starting on or before the date")
	o.Println("  --status=<class>     all|in-time|overdue|returned [default: all]")
}

func cmdLend(ctx context.Context, app *App, args []string) error {
	if hasHelpFlag(args) {
		o := app.IO
		o.Println("Usage: biblio lend --book=N --reader=N --due=YYYY-MM-DD")
		o.Println("")
		o.Println("Register a new loan. The due date must be tomorrow or later;")
		o.Println("the backend enforces the rule and the stock.")

		return nil
	}

	if err := app.RequireLibrarian(); err != nil {
		return err
	}

	flagSet := flag.NewFlagSet("lend", flag.ContinueOnError)

	bookID := flagSet.Int("book", 0, "Book to lend")
	readerID := flagSet.Int("reader", 0, "Reader borrowing the book")
	due := flagSet.String("due", "", "Expected return date")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if *bookID <= 0 || *readerID <= 0 {
		return fmt.Errorf("%w: --book and --reader", errIDRequired)
	}

	if *due == "" {
		return fmt.Errorf("%w: --due", errBadDate)
	}

	dueDate, err := parseDate(*due)
	if err != nil {
		return err
	}

	req := api.CreateLoanRequest{
		BookID:      *bookID,
		ReaderID:    *readerID,
		LibrarianID: app.Session.UserID,
		DueDate:     dueDate,
	}

	created, err := app.Client.CreateLoan(ctx, req)
	if err != nil {
		return err
	}

	app.IO.Printf("Loan #%d registered, due %s.\n", created.ID, created.DueDate.Format(dateOnly))

	return nil
}

func cmdReturn(ctx context.Context, app *App, args []string) error {
	if hasHelpFlag(args) {
		o := app.IO
		o.Println("Usage: biblio return <loan-id>")
		o.Println("")
		o.Println("Finalize a loan, marking the book returned. Asks for")
		o.Println("confirmation first; finalizing cannot be undone.")

		return nil
	}

	if err := app.RequireLibrarian(); err != nil {
		return err
	}

	if len(args) == 0 {
		return errIDRequired
	}

	loanID, err := strconv.Atoi(args[0])
	if err != nil || loanID <= 0 {
		return fmt.Errorf("%w: %s", errIDRequired, args[0])
	}

	confirmed, err := app.Confirm.Confirm(ConfirmRequest{
		Title:   "Finalize loan",
		Message: fmt.Sprintf("Loan #%d will be marked returned. This cannot be undone.", loanID),
		Label:   "Finalize",
	})
	if err != nil {
		return err
	}

	if !confirmed {
		app.IO.Println("Cancelled.")

		return nil
	}

	req := api.ReturnLoanRequest{
		ReturnLibrarianID: app.Session.UserID,
		ReturnedAt:        time.Now(),
	}

	returned, err := app.Client.ReturnLoan(ctx, loanID, req)
	if err != nil {
		return err
	}

	app.IO.Printf("Loan #%d returned.\n", returned.ID)

	return nil
}
