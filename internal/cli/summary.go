package cli

import (
	"context"
	"time"

	"biblio/internal/view"
)

// cmdSummary renders the home panel. The three queries behind it are
// independent and a failure of any one fails the whole panel; partial
// numbers would be worse than no numbers.
func cmdSummary(ctx context.Context, app *App) error {
	if err := app.RequireLogin(); err != nil {
		return err
	}

	books, err := app.Client.Books(ctx)
	if err != nil {
		return err
	}

	readers, err := app.Client.Readers(ctx)
	if err != nil {
		return err
	}

	loans, err := app.Client.Loans(ctx)
	if err != nil {
		return err
	}

	summary := view.BuildSummary(books, readers, loans, time.Now())

	renderHeading(app.IO, view.SectionHome.Title())
	app.IO.Printf("Welcome back, %s.\n\n", app.Session.DisplayName())
	renderSummary(app.IO, summary)

	return nil
}
