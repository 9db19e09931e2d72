package cli

import (
	"context"

	"biblio/internal/api"
	"biblio/internal/view"

	flag "github.com/spf13/pflag"
)

func cmdCatalog(ctx context.Context, app *App, args []string) error {
	if hasHelpFlag(args) {
		o := app.IO
		o.Println("Usage: biblio catalog [--in-stock] [--genre=N]")
		o.Println("")
		o.Println("Browse the book catalog with resolved author names.")
		o.Println("")
		o.Println("Options:")
		o.Println("  --in-stock    Only books with at least one copy available")
		o.Println("  --genre=N     Only books tagged with genre N")

		return nil
	}

	if err := app.RequireLogin(); err != nil {
		return err
	}

	flagSet := flag.NewFlagSet("catalog", flag.ContinueOnError)

	inStock := flagSet.Bool("in-stock", false, "Only books with copies available")
	genreID := flagSet.Int("genre", 0, "Only books of this genre")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	var (
		books []api.Book
		err   error
	)

	switch {
	case *genreID > 0:
		books, err = app.Client.BooksByGenre(ctx, *genreID)
	case *inStock:
		books, err = app.Client.BooksInStock(ctx)
	default:
		books, err = app.Client.Books(ctx)
	}

	if err != nil {
		return err
	}

	resolver := view.NewResolver(app.Client)
	cards := view.BuildBookCards(ctx, resolver, books)

	renderHeading(app.IO, view.SectionCatalog.Title())
	renderBookCards(app.IO, cards)

	return nil
}
