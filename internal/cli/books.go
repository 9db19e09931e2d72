package cli

import (
	"context"
	"fmt"
	"strconv"

	"biblio/internal/api"
	"biblio/internal/view"

	flag "github.com/spf13/pflag"
)

func cmdBook(ctx context.Context, app *App, args []string) error {
	if len(args) == 0 || hasHelpFlag(args) {
		printBookHelp(app.IO)

		return nil
	}

	switch args[0] {
	case "add":
		return bookAdd(ctx, app, args[1:])
	case "rm":
		return bookRm(ctx, app, args[1:])
	default:
		printBookHelp(app.IO)

		return fmt.Errorf("unknown book subcommand: %s", args[0])
	}
}

func printBookHelp(o *IO) {
	o.Println("Usage: biblio book <add|rm> [args]")
	o.Println("")
	o.Println("  add --title --isbn --year --copies --author [--publisher --genres]")
	o.Println("  rm <id>    Delete a book together with its returned loan records")
}

func bookAdd(ctx context.Context, app *App, args []string) error {
	if err := app.RequireLibrarian(); err != nil {
		return err
	}

	flagSet := flag.NewFlagSet("book add", flag.ContinueOnError)

	title := flagSet.String("title", "", "Book title")
	isbn := flagSet.String("isbn", "", "ISBN")
	publisher := flagSet.String("publisher", "", "Publisher")
	year := flagSet.Int("year", 0, "Publication year")
	copies := flagSet.Int("copies", 0, "Number of copies")
	authorID := flagSet.Int("author", 0, "Author id")
	genreIDs := flagSet.IntSlice("genres", nil, "Genre ids")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if *title == "" {
		return errNameRequired
	}

	if *authorID <= 0 {
		return fmt.Errorf("%w: --author", errIDRequired)
	}

	req := api.CreateBookRequest{
		Title:     *title,
		ISBN:      *isbn,
		Publisher: *publisher,
		Year:      *year,
		Copies:    *copies,
		AuthorID:  *authorID,
		GenreIDs:  *genreIDs,
	}

	created, err := app.Client.CreateBook(ctx, req)
	if err != nil {
		return err
	}

	app.IO.Printf("Book #%d created.\n", created.ID)

	return nil
}

func bookRm(ctx context.Context, app *App, args []string) error {
	if err := app.RequireLibrarian(); err != nil {
		return err
	}

	if len(args) == 0 {
		return errIDRequired
	}

	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return fmt.Errorf("%w: %s", errIDRequired, args[0])
	}

	label := view.NewResolver(app.Client).Resolve(ctx, view.KindBook, id)

	confirmed, err := app.Confirm.Confirm(ConfirmRequest{
		Title: "Delete book",
		Message: fmt.Sprintf("%s will be deleted permanently together with its loan history. "+
			"The backend refuses the deletion while any copy is still on loan.", label),
		Label: "Delete",
	})
	if err != nil {
		return err
	}

	if !confirmed {
		app.IO.Println("Cancelled.")

		return nil
	}

	if err := app.Client.DeleteBookWithLoans(ctx, id); err != nil {
		return err
	}

	app.IO.Printf("Book #%d deleted.\n", id)

	return nil
}
