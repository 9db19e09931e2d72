package cli

import (
	"context"
	"fmt"
	"strconv"

	"biblio/internal/api"
	"biblio/internal/view"

	flag "github.com/spf13/pflag"
)

func cmdGenre(ctx context.Context, app *App, args []string) error {
	if len(args) == 0 || hasHelpFlag(args) {
		printGenreHelp(app.IO)

		return nil
	}

	switch args[0] {
	case "ls":
		return genreLs(ctx, app)
	case "add":
		return genreAdd(ctx, app, args[1:])
	case "rm":
		return genreRm(ctx, app, args[1:])
	default:
		printGenreHelp(app.IO)

		return fmt.Errorf("unknown genre subcommand: %s", args[0])
	}
}

func printGenreHelp(o *IO) {
	o.Println("Usage: biblio genre <ls|add|rm> [args]")
	o.Println("")
	o.Println("  ls                  List genres")
	o.Println("  add --name=<name>   Create a genre")
	o.Println("  rm <id>             Delete a genre")
}

func genreLs(ctx context.Context, app *App) error {
	if err := app.RequireLogin(); err != nil {
		return err
	}

	genres, err := app.Client.Genres(ctx)
	if err != nil {
		return err
	}

	renderHeading(app.IO, view.SectionManageGenres.Title())
	renderGenres(app.IO, genres)

	return nil
}

func genreAdd(ctx context.Context, app *App, args []string) error {
	if err := app.RequireLibrarian(); err != nil {
		return err
	}

	flagSet := flag.NewFlagSet("genre add", flag.ContinueOnError)

	name := flagSet.String("name", "", "Genre name")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if *name == "" {
		return errNameRequired
	}

	created, err := app.Client.CreateGenre(ctx, api.CreateGenreRequest{Name: *name})
	if err != nil {
		return err
	}

	app.IO.Printf("Genre #%d created.\n", created.ID)

	return nil
}

func genreRm(ctx context.Context, app *App, args []string) error {
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

	// The consequence echo lists how many books still carry the genre, the
	// same check the backend performs before refusing the deletion.
	books, err := app.Client.BooksByGenre(ctx, id)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Genre #%d will be deleted permanently.", id)
	if len(books) > 0 {
		message = fmt.Sprintf("Genre #%d is still referenced by %d book(s); the backend will refuse the deletion.", id, len(books))
	}

	confirmed, err := app.Confirm.Confirm(ConfirmRequest{
		Title:   "Delete genre",
		Message: message,
		Label:   "Delete",
	})
	if err != nil {
		return err
	}

	if !confirmed {
		app.IO.Println("Cancelled.")

		return nil
	}

	if err := app.Client.DeleteGenre(ctx, id); err != nil {
		return err
	}

	app.IO.Printf("Genre #%d deleted.\n", id)

	return nil
}
