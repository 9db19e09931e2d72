package cli

import (
	"context"
	"fmt"
	"strconv"

	"biblio/internal/api"
	"biblio/internal/view"

	flag "github.com/spf13/pflag"
)

func cmdAuthor(ctx context.Context, app *App, args []string) error {
	if len(args) == 0 || hasHelpFlag(args) {
		printAuthorHelp(app.IO)

		return nil
	}

	switch args[0] {
	case "ls":
		return authorLs(ctx, app)
	case "add":
		return authorAdd(ctx, app, args[1:])
	case "rm":
		return authorRm(ctx, app, args[1:])
	default:
		printAuthorHelp(app.IO)

		return fmt.Errorf("unknown author subcommand: %s", args[0])
	}
}

func printAuthorHelp(o *IO) {
	o.Println("Usage: biblio author <ls|add|rm> [args]")
	o.Println("")
	o.Println("  ls                                       List authors")
	o.Println("  add --name=<name> [--surname --birth-date --nationality]")
	o.Println("  rm <id>                                  Delete an author")
}

func authorLs(ctx context.Context, app *App) error {
	if err := app.RequireLogin(); err != nil {
		return err
	}

	authors, err := app.Client.Authors(ctx)
	if err != nil {
		return err
	}

	renderHeading(app.IO, view.SectionManageAuthors.Title())
	renderAuthors(app.IO, authors)

	return nil
}

func authorAdd(ctx context.Context, app *App, args []string) error {
	if err := app.RequireLibrarian(); err != nil {
		return err
	}

	flagSet := flag.NewFlagSet("author add", flag.ContinueOnError)

	name := flagSet.String("name", "", "Given name")
	surname := flagSet.String("surname", "", "Family name")
	birthDate := flagSet.String("birth-date", "", "Birth date (YYYY-MM-DD)")
	nationality := flagSet.String("nationality", "", "Nationality")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if *name == "" {
		return errNameRequired
	}

	req := api.CreateAuthorRequest{
		Name:        *name,
		Surname:     *surname,
		BirthDate:   *birthDate,
		Nationality: *nationality,
	}

	created, err := app.Client.CreateAuthor(ctx, req)
	if err != nil {
		return err
	}

	app.IO.Printf("Author #%d created.\n", created.ID)

	return nil
}

func authorRm(ctx context.Context, app *App, args []string) error {
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

	// Resolve the name first so the confirmation names what is being removed.
	label := view.NewResolver(app.Client).Resolve(ctx, view.KindAuthor, id)

	confirmed, err := app.Confirm.Confirm(ConfirmRequest{
		Title: "Delete author",
		Message: fmt.Sprintf("%s will be deleted permanently. "+
			"Deletion is refused while any book still references this author.", label),
		Label: "Delete",
	})
	if err != nil {
		return err
	}

	if !confirmed {
		app.IO.Println("Cancelled.")

		return nil
	}

	if err := app.Client.DeleteAuthor(ctx, id); err != nil {
		return err
	}

	app.IO.Printf("Author #%d deleted.\n", id)

	return nil
}
