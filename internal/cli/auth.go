package cli

import (
	"context"

	"biblio/internal/api"
	"biblio/internal/session"

	flag "github.com/spf13/pflag"
)

func cmdLogin(ctx context.Context, app *App, args []string) error {
	if hasHelpFlag(args) {
		app.IO.Println("Usage: biblio login <email> [--password=<pw>]")
		app.IO.Println("")
		app.IO.Println("Log in and store the session token. Without --password the")
		app.IO.Println("password is prompted for on the terminal.")

		return nil
	}

	flagSet := flag.NewFlagSet("login", flag.ContinueOnError)

	password := flagSet.String("password", "", "Password (prompted when omitted)")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	email := ""
	if flagSet.NArg() > 0 {
		email = flagSet.Arg(0)
	}

	// Both fields are checked locally before any request goes out.
	if email == "" {
		return errEmailRequired
	}

	if *password == "" {
		entered, err := app.promptLine("Password: ")
		if err != nil {
			return err
		}

		*password = entered
	}

	if *password == "" {
		return errPasswdRequired
	}

	login, err := app.Client.Login(ctx, email, *password)
	if err != nil {
		return err
	}

	sess := session.Session{
		Token:  login.Token,
		Name:   login.Name,
		UserID: login.UserID,
		Role:   login.Role,
	}

	if err := session.Save(app.SessionPath, sess); err != nil {
		return err
	}

	app.Session = sess
	app.Client.SetToken(sess.Token)

	app.IO.Printf("Logged in as %s (%s)\n", sess.DisplayName(), sess.Role)

	// Readers land on the catalog, librarians on the dashboard.
	if sess.Role == api.RoleLibrarian {
		app.IO.Println("Run 'biblio dash' to open the dashboard.")
	} else {
		app.IO.Println("Run 'biblio catalog' to browse the catalog.")
	}

	return nil
}

func cmdRegister(ctx context.Context, app *App, args []string) error {
	if hasHelpFlag(args) {
		app.IO.Println("Usage: biblio register --name=<name> --email=<email> [--role=reader|librarian]")
		app.IO.Println("")
		app.IO.Println("Create a new account. The password is prompted when --password")
		app.IO.Println("is not given.")

		return nil
	}

	flagSet := flag.NewFlagSet("register", flag.ContinueOnError)

	name := flagSet.String("name", "", "Display name")
	email := flagSet.String("email", "", "Email address")
	password := flagSet.String("password", "", "Password (prompted when omitted)")
	role := flagSet.String("role", api.RoleReader, "Account role")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if *name == "" {
		return errNameRequired
	}

	if *email == "" {
		return errEmailRequired
	}

	if *role != api.RoleReader && *role != api.RoleLibrarian {
		return errRoleInvalid
	}

	if *password == "" {
		entered, err := app.promptLine("Password: ")
		if err != nil {
			return err
		}

		*password = entered
	}

	if *password == "" {
		return errPasswdRequired
	}

	req := api.RegisterRequest{
		Name:     *name,
		Email:    *email,
		Password: *password,
		Role:     *role,
	}

	if err := app.Client.Register(ctx, req); err != nil {
		return err
	}

	app.IO.Printf("Account created for %s. Run 'biblio login %s' to log in.\n", *name, *email)

	return nil
}

func cmdLogout(app *App) error {
	if !app.Session.LoggedIn() {
		app.IO.Println("Not logged in.")

		return nil
	}

	if err := session.Clear(app.SessionPath); err != nil {
		return err
	}

	app.IO.Println("Logged out.")

	return nil
}

func cmdWhoami(app *App) error {
	if !app.Session.LoggedIn() {
		app.IO.Println("Not logged in.")

		return nil
	}

	app.IO.Printf("[%s] %s\n", app.Session.Initial(), app.Session.DisplayName())
	app.IO.Println("role:", app.Session.Role)
	app.IO.Println("user id:", app.Session.UserID)

	if app.Session.Expired() {
		app.IO.Println("token: expired")
	} else {
		app.IO.Println("token: stored")
	}

	return nil
}
