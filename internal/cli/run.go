package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"biblio/internal/api"
	"biblio/internal/config"
	"biblio/internal/session"

	"github.com/rs/zerolog"
)

const (
	minArgs      = 2
	consumedOne  = 1
	consumedTwo  = 2
	consumedNone = 0
	helpFlag     = "--help"
)

var (
	// ErrFlagRequiresArg means a global flag was given without its value.
	ErrFlagRequiresArg = errors.New("flag requires an argument")

	// ErrUnknownFlag means an unrecognized global flag was given.
	ErrUnknownFlag = errors.New("unknown flag")
)

// Run is the main entry point. Returns exit code.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string) int {
	if len(args) < minArgs {
		printUsage(out)

		return 0
	}

	// Parse global flags
	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	workDir, err := os.Getwd()
	if err != nil {
		fprintln(errOut, "error: cannot get working directory:", err)

		return 1
	}

	cfg, err := config.Load(workDir, flags.configPath, flags.baseURL, env)
	if err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut)

		return 1
	}

	if len(flags.remaining) == 0 {
		printUsage(out)

		return 0
	}

	cmd := flags.remaining[0]
	cmdArgs := flags.remaining[1:]

	// Handle help flags
	if cmd == "-h" || cmd == helpFlag {
		printUsage(out)

		return 0
	}

	app := newApp(in, out, errOut, cfg, env, flags.verbose)

	ctx := context.Background()

	// Dispatch to command
	var cmdErr error

	switch cmd {
	case "login":
		cmdErr = cmdLogin(ctx, app, cmdArgs)
	case "register":
		cmdErr = cmdRegister(ctx, app, cmdArgs)
	case "logout":
		cmdErr = cmdLogout(app)
	case "whoami":
		cmdErr = cmdWhoami(app)
	case "summary":
		cmdErr = cmdSummary(ctx, app)
	case "loans":
		cmdErr = cmdLoans(ctx, app, cmdArgs)
	case "lend":
		cmdErr = cmdLend(ctx, app, cmdArgs)
	case "return":
		cmdErr = cmdReturn(ctx, app, cmdArgs)
	case "catalog":
		cmdErr = cmdCatalog(ctx, app, cmdArgs)
	case "author":
		cmdErr = cmdAuthor(ctx, app, cmdArgs)
	case "genre":
		cmdErr = cmdGenre(ctx, app, cmdArgs)
	case "book":
		cmdErr = cmdBook(ctx, app, cmdArgs)
	case "dash":
		cmdErr = cmdDash(ctx, app)
	case "print-config":
		cmdErr = cmdPrintConfig(app)
	default:
		fprintln(errOut, "error: unknown command:", cmd)
		printUsage(errOut)

		return 1
	}

	// Fatal error
	if cmdErr != nil {
		fprintln(errOut, "error:", cmdErr)

		return 1
	}

	return 0
}

// newApp wires config, session and API client into the command context.
func newApp(in io.Reader, out, errOut io.Writer, cfg config.Config, env map[string]string, verbose bool) *App {
	ioCtx := NewIO(out, errOut)

	sessionPath := cfg.SessionFile
	if sessionPath == "" {
		sessionPath = session.DefaultPath(env)
	}

	sess := session.Load(sessionPath)

	logger := zerolog.Nop()
	if verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: errOut}).With().Timestamp().Logger()
	}

	client := api.New(cfg.BaseURL,
		api.WithToken(sess.Token),
		api.WithTimeout(cfg.Timeout()),
		api.WithLogger(logger),
	)

	reader := bufio.NewReader(in)

	return &App{
		Config:      cfg,
		IO:          ioCtx,
		Input:       reader,
		Client:      client,
		Session:     sess,
		SessionPath: sessionPath,
		Confirm:     NewConfirmer(reader, ioCtx),
	}
}

type globalFlags struct {
	configPath string
	baseURL    string
	verbose    bool
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if consumed == 0 {
			// Not a flag, this is the command
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// parseFlag tries to parse a flag at args[idx]. Returns number of args consumed (0 if not a flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	// -c/--config flag
	if arg == "-c" || arg == "--config" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", ErrFlagRequiresArg, arg)
		}

		flags.configPath = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--config="); ok {
		flags.configPath = after

		return consumedOne, nil
	}

	// --base-url flag
	if arg == "--base-url" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", ErrFlagRequiresArg, arg)
		}

		flags.baseURL = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--base-url="); ok {
		flags.baseURL = after

		return consumedOne, nil
	}

	// -v/--verbose flag
	if arg == "-v" || arg == "--verbose" {
		flags.verbose = true

		return consumedOne, nil
	}

	// -h/--help flags
	if arg == "-h" || arg == helpFlag {
		flags.remaining = []string{helpFlag}

		return len(args) - idx, nil
	}

	// Unknown flag
	if strings.HasPrefix(arg, "-") && arg != "-" {
		return consumedNone, fmt.Errorf("%w: %s", ErrUnknownFlag, arg)
	}

	// Not a flag
	return consumedNone, nil
}

func cmdPrintConfig(app *App) error {
	app.IO.Println("base_url:", app.Config.BaseURL)
	app.IO.Println("timeout_seconds:", app.Config.TimeoutSeconds)
	app.IO.Println("session_file:", app.SessionPath)

	// Print sources
	app.IO.Println("")
	app.IO.Println("# Sources:")

	if app.Config.Sources.Global != "" {
		app.IO.Println("#   global:", app.Config.Sources.Global)
	}

	if app.Config.Sources.Project != "" {
		app.IO.Println("#   project:", app.Config.Sources.Project)
	}

	if app.Config.Sources.Global == "" && app.Config.Sources.Project == "" {
		app.IO.Println("#   (using defaults only)")
	}

	return nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func hasHelpFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == helpFlag {
			return true
		}
	}

	return false
}

func printUsage(writer io.Writer) {
	fprintln(writer, `biblio - library dashboard client

Usage: biblio [options] <command> [args]

Options:
  -c, --config <file>    Use specified config file
      --base-url <url>   Override the API base URL
  -v, --verbose          Log HTTP requests to stderr

Commands:
  login <email>                     Log in and store the session
  register                          Create a new account
  logout                            Discard the stored session
  whoami                            Show the stored session
  summary                           Show the dashboard headline numbers
  loans [filters]                   List loans (cached per scope)
  lend --book --reader --due        Register a new loan
  return <loan-id>                  Finalize a loan
  catalog [--in-stock] [--genre]    Browse the book catalog
  author add|rm                     Manage authors
  genre add|rm                      Manage genres
  book add|rm                       Manage books
  dash                              Interactive dashboard shell
  print-config                      Show resolved configuration`)
}
