package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context, username string) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Validate(ctx context.Context) error
	Currency(ctx context.Context, code string) error
	Cars(ctx context.Context, from, to string) error
	Bookings(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop.
//
// It reads a line from the provided reader, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on EOF, when ctx ends, or when the
// user types "exit" or "quit".
// Command handlers prompt on the same reader, so nothing is lost to
// read-ahead buffering.
//
// Commands
//
//	help              show available commands
//	register          create an account
//	login [username]  authenticate
//	whoami            show the cached profile
//	validate          re-check the session with the server
//	currency [code]   show or change the display currency
//	cars FROM TO      list cars available between two dates
//	bookings          list your bookings
//	logout            end the session
//	exit | quit       leave the program
//
// Handler errors are printed as a single user-facing line; the handlers
// and services log the details.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("carrental %s> ", statusFn()))
		line, readErr := reader.ReadString('\n')
		if readErr != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, validate, cars FROM TO, bookings, currency [code], logout, exit")
			} else {
				printlnFn("Available commands: register, login [username], cars FROM TO, currency [code], exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx, firstArg(args))

		case "logout":
			err = a.Logout(ctx)

		case "whoami":
			err = a.WhoAmI(ctx)

		case "validate":
			err = a.Validate(ctx)

		case "currency":
			err = a.Currency(ctx, firstArg(args))

		case "cars":
			if len(args) != 2 {
				printlnFn("Usage: cars FROM TO (dates as YYYY-MM-DD)")
				continue
			}
			err = a.Cars(ctx, args[0], args[1])

		case "bookings":
			err = a.Bookings(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn(UserMessage(err))
		}
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// Root runs the REPL on the App's input until the user exits.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Car rental client (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}
