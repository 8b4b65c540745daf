package main

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/carrental-client/internal/client/cli"
	"github.com/spf13/cobra"
)

type appFunc func(ctx context.Context, app *cli.App, args []string) error

// oneShot boots the session, then runs a single App command. Errors are
// reported with the same wording the interactive shell uses.
func oneShot(run appFunc) func(*cobra.Command, []string) error {
	return runApp(true, run)
}

// unbooted is oneShot for commands that validate the session themselves.
func unbooted(run appFunc) func(*cobra.Command, []string) error {
	return runApp(false, run)
}

func runApp(boot bool, run appFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			if boot {
				app.Start(ctx)
			}
			if err := run(ctx, app, args); err != nil {
				return errors.New(cli.UserMessage(err))
			}
			return nil
		})
	}
}

func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Log in and store the session",
	Args:  cobra.MaximumNArgs(1),
	RunE: oneShot(func(ctx context.Context, app *cli.App, args []string) error {
		return app.Login(ctx, argOrEmpty(args))
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE: oneShot(func(ctx context.Context, app *cli.App, _ []string) error {
		return app.Logout(ctx)
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current user",
	Args:  cobra.NoArgs,
	RunE: oneShot(func(ctx context.Context, app *cli.App, _ []string) error {
		return app.WhoAmI(ctx)
	}),
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the stored session with the user service",
	Args:  cobra.NoArgs,
	RunE: unbooted(func(ctx context.Context, app *cli.App, _ []string) error {
		return app.Validate(ctx)
	}),
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Args:  cobra.NoArgs,
	RunE: oneShot(func(ctx context.Context, app *cli.App, _ []string) error {
		return app.Register(ctx)
	}),
}

var currencyCmd = &cobra.Command{
	Use:   "currency [code]",
	Short: "Show or change the display currency",
	Args:  cobra.MaximumNArgs(1),
	RunE: oneShot(func(ctx context.Context, app *cli.App, args []string) error {
		return app.Currency(ctx, argOrEmpty(args))
	}),
}

var carsCmd = &cobra.Command{
	Use:   "cars FROM TO",
	Short: "List cars available between two dates (YYYY-MM-DD)",
	Args:  cobra.ExactArgs(2),
	RunE: oneShot(func(ctx context.Context, app *cli.App, args []string) error {
		return app.Cars(ctx, args[0], args[1])
	}),
}

var bookingsCmd = &cobra.Command{
	Use:   "bookings",
	Short: "List your bookings",
	Args:  cobra.NoArgs,
	RunE: oneShot(func(ctx context.Context, app *cli.App, _ []string) error {
		return app.Bookings(ctx)
	}),
}
