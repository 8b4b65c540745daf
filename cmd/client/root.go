package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/carrental-client/internal/client/cli"
	"github.com/dmitrijs2005/carrental-client/internal/client/config"
	"github.com/dmitrijs2005/carrental-client/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "carrental",
	Short: "Car rental client",
	Long: `Command-line client for the car rental service.

Without a subcommand it starts the interactive shell. The session is kept in
local storage between runs and revalidated against the user service at start.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			return app.Run(ctx)
		})
	},
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, validateCmd, registerCmd, currencyCmd, carsCmd, bookingsCmd)
}

// withApp loads configuration, builds the App, boots the session and hands
// the App to fn. Storage is closed afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *cli.App) error) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	log := logging.New(os.Stderr, cfg.LogLevel)

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error(ctx, "error closing storage", "error", err)
		}
	}()

	return fn(ctx, app)
}
