// Package app wires the casdoorctl command tree.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// cli carries the flag-bound config into every command. The Application is
// built after flags are parsed so --log-level and friends take effect.
type cli struct {
	cfg Config
	app *Application
}

func (c *cli) application() *Application {
	if c.app == nil {
		c.app = New(c.cfg)
	}
	return c.app
}

func newRootCmd(c *cli) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "casdoorctl",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Short:             "Command-line client for a Casdoor IAM server",
		Long: `casdoorctl talks to a Casdoor server through the Go SDK. It manages users and
reads organizations, applications and certificates, checks permissions, and
signs in through the browser to keep OAuth tokens in a local encrypted store.`,
		Run: func(cmd *cobra.Command, _ []string) {
			// If no subcommand is provided, print help
			if err := cmd.Help(); err != nil {
				cmd.PrintErrf("Error displaying help: %v\n", err)
			}
		},
	}

	f := rootCmd.PersistentFlags()
	f.StringVar(&c.cfg.ConfigFile, "config", c.cfg.ConfigFile, "Casdoor config file (TOML or YAML)")
	f.StringVar(&c.cfg.Profile, "profile", c.cfg.Profile, "Token store profile")
	f.StringVar(&c.cfg.DatabaseFile, "database", c.cfg.DatabaseFile, "Token store database file")
	f.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "Log level (debug, info, warn, error)")
	f.StringVar(&c.cfg.LogFormat, "log-format", c.cfg.LogFormat, "Log format (json, text)")

	rootCmd.AddCommand(
		newUsersCmd(c),
		newOrgsCmd(c),
		newAppsCmd(c),
		newCertsCmd(c),
		newEnforceCmd(c),
		newTokenCmd(c),
		newLoginCmd(c),
		newWhoamiCmd(c),
		newURLCmd(c),
		newMfaCmd(c),
	)
	return rootCmd
}

// Execute runs the command tree with args until it finishes or the process
// is interrupted.
func Execute(cfg Config, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{cfg: cfg}
	rootCmd := newRootCmd(c)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if c.app != nil {
		_ = c.app.Close()
	}
	return err
}

// commandContext returns the command's context with the application logger.
func (c *cli) commandContext(cmd *cobra.Command) context.Context {
	return c.application().Context(cmd.Context())
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printLine(cmd *cobra.Command, s string) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), s)
	return err
}
