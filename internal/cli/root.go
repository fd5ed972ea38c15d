// Package cli provides the postmark-transport commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukerupert/postmark-transport/internal"
	"github.com/dukerupert/postmark-transport/internal/transport"
)

// ConfigLoader returns the configuration commands run with.
type ConfigLoader func() (*internal.Config, error)

// NewRootCommand builds the command tree with configuration read from the
// environment.
func NewRootCommand() *cobra.Command {
	return newRootCommand(internal.NewConfig)
}

func newRootCommand(load ConfigLoader) *cobra.Command {
	root := &cobra.Command{
		Use:   "postmark-transport",
		Short: "Send nodemailer-style mail through Postmark",
		Long: `postmark-transport turns nodemailer-style mail descriptions into
Postmark API calls and reports which recipients were accepted.

Example:
  postmark-transport send --file mail.json
  postmark-transport batch --file mails.json
  postmark-transport serve`,
		SilenceUsage: true,
	}

	root.AddCommand(newSendCommand(load))
	root.AddCommand(newBatchCommand(load))
	root.AddCommand(newServeCommand(load))
	root.AddCommand(newVersionCommand())

	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the transport version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", "postmark-transport", transport.Version)
			return err
		},
	}
}

// setup loads configuration and wires the app. Logs go to stderr so
// stdout carries only command output.
func setup(cmd *cobra.Command, load ConfigLoader) (*app, error) {
	cfg, err := load()
	if err != nil {
		return nil, fmt.Errorf("config initialization failed: %w", err)
	}
	return newApp(cfg, cmd.ErrOrStderr())
}
