package cli

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/iudanet/sidenotes/internal/client/iocli"
)

// Environment variables with flag defaults
const (
	EnvServer = "SIDENOTES_SERVER"
	EnvToken  = "SIDENOTES_TOKEN"
	EnvOrigin = "SIDENOTES_ORIGIN"
)

// Settings are the connection flags shared by every command.
type Settings struct {
	Server  string
	Token   string
	Origin  string
	Timeout time.Duration
	Verbose bool
}

// Connector opens a loaded session. The returned func closes it.
type Connector func(ctx context.Context, settings Settings) (Session, func(), error)

// NewRootCommand builds the sidenotes command tree.
func NewRootCommand(io iocli.IO, connect Connector, version string) *cobra.Command {
	settings := &Settings{}

	root := &cobra.Command{
		Use:           "sidenotes",
		Short:         "Terminal client for the sidenotes relay",
		Long:          "sidenotes edits the notes shown in the browser sidebar through the local relay daemon.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(io)
	root.SetErr(io)

	flags := root.PersistentFlags()
	flags.StringVar(&settings.Server, "server", envOrDefault(EnvServer, "http://localhost:8080"), "relay daemon URL")
	flags.StringVar(&settings.Token, "token", strings.TrimSpace(os.Getenv(EnvToken)), "endpoint token issued by the daemon")
	flags.StringVar(&settings.Origin, "origin", envOrDefault(EnvOrigin, "cli-"+uuid.NewString()[:8]), "endpoint id of this client")
	flags.DurationVar(&settings.Timeout, "timeout", DefaultTimeout, "wait for relay replies")
	flags.BoolVarP(&settings.Verbose, "verbose", "v", false, "log connection details to stderr")

	// run открывает сессию и выполняет команду
	run := func(fn func(ctx context.Context, c *Cli, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			session, closeSession, err := connect(ctx, *settings)
			if err != nil {
				return err
			}
			defer closeSession()

			return fn(ctx, New(io, session, settings.Timeout), args)
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List notes, newest first",
			Args:    cobra.NoArgs,
			RunE: run(func(ctx context.Context, c *Cli, _ []string) error {
				return c.RunList(ctx)
			}),
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Print a note as plain text",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(ctx context.Context, c *Cli, args []string) error {
				return c.RunShow(ctx, args[0])
			}),
		},
		&cobra.Command{
			Use:   "add [content]",
			Short: "Create a note (prompts when content is omitted)",
			Args:  cobra.MaximumNArgs(1),
			RunE: run(func(ctx context.Context, c *Cli, args []string) error {
				return c.RunAdd(ctx, firstArg(args))
			}),
		},
		&cobra.Command{
			Use:   "edit <id> [content]",
			Short: "Replace the content of a note",
			Args:  cobra.RangeArgs(1, 2),
			RunE: run(func(ctx context.Context, c *Cli, args []string) error {
				return c.RunEdit(ctx, args[0], firstArg(args[1:]))
			}),
		},
		&cobra.Command{
			Use:     "rm <id>",
			Aliases: []string{"delete"},
			Short:   "Delete a note",
			Args:    cobra.ExactArgs(1),
			RunE: run(func(ctx context.Context, c *Cli, args []string) error {
				return c.RunDelete(ctx, args[0])
			}),
		},
		&cobra.Command{
			Use:   "usage",
			Short: "Show storage quota usage",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, c *Cli, _ []string) error {
				return c.RunUsage(ctx)
			}),
		},
		&cobra.Command{
			Use:   "watch",
			Short: "Print relay events as they happen",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, c *Cli, _ []string) error {
				return c.RunWatch(ctx)
			}),
		},
	)

	return root
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func envOrDefault(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}
