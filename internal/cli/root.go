// Package cli is the eventsphere command line. Every command builds the
// client components from configuration, runs one flow and prints the result
// as text, JSON or YAML.
package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	service "github.com/okian/eventsphere/internal/app"
	"github.com/okian/eventsphere/internal/config"
	"github.com/okian/eventsphere/pkg/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json" | "yaml"

	// build creates the started service for a command.
	build func(ctx context.Context, opts *RootOptions) (*service.Service, error)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the eventsphere CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(buildService)
}

func newRootCommand(build func(context.Context, *RootOptions) (*service.Service, error)) *cobra.Command {
	opts := &RootOptions{build: build}

	cmd := &cobra.Command{
		Use:           "eventsphere",
		Short:         "EventSphere - discover and run local events",
		Long:          "Browse nearby events, RSVP, check attendees in and follow your communities from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")

	cmd.AddCommand(NewDiscoverCommand(opts))
	cmd.AddCommand(NewEventCommand(opts))
	cmd.AddCommand(NewRSVPCommand(opts))
	cmd.AddCommand(NewAttendeesCommand(opts))
	cmd.AddCommand(NewCheckInCommand(opts))
	cmd.AddCommand(NewScanCommand(opts))
	cmd.AddCommand(NewCommunitiesCommand(opts))
	cmd.AddCommand(NewCommentsCommand(opts))
	cmd.AddCommand(NewNotificationsCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		var exitErr *ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}
	return GetExitCode(err)
}

// buildService loads configuration and starts the client.
func buildService(ctx context.Context, opts *RootOptions) (*service.Service, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}

	level := cfg.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	if err := logger.SetLevelString(level); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := service.New(cfg, service.WithLogger(logger.Get()))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "build client", err)
	}
	if err := svc.Start(ctx); err != nil {
		return nil, WrapExitError(ExitFailure, "start client", err)
	}
	return svc, nil
}

// command carries what every RunE needs.
type command struct {
	cmd *cobra.Command
	svc *service.Service
	out *OutputFormatter
}

// run builds the service, hands it to fn and maps the outcome onto an exit
// code. Failures are reported through the formatter.
func run(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, c *command) error) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, err := opts.build(ctx, opts)
	if err != nil {
		return report(out, err)
	}
	defer svc.Stop()

	if err := fn(ctx, &command{cmd: cmd, svc: svc, out: out}); err != nil {
		return report(out, err)
	}
	return nil
}
