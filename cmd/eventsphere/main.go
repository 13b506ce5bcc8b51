package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/eventsphere/internal/cli"
	"github.com/okian/eventsphere/pkg/logger"
)

func main() {
	// Logs go to stderr so JSON/YAML output on stdout stays parseable.
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(cli.ExitCommandError)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:])
	stop()

	if err := logger.Sync(); err != nil {
		os.Stderr.WriteString("failed to flush logs: " + err.Error() + "\n")
	}
	os.Exit(code)
}
