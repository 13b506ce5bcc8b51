package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/eventsphere/internal/adapters/http/api"
	"github.com/okian/eventsphere/internal/adapters/http/swagger"
	"github.com/okian/eventsphere/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local status server",
		Long: `Run the local status server.

The server exposes the discovery feed, RSVP and ticket scanning, pending
notices and Prometheus metrics over HTTP until interrupted. The routes are
described at /openapi.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(ctx context.Context, c *command) error {
				if addr == "" {
					addr = c.svc.Config().Addr
				}
				return serve(ctx, c, addr)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func serve(ctx context.Context, c *command, addr string) error {
	log := logger.Named("server")

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(c.svc.Discovery(), c.svc, c.svc).Register(mux)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: %w", api.ErrServe, err)
	}
	srv := &http.Server{
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Prime the feed so the first GET /feed has results.
	go func() {
		if err := c.svc.Discovery().Load(ctx); err != nil {
			log.Warn(ctx, "initial feed load failed", logger.Error(err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	c.out.VerboseLog("listening on http://%s", ln.Addr())

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("%w: %w", api.ErrServe, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info(ctx, "shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return fmt.Errorf("%w: %w", api.ErrServe, err)
	}
	log.Info(ctx, "server stopped")
	return nil
}
