package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/components/contactform"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Minute
)

func newServeCmd(a *app) *cobra.Command {
	var addr, basePath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the contact form over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			if basePath != "" {
				a.cfg.Server.BasePath = basePath
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server, err := a.newServer(ctx)
			if err != nil {
				return err
			}
			return a.run(ctx, server)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().StringVar(&basePath, "base-path", "", "Mount path (overrides server.basePath)")
	return cmd
}

// newServer builds the HTTP server and sweeps idle sessions until ctx is done.
func (a *app) newServer(ctx context.Context) (*http.Server, error) {
	ttl, err := a.cfg.Server.TTL()
	if err != nil {
		return nil, err
	}

	component, err := contactform.New(
		contactform.WithBasePath(a.cfg.Server.BasePath),
		contactform.WithSessionTTL(ttl),
		contactform.WithRateLimit(a.cfg.Server.RateLimit.PerSecond, a.cfg.Server.RateLimit.Burst),
		contactform.WithMountRateLimit(a.cfg.Server.MountRateLimit.PerSecond, a.cfg.Server.MountRateLimit.Burst),
		contactform.WithTheme(a.cfg.Theme.RendererConfig()),
		contactform.WithLogger(a.logger.Named("http")),
	)
	if err != nil {
		return nil, err
	}
	go component.Run(ctx, sweepInterval)

	return &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           newRouter(component, a.logger, a.cfg.Server.TrustProxy),
		ReadHeaderTimeout: 5 * time.Second,
	}, nil
}

func (a *app) run(ctx context.Context, server *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", zap.String("addr", server.Addr), zap.String("basePath", a.cfg.Server.BasePath))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
