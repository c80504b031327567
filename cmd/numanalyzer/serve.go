package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/JonMunkholm/numanalyzer/internal/config"
	"github.com/JonMunkholm/numanalyzer/internal/web"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(g *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analyzer over HTTP",
		Long: `Serve an upload form, a JSON API and CSV exports.

Routes:
  GET  /                      upload form
  POST /report                HTML report for a form upload
  POST /api/analyze           JSON summary
  POST /api/analyze/valid.csv report_long.csv
  POST /api/analyze/invalid.csv invalid_rows.csv
  GET  /healthz               liveness
  GET  /metrics               Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var overrides []config.Override
			if addr != "" {
				o, err := addrOverride(addr)
				if err != nil {
					return err
				}
				overrides = append(overrides, o)
			}

			cfg, err := loadConfig(g, os.Stdout, overrides...)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address host:port (default: $SERVER_HOST:$SERVER_PORT)")
	return cmd
}

// addrOverride turns --addr into a config override.
func addrOverride(addr string) (config.Override, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("config validation: invalid --addr %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("config validation: invalid port in --addr %q", addr)
	}
	return func(c *config.Config) {
		c.Server.Host = host
		c.Server.Port = port
	}, nil
}

// runServe serves until SIGINT or SIGTERM, then shuts down within the
// configured timeout.
func runServe(ctx context.Context, cfg *config.Config) error {
	settings, err := cfg.Analysis.Settings()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := web.NewServer(cfg.Server, settings)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
