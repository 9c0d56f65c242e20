// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ssssjaj14-ux/shakeel/internal/config"
	"github.com/ssssjaj14-ux/shakeel/internal/offline"
	"github.com/ssssjaj14-ux/shakeel/internal/server"
)

// ShutdownTimeout bounds how long in-flight requests may finish.
const ShutdownTimeout = 10 * time.Second

// newServeCmd creates `pandanexus serve`.
func newServeCmd(g *globalOptions) *cobra.Command {
	var (
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API until interrupted.

Endpoints:
  POST /api/chat        send a conversation, get a reply
  POST /api/spellcheck  correct a piece of text
  GET  /api/services    list services and their models
  GET  /health          liveness and offline status
  GET  /stats           request counters

Examples:
  pandanexus serve
  pandanexus serve --addr 0.0.0.0:9000 --watch`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.load(cmd, false)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("watch") {
				a.cfg.Server.WatchConfig = watch
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, a)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the config file when it changes")
	return cmd
}

// runServer serves until ctx is done, then shuts down gracefully.
func runServer(ctx context.Context, a *app) error {
	srv := server.New(server.OptionsFromConfig(a.cfg.Server), a.svc, defaultCategory(a.cfg), a.logger)

	if a.cfg.Server.WatchConfig {
		w := config.NewWatcher(a.path, func(cfg *config.Config) {
			offline.SetOfflineMode(cfg.Routing.OfflineMode)
			srv.SetService(NewService(cfg, a.logger), defaultCategory(cfg))
			a.logger.Info("configuration reloaded",
				"offline", cfg.Routing.OfflineMode,
				"default_service", cfg.Routing.DefaultCategory,
			)
		}, a.logger)
		go func() {
			if err := w.Run(ctx); err != nil {
				a.logger.Warn("config watcher stopped", "error", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return &NetworkError{Op: "listen on " + a.cfg.Server.Addr, Err: err}
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
