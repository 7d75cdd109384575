package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/gqlfront/config"
	"github.com/dhamidi/gqlfront/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP parse server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(a.cfg.ServerConfig())
			defer srv.Close()

			httpServer := &http.Server{
				Addr:              srv.Addr(),
				Handler:           srv,
				ReadHeaderTimeout: 10 * time.Second,
			}

			displayAddr := srv.Addr()
			if strings.HasPrefix(displayAddr, ":") {
				displayAddr = "localhost" + displayAddr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Starting server at http://%s\n", displayAddr)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("listen: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return httpServer.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}

	config.AddServerFlags(cmd.Flags())

	return cmd
}
