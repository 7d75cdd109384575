package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dhamidi/gqlfront/config"
	"github.com/dhamidi/gqlfront/reactive"
	"github.com/dhamidi/gqlfront/workspace"
)

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-parse GraphQL files as they change and report syntax errors",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ws := workspace.New(root)
			if err := ws.ScanAll(); err != nil {
				return fmt.Errorf("scan %s: %w", root, err)
			}
			out := cmd.OutOrStdout()
			for _, f := range ws.Files() {
				if f.ParseErr != nil {
					fmt.Fprintf(out, "%s: %v\n", f.Name, f.ParseErr)
				}
			}
			fmt.Fprintf(out, "watching %d files under %s\n", len(ws.Files()), root)

			watcher := workspace.NewWatcher(ws, a.cfg.WatcherConfig())
			err := reactive.ForEach(ctx, watcher, func(c workspace.Change) error {
				switch {
				case c.Kind == workspace.ChangeRemoved:
					fmt.Fprintf(out, "%s: removed\n", c.Path)
				case c.File.ParseErr != nil:
					fmt.Fprintf(out, "%s: %v\n", c.File.Name, c.File.ParseErr)
				default:
					fmt.Fprintf(out, "%s: ok\n", c.File.Name)
				}
				return nil
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	config.AddWatchFlags(cmd.Flags())

	return cmd
}
