package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backlog/internal/view"
	"backlog/internal/watcher"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWatchCmd(a *app) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Redraw the board whenever the state changes",
		Long: `Prints the board and redraws it each time another backlog process saves
the state. Stops on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			redraw := func() {
				state, err := a.tracker.ReadState(ctx)
				if err != nil {
					// A half-written or missing state is reported and retried on the next change.
					a.logger.Warn("failed to reload state", zap.Error(err))
					fmt.Fprintln(out, "Error:", userMessage(err))
					return
				}
				if err := view.RenderBoard(out, state); err != nil {
					a.logger.Warn("failed to render board", zap.Error(err))
				}
			}

			redraw()
			w := watcher.New(a.cfg.Storage.Path, redraw).
				WithDebounce(debounce).
				WithLogger(a.logger.Named("watcher"))
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("watch %s: %w", a.cfg.Storage.Path, err)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "quiet period before redrawing")
	return cmd
}
