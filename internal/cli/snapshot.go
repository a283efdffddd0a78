package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/sysview/internal/dashboard"
	"github.com/rileyhilliard/sysview/internal/interact"
	"github.com/rileyhilliard/sysview/internal/logger"
	"github.com/rileyhilliard/sysview/internal/metrics"
	"github.com/rileyhilliard/sysview/internal/render"
)

func newSnapshotCmd(opts *rootOptions) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print one dashboard frame and exit",
		Long: `Collect metrics once and print a single dashboard frame to stdout.

No raw mode or alternate screen is used, so the output can be piped or saved.
Rates such as network throughput need two samples, so snapshot waits one
interval before the frame it prints.

Examples:
  sysview snapshot
  sysview snapshot --width 100 > frame.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			w, h := snapshotSize(width)
			// Collection failures go to stderr so they stay out of the frame.
			log := logger.NewEnvLogger("sysview")
			return snapshotCommand(cmd.Context(), cmd.OutOrStdout(), newCollector(cfg, log), cfg.Interval, w, h)
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "frame width (default: terminal width, or 120)")
	return cmd
}

// snapshotSize picks the frame size from the flag, then the terminal, then
// the renderer defaults.
func snapshotSize(width int) (int, int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		w, h = render.DefaultWidth, render.DefaultHeight
	}
	if width > 0 {
		w = width
	}
	return w, h
}

// snapshotCommand primes the collector, waits warmup, then renders the second
// snapshot to out.
func snapshotCommand(ctx context.Context, out io.Writer, c dashboard.Collector, warmup time.Duration, width, height int) error {
	snap := takeSnapshot(ctx, c, warmup)
	if err := ctx.Err(); err != nil {
		return err
	}
	frame := render.NewRenderer(width, height).Render(snap, interact.View{Mode: interact.ModeNormal})
	_, err := fmt.Fprintln(out, frame)
	return err
}

func takeSnapshot(ctx context.Context, c dashboard.Collector, warmup time.Duration) metrics.Snapshot {
	c.Collect(ctx)
	if warmup > 0 {
		timer := time.NewTimer(warmup)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
	}
	return c.Collect(ctx)
}
