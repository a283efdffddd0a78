package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/sysview/internal/config"
	"github.com/rileyhilliard/sysview/internal/logger"
)

// rootOptions holds the persistent flags. Values flow into config.Load, which
// only applies the ones the user changed.
type rootOptions struct {
	configPath string
}

// NewRootCmd builds the sysview command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "sysview",
		Short: "Live system dashboard for the terminal",
		Long: `sysview shows CPU, memory, GPU, network, disk and process usage for the
local machine, refreshed every interval.

Keys:
  k       select a process, then k again to kill it
  ↑/↓     move the selection
  y / n   confirm or cancel a kill
  esc     back out of selection or confirmation
  ctrl+c  quit

Settings are read from .sysview.yaml, ~/.config/sysview/config.yaml and
SYSVIEW_* environment variables. Flags win over all of them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dashboardCommand(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, config.FlagConfig, "", "config file (default .sysview.yaml or ~/.config/sysview/config.yaml)")
	pf.Duration(config.FlagInterval, config.DefaultInterval, "refresh interval (e.g. 500ms, 2s)")
	pf.Int(config.FlagTop, config.DefaultTop, "number of processes to list")
	pf.Bool(config.FlagNoGPU, false, "skip the nvidia-smi GPU probe")
	pf.String(config.FlagLogFile, "", "write diagnostic logs to this file")

	cmd.AddCommand(
		newSnapshotCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
		newCompletionCmd(cmd),
	)
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves settings for cmd from the config file, environment and
// changed flags.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, string, error) {
	return config.Load(opts.configPath, cmd.Flags())
}

// openLogger returns a file logger when log_file is set. Anything written to
// the terminal would tear the dashboard, so there is no stderr fallback.
func openLogger(cfg *config.Config) (logger.Logger, func() error, error) {
	if cfg.LogFile == "" {
		return logger.Noop(), func() error { return nil }, nil
	}
	return logger.NewFileLogger(cfg.LogFile, "sysview")
}
