package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/sysview/internal/config"
	"github.com/rileyhilliard/sysview/internal/errors"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the settings sysview would run with, after merging defaults, the
config file, SYSVIEW_* environment variables and flags.

The output is valid YAML and can be saved as a starting .sysview.yaml:
  sysview config > .sysview.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return writeConfig(cmd.OutOrStdout(), cfg, path)
		},
	}
}

func writeConfig(out io.Writer, cfg *config.Config, path string) error {
	source := path
	if source == "" {
		source = "defaults (no config file found)"
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Cannot encode config", "")
	}
	if _, err := fmt.Fprintf(out, "# source: %s\n%s", source, data); err != nil {
		return err
	}
	return nil
}
