package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rileyhilliard/sysview/internal/errors"
)

const (
	// ConfigFileName is the per-directory config file name.
	ConfigFileName = ".sysview.yaml"
	// GlobalConfigDir is the directory for the user's config, relative to home.
	GlobalConfigDir = ".config/sysview"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. SYSVIEW_INTERVAL=2s.
	EnvPrefix = "SYSVIEW"
)

// Flag names bound to config keys.
const (
	FlagConfig   = "config"
	FlagInterval = "interval"
	FlagTop      = "top"
	FlagNoGPU    = "no-gpu"
	FlagLogFile  = "log-file"
)

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .sysview.yaml in the current directory
// 3. ~/.config/sysview/config.yaml
//
// Returns the path to the config file, or empty string if none exists.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	if cwd, err := os.Getwd(); err == nil {
		local := filepath.Join(cwd, ConfigFileName)
		if _, err := os.Stat(local); err == nil {
			return local, nil
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// Load merges defaults, the config file found by Find(explicit), SYSVIEW_*
// environment variables and any changed flags, in increasing precedence.
// flags may be nil. The result is validated. The returned path is the config
// file that was read, or empty.
func Load(explicit string, flags *pflag.FlagSet) (*Config, string, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, "", errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check "+path+" is valid YAML")
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, "", err
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		source := "your environment"
		if path != "" {
			source = path
		}
		return nil, "", errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the values in "+source+"; durations look like 500ms or 2s")
	}
	cfg.LogFile = ExpandTilde(cfg.LogFile)

	if err := Validate(cfg); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// setDefaults registers every key so environment variables are picked up by
// Unmarshal even when no file sets them.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("interval", d.Interval.String())
	v.SetDefault("top", d.Top)
	v.SetDefault("max_disks", d.MaxDisks)
	v.SetDefault("max_interfaces", d.MaxInterfaces)
	v.SetDefault("cpu_sample", d.CPUSample.String())
	v.SetDefault("kill_timeout", d.KillTimeout.String())
	v.SetDefault("status_ttl", d.StatusTTL.String())
	v.SetDefault("escape_wait", d.EscapeWait.String())
	v.SetDefault("gpu", d.GPU)
	v.SetDefault("log_file", d.LogFile)
}

// bindFlags applies flags the user actually set.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		FlagInterval: "interval",
		FlagTop:      "top",
		FlagLogFile:  "log_file",
	}
	for flag, key := range bindings {
		f := flags.Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot bind flag --"+flag, "")
		}
	}

	if f := flags.Lookup(FlagNoGPU); f != nil && f.Changed {
		noGPU, err := flags.GetBool(FlagNoGPU)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, "Invalid --no-gpu value", "")
		}
		v.Set("gpu", !noGPU)
	}
	return nil
}

// ExpandTilde replaces ~ or ~/path with the user's home directory.
// Does not support ~username syntax.
func ExpandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
