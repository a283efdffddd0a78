package config

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/sysview/internal/errors"
)

// Limits enforced by Validate.
const (
	MinInterval = 250 * time.Millisecond
	MaxTop      = 50
)

// Validate checks the config for values the dashboard cannot run with and
// returns a structured error naming the offending key.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig, "No config loaded", "")
	}

	if cfg.Interval < MinInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("interval %s is too short", cfg.Interval),
			fmt.Sprintf("Use at least %s so the CPU sample and render fit in a tick", MinInterval))
	}

	if cfg.CPUSample <= 0 || cfg.CPUSample >= cfg.Interval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("cpu_sample %s must be positive and shorter than interval %s", cfg.CPUSample, cfg.Interval),
			"The CPU sample blocks the tick; try 100ms")
	}

	if cfg.Top < 1 || cfg.Top > MaxTop {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("top must be between 1 and %d, got %d", MaxTop, cfg.Top),
			"Set top to the number of processes you want listed")
	}

	if cfg.MaxDisks < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("max_disks must be at least 1, got %d", cfg.MaxDisks), "")
	}

	if cfg.MaxInterfaces < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("max_interfaces must be at least 1, got %d", cfg.MaxInterfaces), "")
	}

	for _, d := range []struct {
		key   string
		value time.Duration
	}{
		{"kill_timeout", cfg.KillTimeout},
		{"status_ttl", cfg.StatusTTL},
		{"escape_wait", cfg.EscapeWait},
	} {
		if d.value <= 0 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("%s must be positive, got %s", d.key, d.value), "")
		}
	}

	if cfg.EscapeWait >= cfg.Interval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("escape_wait %s must be shorter than interval %s", cfg.EscapeWait, cfg.Interval),
			"Keep escape_wait in the tens of milliseconds")
	}

	return nil
}
