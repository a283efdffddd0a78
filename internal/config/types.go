package config

import "time"

// Config holds the dashboard settings after defaults, config file,
// environment and flags have been merged.
type Config struct {
	// Interval is the refresh period.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// Top is how many processes the table shows.
	Top int `yaml:"top" mapstructure:"top"`

	// MaxDisks caps the partitions listed in the disk panel.
	MaxDisks int `yaml:"max_disks" mapstructure:"max_disks"`

	// MaxInterfaces caps the active interface names shown.
	MaxInterfaces int `yaml:"max_interfaces" mapstructure:"max_interfaces"`

	// CPUSample is the blocking window used to measure per-core CPU usage.
	CPUSample time.Duration `yaml:"cpu_sample" mapstructure:"cpu_sample"`

	// KillTimeout is how long a process gets to exit after SIGTERM before
	// it is sent SIGKILL.
	KillTimeout time.Duration `yaml:"kill_timeout" mapstructure:"kill_timeout"`

	// StatusTTL is how long footer status messages stay visible.
	StatusTTL time.Duration `yaml:"status_ttl" mapstructure:"status_ttl"`

	// EscapeWait bounds the follow-up read that tells Escape from an arrow key.
	EscapeWait time.Duration `yaml:"escape_wait" mapstructure:"escape_wait"`

	// GPU enables the nvidia-smi probe.
	GPU bool `yaml:"gpu" mapstructure:"gpu"`

	// LogFile receives diagnostic logs. Empty disables logging, since the
	// dashboard owns the terminal.
	LogFile string `yaml:"log_file" mapstructure:"log_file"`
}

// Default values.
const (
	DefaultInterval      = time.Second
	DefaultTop           = 10
	DefaultMaxDisks      = 5
	DefaultMaxInterfaces = 3
	DefaultCPUSample     = 100 * time.Millisecond
	DefaultKillTimeout   = 2 * time.Second
	DefaultStatusTTL     = 3 * time.Second
	DefaultEscapeWait    = 25 * time.Millisecond
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Interval:      DefaultInterval,
		Top:           DefaultTop,
		MaxDisks:      DefaultMaxDisks,
		MaxInterfaces: DefaultMaxInterfaces,
		CPUSample:     DefaultCPUSample,
		KillTimeout:   DefaultKillTimeout,
		StatusTTL:     DefaultStatusTTL,
		EscapeWait:    DefaultEscapeWait,
		GPU:           true,
	}
}

// MarshalYAML renders durations as strings ("1s") instead of nanoseconds.
func (c Config) MarshalYAML() (interface{}, error) {
	return struct {
		Interval      string `yaml:"interval"`
		Top           int    `yaml:"top"`
		MaxDisks      int    `yaml:"max_disks"`
		MaxInterfaces int    `yaml:"max_interfaces"`
		CPUSample     string `yaml:"cpu_sample"`
		KillTimeout   string `yaml:"kill_timeout"`
		StatusTTL     string `yaml:"status_ttl"`
		EscapeWait    string `yaml:"escape_wait"`
		GPU           bool   `yaml:"gpu"`
		LogFile       string `yaml:"log_file"`
	}{
		Interval:      c.Interval.String(),
		Top:           c.Top,
		MaxDisks:      c.MaxDisks,
		MaxInterfaces: c.MaxInterfaces,
		CPUSample:     c.CPUSample.String(),
		KillTimeout:   c.KillTimeout.String(),
		StatusTTL:     c.StatusTTL.String(),
		EscapeWait:    c.EscapeWait.String(),
		GPU:           c.GPU,
		LogFile:       c.LogFile,
	}, nil
}
