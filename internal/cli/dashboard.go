package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/sysview/internal/config"
	"github.com/rileyhilliard/sysview/internal/dashboard"
	"github.com/rileyhilliard/sysview/internal/errors"
	"github.com/rileyhilliard/sysview/internal/input"
	"github.com/rileyhilliard/sysview/internal/interact"
	"github.com/rileyhilliard/sysview/internal/logger"
	"github.com/rileyhilliard/sysview/internal/metrics"
	"github.com/rileyhilliard/sysview/internal/proc"
	"github.com/rileyhilliard/sysview/internal/render"
)

// dashboardCommand runs the interactive dashboard until ctrl+c or a
// termination signal.
func dashboardCommand(cmd *cobra.Command, opts *rootOptions) error {
	cfg, path, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrTerminal,
			"sysview needs an interactive terminal",
			"Use 'sysview snapshot' to print a single frame instead")
	}

	log, closeLog, err := openLogger(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot open log file "+cfg.LogFile,
			"Check the log_file path or drop --log-file")
	}
	defer func() { _ = closeLog() }()
	if path != "" {
		log.Info("loaded config from %s", path)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	reader := input.NewReader(input.NewTTY(os.Stdin), cfg.EscapeWait, log)
	restore, err := reader.Start()
	if err != nil {
		// The dashboard still refreshes; it just cannot take keys.
		log.Warn("keyboard input disabled: %v", err)
	}

	screen := render.NewScreen(os.Stdout)
	screen.Start()
	defer func() {
		screen.Stop()
		if rerr := restore(); rerr != nil {
			log.Warn("restoring terminal: %v", rerr)
		}
		if r := recover(); r != nil {
			panic(r)
		}
	}()

	w, h := screen.Size()
	sched := dashboard.New(dashboard.Config{
		Keys:       reader,
		Machine:    interact.NewMachine(cfg.StatusTTL),
		Terminator: proc.NewController(proc.SystemOS{}, cfg.KillTimeout, log),
		Collector:  newCollector(cfg, log),
		Display:    render.NewDisplay(render.NewRenderer(w, h), screen),
		Interval:   cfg.Interval,
		Logger:     log,
	})
	return sched.Run(ctx)
}

// newCollector builds the local-host aggregator for cfg.
func newCollector(cfg *config.Config, log logger.Logger) *metrics.Aggregator {
	sources := metrics.DefaultSources(metrics.Options{
		CPUWindow:     cfg.CPUSample,
		MaxDisks:      cfg.MaxDisks,
		MaxInterfaces: cfg.MaxInterfaces,
		GPU:           cfg.GPU,
		GPUTimeout:    metrics.DefaultGPUTimeout,
	})
	return metrics.NewAggregator(sources, cfg.Top, log)
}
