package dashboard

import (
	"context"
	"fmt"
	"time"

	svErrors "github.com/rileyhilliard/sysview/internal/errors"
	"github.com/rileyhilliard/sysview/internal/input"
	"github.com/rileyhilliard/sysview/internal/interact"
	"github.com/rileyhilliard/sysview/internal/logger"
	"github.com/rileyhilliard/sysview/internal/metrics"
	"github.com/rileyhilliard/sysview/internal/proc"
)

// DefaultInterval is the refresh period.
const DefaultInterval = time.Second

// KeySource yields the keys typed since the last call without blocking.
type KeySource interface {
	ReadKeys() []input.Key
}

// Terminator carries out a confirmed kill.
type Terminator interface {
	Terminate(ctx context.Context, pid int32) proc.Result
}

// Collector produces one snapshot per tick.
type Collector interface {
	Collect(ctx context.Context) metrics.Snapshot
}

// Display records usage history, renders and shows a frame. Render has no
// side effects; Record is called once per collected snapshot.
type Display interface {
	Record(snap metrics.Snapshot)
	Render(snap metrics.Snapshot, view interact.View) string
	Present(frame string) error
}

// Config wires a Scheduler.
type Config struct {
	Keys       KeySource
	Machine    *interact.Machine
	Terminator Terminator
	Collector  Collector
	Display    Display
	Interval   time.Duration
	Logger     logger.Logger
	// Now is the clock; time.Now when nil.
	Now func() time.Time
}

// Scheduler drives the dashboard one tick at a time. It is the only writer of
// the interaction state.
type Scheduler struct {
	keys     KeySource
	machine  *interact.Machine
	term     Terminator
	collect  Collector
	display  Display
	interval time.Duration
	log      logger.Logger
	now      func() time.Time

	// last is the snapshot the operator is looking at; keys act on its
	// process list.
	last metrics.Snapshot
}

// New creates a scheduler from cfg.
func New(cfg Config) *Scheduler {
	s := &Scheduler{
		keys:     cfg.Keys,
		machine:  cfg.Machine,
		term:     cfg.Terminator,
		collect:  cfg.Collector,
		display:  cfg.Display,
		interval: cfg.Interval,
		log:      cfg.Logger,
		now:      cfg.Now,
	}
	if s.machine == nil {
		s.machine = interact.NewMachine(0)
	}
	if s.interval <= 0 {
		s.interval = DefaultInterval
	}
	if s.log == nil {
		s.log = logger.Noop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Run ticks until an Interrupt key arrives or ctx is cancelled. Each tick is
// followed by a sleep for the rest of the interval.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		start := s.now()
		if s.Tick(ctx) {
			s.log.Debug("interrupt received, leaving dashboard")
			return nil
		}

		wait := s.interval - s.now().Sub(start)
		if wait <= 0 {
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// Tick runs one refresh: keys and their actions, status expiry, collection,
// then record and render. It returns true when the operator asked to quit.
func (s *Scheduler) Tick(ctx context.Context) bool {
	procs := s.last.ProcessList()
	for _, k := range s.keys.ReadKeys() {
		action, quit := s.machine.Handle(k, procs, s.now())
		if quit {
			return true
		}
		if action.Kind == interact.ActionTerminate {
			s.terminate(ctx, action)
		}
	}

	s.machine.ExpireStatus(s.now())

	snap := s.collect.Collect(ctx)
	s.last = snap
	s.machine.Sync(len(snap.ProcessList()))
	s.display.Record(snap)

	frame := s.display.Render(snap, s.machine.View())
	if err := s.display.Present(frame); err != nil {
		s.log.Warn("present frame: %v", err)
	}
	return false
}

// View exposes the current interaction state.
func (s *Scheduler) View() interact.View {
	return s.machine.View()
}

func (s *Scheduler) terminate(ctx context.Context, a interact.Action) {
	s.log.Info("terminating %s (PID %d)", a.Name, a.PID)
	res := s.term.Terminate(ctx, a.PID)
	text, sev := StatusFor(a.Name, res)
	if res.Err != nil {
		s.log.Warn("terminate %d: %v", a.PID, res.Err)
	}
	s.machine.SetStatus(text, sev, s.now())
}

// StatusFor turns a termination result into footer text and severity.
func StatusFor(name string, res proc.Result) (string, interact.Severity) {
	switch res.Outcome {
	case proc.TerminatedGracefully:
		return fmt.Sprintf("Terminated %s (PID %d)", name, res.PID), interact.SeveritySuccess
	case proc.TerminatedForcefully:
		return fmt.Sprintf("Force-killed %s (PID %d) after it ignored SIGTERM", name, res.PID), interact.SeverityWarning
	case proc.NotFound:
		return fmt.Sprintf("Process %d no longer exists", res.PID), interact.SeverityWarning
	case proc.PermissionDenied:
		return fmt.Sprintf("Permission denied: cannot kill %s (PID %d)", name, res.PID), interact.SeverityError
	default:
		msg := fmt.Sprintf("Failed to kill %s (PID %d)", name, res.PID)
		if res.Err != nil {
			msg += ": " + svErrors.Summary(res.Err)
		}
		return msg, interact.SeverityError
	}
}
