package proc

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"time"

	svErrors "github.com/rileyhilliard/sysview/internal/errors"
	"github.com/rileyhilliard/sysview/internal/logger"
)

// Defaults for Controller.
const (
	DefaultTimeout      = 2 * time.Second
	DefaultPollInterval = 50 * time.Millisecond
)

// Sentinel errors an OS implementation returns so the controller can classify
// failures without knowing the platform's errno values.
var (
	ErrNoSuchProcess    = errors.New("no such process")
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInterrupted is the cause of a Failed result when ctx ends during
	// the graceful wait. No SIGKILL is sent in that case.
	ErrInterrupted = errors.New("interrupted before the process exited")
)

// Outcome classifies a termination attempt.
type Outcome int

const (
	TerminatedGracefully Outcome = iota
	TerminatedForcefully
	NotFound
	PermissionDenied
	Failed
)

// String returns a human-readable label for the outcome.
func (o Outcome) String() string {
	switch o {
	case TerminatedGracefully:
		return "terminated"
	case TerminatedForcefully:
		return "killed"
	case NotFound:
		return "not found"
	case PermissionDenied:
		return "permission denied"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result reports what Terminate did. Err is set only for Failed.
type Result struct {
	PID     int32
	Outcome Outcome
	Err     error
}

// OS is the process capability the controller drives.
type OS interface {
	// Exists reports whether pid is still running. Zombies count as exited.
	Exists(ctx context.Context, pid int32) (bool, error)
	// Signal delivers sig to pid, returning ErrNoSuchProcess or
	// ErrPermissionDenied (possibly wrapped) for those conditions.
	Signal(pid int32, sig syscall.Signal) error
}

// Controller terminates processes: SIGTERM, wait, then SIGKILL.
type Controller struct {
	sys          OS
	timeout      time.Duration
	pollInterval time.Duration
	log          logger.Logger
}

// NewController creates a controller. A timeout <= 0 uses DefaultTimeout.
func NewController(sys OS, timeout time.Duration, log logger.Logger) *Controller {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Controller{
		sys:          sys,
		timeout:      timeout,
		pollInterval: DefaultPollInterval,
		log:          log,
	}
}

// Terminate asks pid to exit, waits up to the timeout, and escalates to a
// forceful kill if it is still running. A process that is already gone yields
// NotFound, which is not an error. Cancelling ctx during the wait returns
// Failed with ErrInterrupted and leaves the process to its SIGTERM.
func (c *Controller) Terminate(ctx context.Context, pid int32) Result {
	res := Result{PID: pid}

	if err := c.sys.Signal(pid, syscall.SIGTERM); err != nil {
		return c.classify(res, err, "SIGTERM")
	}
	c.log.Debug("sent SIGTERM to %d", pid)

	exited, err := c.waitExit(ctx, pid)
	if exited {
		res.Outcome = TerminatedGracefully
		return res
	}
	if ctx.Err() != nil {
		c.log.Debug("stopped waiting for %d: %v", pid, ctx.Err())
		return c.classify(res, fmt.Errorf("%w: %w", ErrInterrupted, ctx.Err()), "SIGTERM")
	}
	if err != nil {
		c.log.Debug("waiting for %d: %v", pid, err)
	}

	if err := c.sys.Signal(pid, syscall.SIGKILL); err != nil {
		if errors.Is(err, ErrNoSuchProcess) {
			// Exited between the last poll and the kill.
			res.Outcome = TerminatedGracefully
			return res
		}
		return c.classify(res, err, "SIGKILL")
	}
	c.log.Debug("sent SIGKILL to %d", pid)
	res.Outcome = TerminatedForcefully
	return res
}

// waitExit polls until pid is gone, the timeout passes, or ctx is done.
func (c *Controller) waitExit(ctx context.Context, pid int32) (bool, error) {
	deadline := time.NewTimer(c.timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		exists, err := c.sys.Exists(ctx, pid)
		if err == nil && !exists {
			return true, nil
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-deadline.C:
			return false, err
		case <-ticker.C:
		}
	}
}

func (c *Controller) classify(res Result, err error, sig string) Result {
	switch {
	case errors.Is(err, ErrNoSuchProcess):
		res.Outcome = NotFound
	case errors.Is(err, ErrPermissionDenied):
		res.Outcome = PermissionDenied
	default:
		res.Outcome = Failed
		res.Err = svErrors.WrapWithCode(err, svErrors.ErrProcess,
			fmt.Sprintf("%s to PID %d failed", sig, res.PID),
			"Check that the process still exists and that you may signal it")
	}
	return res
}
