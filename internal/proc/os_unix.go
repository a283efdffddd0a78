//go:build unix

package proc

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"syscall"

	"github.com/shirou/gopsutil/v4/process"
	"golang.org/x/sys/unix"
)

// SystemOS is the OS capability backed by gopsutil and kill(2).
type SystemOS struct{}

// Exists reports whether pid is running. A zombie has exited as far as the
// operator is concerned.
func (SystemOS) Exists(ctx context.Context, pid int32) (bool, error) {
	ok, err := process.PidExistsWithContext(ctx, pid)
	if err != nil || !ok {
		return false, err
	}

	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		if errors.Is(err, process.ErrorProcessNotRunning) {
			return false, nil
		}
		return true, nil
	}
	status, err := p.StatusWithContext(ctx)
	if err != nil {
		return true, nil
	}
	return !slices.Contains(status, process.Zombie), nil
}

// Signal sends sig to pid.
func (SystemOS) Signal(pid int32, sig syscall.Signal) error {
	// kill(2) treats 0 and negative pids as process groups.
	if pid <= 0 {
		return fmt.Errorf("pid %d: %w", pid, ErrNoSuchProcess)
	}
	err := unix.Kill(int(pid), sig)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.ESRCH):
		return fmt.Errorf("%w: %w", ErrNoSuchProcess, err)
	case errors.Is(err, unix.EPERM):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return err
	}
}
