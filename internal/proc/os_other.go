//go:build !unix

package proc

import (
	"context"
	"errors"
	"syscall"

	"github.com/shirou/gopsutil/v4/process"
)

// SystemOS is the OS capability backed by gopsutil.
type SystemOS struct{}

// Exists reports whether pid is running.
func (SystemOS) Exists(ctx context.Context, pid int32) (bool, error) {
	return process.PidExistsWithContext(ctx, pid)
}

// Signal has no graceful variant here; both signals kill the process.
func (SystemOS) Signal(pid int32, _ syscall.Signal) error {
	p, err := process.NewProcess(pid)
	if err != nil {
		if errors.Is(err, process.ErrorProcessNotRunning) {
			return ErrNoSuchProcess
		}
		return err
	}
	return p.Kill()
}
