//go:build unix

package input

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// readBufferSize caps how many bytes one poll may consume. Anything beyond
// stays in the kernel buffer for the next tick.
const readBufferSize = 256

// TTY is a Terminal backed by a real terminal file descriptor.
type TTY struct {
	fd  int
	buf []byte
}

// NewTTY wraps f (normally os.Stdin).
func NewTTY(f *os.File) *TTY {
	return &TTY{fd: int(f.Fd()), buf: make([]byte, readBufferSize)}
}

// EnterRawMode switches the terminal to raw mode. The returned restore
// function is idempotent and safe to defer on every exit path.
func (t *TTY) EnterRawMode() (func() error, error) {
	if !term.IsTerminal(t.fd) {
		return nil, errors.New("stdin is not a terminal")
	}
	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}

	var once sync.Once
	return func() error {
		var restoreErr error
		once.Do(func() {
			restoreErr = term.Restore(t.fd, state)
		})
		return restoreErr
	}, nil
}

// PollBytes returns whatever input is buffered, waiting at most maxWait for
// the first byte. A zero maxWait never blocks.
func (t *TTY) PollBytes(maxWait time.Duration) ([]byte, error) {
	fds := []unix.PollFd{{Fd: int32(t.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(maxWait/time.Millisecond))
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return nil, nil
		}
		return nil, fmt.Errorf("polling terminal: %w", err)
	}
	if n == 0 || fds[0].Revents&unix.POLLIN == 0 {
		return nil, nil
	}

	m, err := unix.Read(t.fd, t.buf)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading terminal: %w", err)
	}
	if m <= 0 {
		return nil, nil
	}

	out := make([]byte, m)
	copy(out, t.buf[:m])
	return out, nil
}
