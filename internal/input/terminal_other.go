//go:build !unix

package input

import (
	"errors"
	"os"
	"time"
)

// TTY is unsupported on this platform; raw mode always fails so the reader
// degrades to an empty key stream.
type TTY struct{}

// NewTTY returns a TTY whose raw mode is unavailable.
func NewTTY(*os.File) *TTY { return &TTY{} }

// EnterRawMode always fails on this platform.
func (t *TTY) EnterRawMode() (func() error, error) {
	return nil, errors.New("raw terminal input is not supported on this platform")
}

// PollBytes never returns input on this platform.
func (t *TTY) PollBytes(time.Duration) ([]byte, error) {
	return nil, nil
}
