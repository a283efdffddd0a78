package input

import (
	"time"

	"github.com/rileyhilliard/sysview/internal/errors"
	"github.com/rileyhilliard/sysview/internal/logger"
)

// DefaultEscapeWait bounds the follow-up read used to tell a bare Escape from
// the start of an arrow-key sequence.
const DefaultEscapeWait = 25 * time.Millisecond

// Terminal is the raw input device the Reader drains.
type Terminal interface {
	EnterRawMode() (restore func() error, err error)
	PollBytes(maxWait time.Duration) ([]byte, error)
}

// Reader turns buffered terminal input into keys without blocking the tick.
type Reader struct {
	term       Terminal
	escapeWait time.Duration
	log        logger.Logger
	enabled    bool
}

// NewReader creates a reader over term. It yields no keys until Start succeeds.
func NewReader(term Terminal, escapeWait time.Duration, log logger.Logger) *Reader {
	if escapeWait <= 0 {
		escapeWait = DefaultEscapeWait
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Reader{term: term, escapeWait: escapeWait, log: log}
}

// Start places the terminal in raw mode. The returned restore function is
// never nil and must be deferred by the caller. If raw mode cannot be entered
// the error is returned and the reader stays disabled, producing no keys.
func (r *Reader) Start() (func() error, error) {
	restore, err := r.term.EnterRawMode()
	if err != nil {
		r.enabled = false
		return func() error { return nil }, errors.WrapWithCode(err, errors.ErrTerminal,
			"Keyboard input disabled",
			"Run sysview from an interactive terminal to use process selection")
	}
	r.enabled = true
	return restore, nil
}

// Enabled reports whether the reader is producing keys.
func (r *Reader) Enabled() bool {
	return r.enabled
}

// ReadKeys drains the bytes buffered right now. Only a trailing partial escape
// sequence triggers a second read, bounded by the escape wait; if nothing
// completes it, the sequence decodes as Escape.
func (r *Reader) ReadKeys() []Key {
	if !r.enabled {
		return nil
	}

	buf, err := r.term.PollBytes(0)
	if err != nil {
		r.log.Debug("poll input: %v", err)
		return nil
	}
	if len(buf) == 0 {
		return nil
	}

	keys, rest := Decode(buf, false)
	if len(rest) == 0 {
		return keys
	}

	more, err := r.term.PollBytes(r.escapeWait)
	if err != nil {
		r.log.Debug("poll escape follow-up: %v", err)
	}
	tail, _ := Decode(append(rest, more...), true)
	return append(keys, tail...)
}
