package interact

import "time"

// Mode is the modal state of the dashboard. It is a closed set; the zero
// value is ModeNormal.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSelect
	ModeConfirm
)

// String returns a human-readable label for the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeSelect:
		return "select"
	case ModeConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

// Severity colours a status message.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

// String returns a human-readable label for the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// StatusMessage is a transient line shown in the footer until ExpiresAt.
type StatusMessage struct {
	Text      string
	Severity  Severity
	ExpiresAt time.Time
}

// Expired reports whether the message should no longer be shown at now.
func (s StatusMessage) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// ActionKind tags an Action.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionTerminate
)

// Action is a side effect requested by the state machine. It is consumed
// immediately by the scheduler and never stored.
type Action struct {
	Kind ActionKind
	PID  int32
	// Name is the process name captured at confirmation, for status text.
	Name string
}

// None reports whether the action requests nothing.
func (a Action) None() bool {
	return a.Kind == ActionNone
}

// PendingKill is the process awaiting confirmation.
type PendingKill struct {
	PID  int32
	Name string
}

// state is the single-owner interaction state. Only Machine mutates it.
type state struct {
	mode     Mode
	selected int
	pending  *PendingKill // non-nil iff mode == ModeConfirm
	status   *StatusMessage
}

// View is a read-only copy of the interaction state for rendering.
type View struct {
	Mode     Mode
	Selected int
	Pending  *PendingKill
	Status   *StatusMessage
}
