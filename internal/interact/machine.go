package interact

import (
	"time"

	"github.com/rileyhilliard/sysview/internal/input"
	"github.com/rileyhilliard/sysview/internal/metrics"
)

// DefaultStatusTTL is how long a status message stays on screen.
const DefaultStatusTTL = 3 * time.Second

// Status texts set by the machine itself.
const (
	StatusSelectionCancelled = "Cancelled process selection"
	StatusKillCancelled      = "Kill cancelled"
)

// keyClass groups keys by their meaning to the transition table.
type keyClass int

const (
	classOther keyClass = iota
	classKill
	classUp
	classDown
	classEscape
	classYes
	classNo
)

func classify(k input.Key) keyClass {
	switch k.Kind {
	case input.KeyUp:
		return classUp
	case input.KeyDown:
		return classDown
	case input.KeyEscape:
		return classEscape
	}
	switch {
	case k.Is('k', 'K'):
		return classKill
	case k.Is('y', 'Y'):
		return classYes
	case k.Is('n', 'N'):
		return classNo
	}
	return classOther
}

// transition applies one table entry. procs is the process list the operator
// is looking at.
type transition func(m *Machine, procs []metrics.ProcessInfo, now time.Time) Action

// transitions is the complete table. A (mode, class) pair missing from it is a
// no-op that keeps the current mode.
var transitions = map[Mode]map[keyClass]transition{
	ModeNormal: {
		classKill: (*Machine).enterSelect,
	},
	ModeSelect: {
		classUp:     (*Machine).moveUp,
		classDown:   (*Machine).moveDown,
		classKill:   (*Machine).enterConfirm,
		classEscape: (*Machine).cancelSelect,
	},
	ModeConfirm: {
		classYes:    (*Machine).confirmKill,
		classNo:     (*Machine).cancelKill,
		classEscape: (*Machine).cancelKill,
	},
}

// Machine is the interaction state machine. It is not safe for concurrent use;
// the scheduler is its only caller.
type Machine struct {
	st  state
	ttl time.Duration
}

// NewMachine creates a machine in ModeNormal. Status messages it sets expire
// after ttl (DefaultStatusTTL when ttl <= 0).
func NewMachine(ttl time.Duration) *Machine {
	if ttl <= 0 {
		ttl = DefaultStatusTTL
	}
	return &Machine{ttl: ttl}
}

// Handle feeds one key through the transition table. It returns the action to
// perform before the next key is handled, and quit=true on Interrupt.
func (m *Machine) Handle(k input.Key, procs []metrics.ProcessInfo, now time.Time) (Action, bool) {
	if k.Kind == input.KeyInterrupt {
		return Action{}, true
	}

	fn, ok := transitions[m.st.mode][classify(k)]
	if !ok {
		return Action{}, false
	}
	return fn(m, procs, now), false
}

func (m *Machine) enterSelect(_ []metrics.ProcessInfo, _ time.Time) Action {
	m.st.mode = ModeSelect
	m.st.selected = 0
	m.st.status = nil
	return Action{}
}

func (m *Machine) moveUp(_ []metrics.ProcessInfo, _ time.Time) Action {
	if m.st.selected > 0 {
		m.st.selected--
	}
	return Action{}
}

func (m *Machine) moveDown(procs []metrics.ProcessInfo, _ time.Time) Action {
	if m.st.selected < len(procs)-1 {
		m.st.selected++
	}
	return Action{}
}

func (m *Machine) enterConfirm(procs []metrics.ProcessInfo, _ time.Time) Action {
	if len(procs) == 0 {
		return Action{}
	}
	idx := clamp(m.st.selected, len(procs))
	p := procs[idx]
	m.st.mode = ModeConfirm
	m.st.pending = &PendingKill{PID: p.PID, Name: p.Name}
	return Action{}
}

func (m *Machine) cancelSelect(_ []metrics.ProcessInfo, now time.Time) Action {
	m.toNormal()
	m.SetStatus(StatusSelectionCancelled, SeverityWarning, now)
	return Action{}
}

func (m *Machine) confirmKill(_ []metrics.ProcessInfo, _ time.Time) Action {
	target := *m.st.pending
	m.toNormal()
	return Action{Kind: ActionTerminate, PID: target.PID, Name: target.Name}
}

func (m *Machine) cancelKill(_ []metrics.ProcessInfo, now time.Time) Action {
	m.toNormal()
	m.SetStatus(StatusKillCancelled, SeverityWarning, now)
	return Action{}
}

// toNormal leaves the current mode and clears its scratch fields.
func (m *Machine) toNormal() {
	m.st.mode = ModeNormal
	m.st.selected = 0
	m.st.pending = nil
}

// SetStatus shows text until now + ttl.
func (m *Machine) SetStatus(text string, sev Severity, now time.Time) {
	m.st.status = &StatusMessage{Text: text, Severity: sev, ExpiresAt: now.Add(m.ttl)}
}

// ExpireStatus clears the status message once now has reached its expiry.
// The scheduler calls it once per tick.
func (m *Machine) ExpireStatus(now time.Time) {
	if m.st.status != nil && m.st.status.Expired(now) {
		m.st.status = nil
	}
}

// Sync clamps the selection to a process list of length n.
func (m *Machine) Sync(n int) {
	if m.st.mode == ModeSelect {
		m.st.selected = clamp(m.st.selected, n)
	}
}

// Mode returns the current mode.
func (m *Machine) Mode() Mode {
	return m.st.mode
}

// View returns a copy of the state that the caller may keep.
func (m *Machine) View() View {
	v := View{Mode: m.st.mode, Selected: m.st.selected}
	if m.st.pending != nil {
		p := *m.st.pending
		v.Pending = &p
	}
	if m.st.status != nil {
		s := *m.st.status
		v.Status = &s
	}
	return v
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
