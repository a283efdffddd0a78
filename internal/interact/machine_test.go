package interact

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/rileyhilliard/sysview/internal/input"
	"github.com/rileyhilliard/sysview/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func threeProcs() []metrics.ProcessInfo {
	return []metrics.ProcessInfo{
		{PID: 101, Name: "build", CPUPercent: 90},
		{PID: 202, Name: "browser", CPUPercent: 40},
		{PID: 303, Name: "editor", CPUPercent: 5},
	}
}

// feed handles keys in order and returns every non-empty action emitted.
func feed(m *Machine, procs []metrics.ProcessInfo, keys ...input.Key) []Action {
	var actions []Action
	for _, k := range keys {
		a, _ := m.Handle(k, procs, t0)
		if !a.None() {
			actions = append(actions, a)
		}
	}
	return actions
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "normal", ModeNormal.String())
	assert.Equal(t, "select", ModeSelect.String())
	assert.Equal(t, "confirm", ModeConfirm.String())
	assert.Equal(t, "unknown", Mode(7).String())
}

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{SeverityInfo, "info"},
		{SeveritySuccess, "success"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{Severity(42), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sev.String())
		})
	}
}

func TestMachine_KillScenario(t *testing.T) {
	m := NewMachine(0)
	procs := threeProcs()

	feed(m, procs, input.Char('k'))
	assert.Equal(t, ModeSelect, m.Mode())
	assert.Equal(t, 0, m.View().Selected)

	feed(m, procs, input.Down(), input.Down())
	assert.Equal(t, 2, m.View().Selected)

	feed(m, procs, input.Char('k'))
	v := m.View()
	assert.Equal(t, ModeConfirm, v.Mode)
	require.NotNil(t, v.Pending)
	assert.Equal(t, int32(303), v.Pending.PID)
	assert.Equal(t, "editor", v.Pending.Name)

	actions := feed(m, procs, input.Char('y'))
	require.Len(t, actions, 1)
	assert.Equal(t, Action{Kind: ActionTerminate, PID: 303, Name: "editor"}, actions[0])
	assert.Equal(t, ModeNormal, m.Mode())
	assert.Nil(t, m.View().Pending)
}

func TestMachine_Transitions(t *testing.T) {
	tests := []struct {
		name       string
		setup      []input.Key
		key        input.Key
		wantMode   Mode
		wantAction ActionKind
		wantStatus string
	}{
		{"normal k enters select", nil, input.Char('k'), ModeSelect, ActionNone, ""},
		{"normal K enters select", nil, input.Char('K'), ModeSelect, ActionNone, ""},
		{"normal other is ignored", nil, input.Char('x'), ModeNormal, ActionNone, ""},
		{"normal q is ignored", nil, input.Char('q'), ModeNormal, ActionNone, ""},
		{"normal escape is ignored", nil, input.Escape(), ModeNormal, ActionNone, ""},
		{"normal arrows are ignored", nil, input.Down(), ModeNormal, ActionNone, ""},
		{"select escape cancels", []input.Key{input.Char('k')}, input.Escape(), ModeNormal, ActionNone, StatusSelectionCancelled},
		{"select other is ignored", []input.Key{input.Char('k')}, input.Char('y'), ModeSelect, ActionNone, ""},
		{"select K confirms", []input.Key{input.Char('k')}, input.Char('K'), ModeConfirm, ActionNone, ""},
		{"confirm Y terminates", []input.Key{input.Char('k'), input.Char('k')}, input.Char('Y'), ModeNormal, ActionTerminate, ""},
		{"confirm n cancels", []input.Key{input.Char('k'), input.Char('k')}, input.Char('n'), ModeNormal, ActionNone, StatusKillCancelled},
		{"confirm N cancels", []input.Key{input.Char('k'), input.Char('k')}, input.Char('N'), ModeNormal, ActionNone, StatusKillCancelled},
		{"confirm escape cancels", []input.Key{input.Char('k'), input.Char('k')}, input.Escape(), ModeNormal, ActionNone, StatusKillCancelled},
		{"confirm other is ignored", []input.Key{input.Char('k'), input.Char('k')}, input.Char('k'), ModeConfirm, ActionNone, ""},
		{"confirm arrows are ignored", []input.Key{input.Char('k'), input.Char('k')}, input.Up(), ModeConfirm, ActionNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(0)
			procs := threeProcs()
			require.Empty(t, feed(m, procs, tt.setup...))

			action, quit := m.Handle(tt.key, procs, t0)

			assert.False(t, quit)
			assert.Equal(t, tt.wantMode, m.Mode())
			assert.Equal(t, tt.wantAction, action.Kind)
			v := m.View()
			if tt.wantStatus == "" {
				assert.Nil(t, v.Status)
				return
			}
			require.NotNil(t, v.Status)
			assert.Equal(t, tt.wantStatus, v.Status.Text)
			assert.Equal(t, SeverityWarning, v.Status.Severity)
		})
	}
}

func TestMachine_InterruptQuitsFromAnyMode(t *testing.T) {
	setups := map[Mode][]input.Key{
		ModeNormal:  nil,
		ModeSelect:  {input.Char('k')},
		ModeConfirm: {input.Char('k'), input.Char('k')},
	}
	for mode, setup := range setups {
		t.Run(mode.String(), func(t *testing.T) {
			m := NewMachine(0)
			feed(m, threeProcs(), setup...)
			require.Equal(t, mode, m.Mode())

			action, quit := m.Handle(input.Interrupt(), threeProcs(), t0)

			assert.True(t, quit)
			assert.True(t, action.None())
			assert.Equal(t, mode, m.Mode(), "interrupt is not a mode transition")
		})
	}
}

func TestMachine_SelectionBounds(t *testing.T) {
	m := NewMachine(0)
	procs := threeProcs()
	feed(m, procs, input.Char('k'))

	for range 10 {
		feed(m, procs, input.Down())
		assert.LessOrEqual(t, m.View().Selected, len(procs)-1)
	}
	assert.Equal(t, 2, m.View().Selected)

	for range 10 {
		feed(m, procs, input.Up())
		assert.GreaterOrEqual(t, m.View().Selected, 0)
	}
	assert.Equal(t, 0, m.View().Selected)
}

func TestMachine_EmptyListIgnoresKillKey(t *testing.T) {
	m := NewMachine(0)

	feed(m, nil, input.Char('k'))
	require.Equal(t, ModeSelect, m.Mode())

	actions := feed(m, nil, input.Down(), input.Char('k'), input.Char('y'))

	assert.Empty(t, actions)
	assert.Equal(t, ModeSelect, m.Mode())
	assert.Equal(t, 0, m.View().Selected)
	assert.Nil(t, m.View().Pending)
}

func TestMachine_EnterSelectClearsStatus(t *testing.T) {
	m := NewMachine(0)
	m.SetStatus("Terminated build (PID 101)", SeveritySuccess, t0)

	feed(m, threeProcs(), input.Char('k'))

	assert.Nil(t, m.View().Status)
}

func TestMachine_ReenteringSelectStartsAtTop(t *testing.T) {
	m := NewMachine(0)
	procs := threeProcs()

	feed(m, procs, input.Char('k'), input.Down(), input.Down(), input.Escape(), input.Char('k'))

	assert.Equal(t, 0, m.View().Selected)
}

func TestMachine_StatusExpiry(t *testing.T) {
	m := NewMachine(3 * time.Second)
	m.SetStatus("Kill cancelled", SeverityWarning, t0)

	m.ExpireStatus(t0)
	require.NotNil(t, m.View().Status, "present immediately after setting")

	m.ExpireStatus(t0.Add(2999 * time.Millisecond))
	require.NotNil(t, m.View().Status)
	assert.Equal(t, t0.Add(3*time.Second), m.View().Status.ExpiresAt)

	m.ExpireStatus(t0.Add(3 * time.Second))
	assert.Nil(t, m.View().Status, "absent once now reaches the expiry")
}

func TestMachine_NewStatusReplacesOld(t *testing.T) {
	m := NewMachine(time.Second)
	m.SetStatus("first", SeverityInfo, t0)
	m.SetStatus("second", SeverityError, t0.Add(900*time.Millisecond))

	m.ExpireStatus(t0.Add(time.Second))

	require.NotNil(t, m.View().Status)
	assert.Equal(t, "second", m.View().Status.Text)
}

func TestMachine_SyncClampsSelection(t *testing.T) {
	m := NewMachine(0)
	procs := threeProcs()
	feed(m, procs, input.Char('k'), input.Down(), input.Down())

	m.Sync(2)
	assert.Equal(t, 1, m.View().Selected)

	m.Sync(0)
	assert.Equal(t, 0, m.View().Selected)
}

func TestMachine_SyncOutsideSelectIsNoop(t *testing.T) {
	m := NewMachine(0)
	m.Sync(0)
	assert.Equal(t, ModeNormal, m.Mode())
	assert.Equal(t, 0, m.View().Selected)
}

func TestMachine_ViewIsACopy(t *testing.T) {
	m := NewMachine(0)
	feed(m, threeProcs(), input.Char('k'), input.Char('k'))
	m.SetStatus("hello", SeverityInfo, t0)

	v := m.View()
	v.Pending.PID = 1
	v.Status.Text = "mutated"

	assert.Equal(t, int32(101), m.View().Pending.PID)
	assert.Equal(t, "hello", m.View().Status.Text)
}

// Random key sequences must keep the machine in a valid mode with a pending
// kill present exactly in ModeConfirm, and selection inside the list.
func TestMachine_RandomSequencesKeepInvariants(t *testing.T) {
	keys := []input.Key{
		input.Up(), input.Down(), input.Escape(),
		input.Char('k'), input.Char('K'), input.Char('y'), input.Char('Y'),
		input.Char('n'), input.Char('N'), input.Char('x'), input.Char('q'),
	}
	lists := [][]metrics.ProcessInfo{nil, threeProcs()[:1], threeProcs()}
	rng := rand.New(rand.NewPCG(7, 11))

	for run := range 200 {
		m := NewMachine(0)
		procs := lists[run%len(lists)]
		for range 50 {
			k := keys[rng.IntN(len(keys))]
			prev := m.View()

			action, quit := m.Handle(k, procs, t0)
			v := m.View()

			require.False(t, quit)
			require.Contains(t, []Mode{ModeNormal, ModeSelect, ModeConfirm}, v.Mode)
			require.Equal(t, v.Mode == ModeConfirm, v.Pending != nil, "pending kill iff confirm (key %s)", k)
			if v.Mode == ModeSelect && len(procs) > 0 {
				require.GreaterOrEqual(t, v.Selected, 0)
				require.Less(t, v.Selected, len(procs))
			}
			if action.Kind == ActionTerminate {
				require.Equal(t, ModeConfirm, prev.Mode)
				require.Equal(t, prev.Pending.PID, action.PID)
				require.Equal(t, ModeNormal, v.Mode)
			}
		}
	}
}
