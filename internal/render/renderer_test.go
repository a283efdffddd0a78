package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sysview/internal/interact"
	"github.com/rileyhilliard/sysview/internal/metrics"
)

func ptr(f float64) *float64 { return &f }

func sampleSnapshot() metrics.Snapshot {
	return metrics.Snapshot{
		TakenAt: time.Date(2026, 3, 4, 12, 30, 45, 0, time.UTC),
		System: metrics.Reading[metrics.SystemInfo]{Value: metrics.SystemInfo{
			Hostname: "workbench", OS: "linux", Platform: "ubuntu", Kernel: "6.8.0",
			Arch: "x86_64", Uptime: 49 * time.Hour, User: "dev",
		}},
		CPU: metrics.Reading[metrics.CPUStats]{Value: metrics.CPUStats{
			Percent: 42.5, PerCore: []float64{40, 45}, FrequencyMHz: 3200, Cores: 2,
		}},
		Memory: metrics.Reading[metrics.MemoryStats]{Value: metrics.MemoryStats{
			UsedBytes: 8 << 30, TotalBytes: 16 << 30, Percent: 50,
		}},
		Swap: metrics.Reading[metrics.SwapStats]{Value: metrics.SwapStats{}},
		Network: metrics.Reading[metrics.NetworkStats]{Value: metrics.NetworkStats{
			UploadBytesPerSec: 2048, DownloadBytesPerSec: 3 << 20,
			ActiveInterfaces: []string{"eth0", "wlan0"},
		}},
		Disks: metrics.Reading[[]metrics.DiskUsage]{Value: []metrics.DiskUsage{
			{Device: "/dev/sda1", Mountpoint: "/", UsedPercent: 93, FreeBytes: 10 << 30, TotalBytes: 200 << 30},
		}},
		GPUs: metrics.Reading[[]metrics.GPUStats]{Value: []metrics.GPUStats{
			{Name: "RTX 4090", UtilPercent: 12, MemUsedMB: 2048, MemTotalMB: 24576, TempC: 48, PowerWatts: ptr(80)},
		}},
		Processes: metrics.Reading[[]metrics.ProcessInfo]{Value: []metrics.ProcessInfo{
			{PID: 101, Name: "build", CPUPercent: 90.2, MemPercent: 3.1, Status: "running"},
			{PID: 202, Name: "browser", CPUPercent: 40, MemPercent: 12.5, Status: "sleep"},
			{PID: 303, Name: "editor", CPUPercent: 5, MemPercent: 1, Status: "sleep"},
		}},
	}
}

func TestRenderer_RendersAllPanels(t *testing.T) {
	r := NewRenderer(140, 60)

	frame := r.Render(sampleSnapshot(), interact.View{})

	for _, want := range []string{
		"sysview", "workbench", "12:30:45",
		"System Info", "CPU & Memory", "GPU", "Network", "Top Processes", "Disk",
		"RTX 4090", "eth0, wlan0", "build", "editor", "not configured", "2d 1h 0m",
	} {
		assert.Contains(t, frame, want)
	}
}

func TestRenderer_LinesFitWidth(t *testing.T) {
	for _, width := range []int{80, 140} {
		t.Run(fmt.Sprintf("%d", width), func(t *testing.T) {
			r := NewRenderer(width, 60)
			frame := r.Render(sampleSnapshot(), interact.View{Mode: interact.ModeSelect, Selected: 1})
			for _, line := range strings.Split(frame, "\n") {
				assert.LessOrEqual(t, lipgloss.Width(line), width, "line %q", line)
			}
		})
	}
}

func TestRenderer_FooterFollowsMode(t *testing.T) {
	tests := []struct {
		name    string
		view    interact.View
		want    []string
		notWant []string
	}{
		{
			name:    "normal",
			view:    interact.View{Mode: interact.ModeNormal},
			want:    []string{"select process", "quit"},
			notWant: []string{"confirm", "Kill "},
		},
		{
			name:    "select",
			view:    interact.View{Mode: interact.ModeSelect},
			want:    []string{"kill", "back", "Select a process to kill"},
			notWant: []string{"select process"},
		},
		{
			name: "confirm",
			view: interact.View{
				Mode:    interact.ModeConfirm,
				Pending: &interact.PendingKill{PID: 303, Name: "editor"},
			},
			want: []string{"Kill editor (PID 303)? [y/N]", "confirm", "cancel"},
		},
		{
			name: "status",
			view: interact.View{Status: &interact.StatusMessage{Text: "Kill cancelled", Severity: interact.SeverityWarning}},
			want: []string{"Kill cancelled"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer(140, 60)
			footer := r.renderFooter(tt.view)
			for _, w := range tt.want {
				assert.Contains(t, footer, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, footer, w)
			}
		})
	}
}

func TestHighlightedRow(t *testing.T) {
	assert.Equal(t, -1, highlightedRow(interact.View{Mode: interact.ModeNormal, Selected: 2}))
	assert.Equal(t, -1, highlightedRow(interact.View{Mode: interact.ModeConfirm, Selected: 2}))
	assert.Equal(t, 2, highlightedRow(interact.View{Mode: interact.ModeSelect, Selected: 2}))
}

func TestRenderer_UnavailableSections(t *testing.T) {
	snap := sampleSnapshot()
	snap.GPUs = metrics.Reading[[]metrics.GPUStats]{Err: fmt.Errorf("nvidia-smi not found: %w", metrics.ErrUnavailable)}
	snap.Disks = metrics.Reading[[]metrics.DiskUsage]{Err: errors.New("permission denied")}
	snap.CPU = metrics.Reading[metrics.CPUStats]{Err: errors.New("sampling failed")}

	frame := NewRenderer(140, 60).Render(snap, interact.View{})

	assert.Contains(t, frame, NoGPUText)
	assert.Contains(t, frame, "unavailable: permission denied")
	assert.Contains(t, frame, "unavailable: sampling failed")
	assert.Contains(t, frame, "Memory", "other sections still render")
}

func TestRenderer_EmptyProcessList(t *testing.T) {
	snap := sampleSnapshot()
	snap.Processes = metrics.Reading[[]metrics.ProcessInfo]{}

	frame := NewRenderer(140, 60).Render(snap, interact.View{Mode: interact.ModeSelect})

	assert.Contains(t, frame, "No processes")
}

func TestRenderer_SetSizeDefaults(t *testing.T) {
	r := NewRenderer(0, 0)
	w, h := r.Size()
	assert.Equal(t, DefaultWidth, w)
	assert.Equal(t, DefaultHeight, h)

	r.SetSize(10, 5)
	w, _ = r.Size()
	assert.Equal(t, minWidth, w)
}

func TestPanel_Width(t *testing.T) {
	p := Panel("Disk", "3", []string{"short", strings.Repeat("x", 200)}, 40)

	lines := strings.Split(p, "\n")
	require.Len(t, lines, 4)
	for _, l := range lines {
		assert.Equal(t, 40, lipgloss.Width(l), "line %q", l)
	}
}

func TestSectionHeader_Width(t *testing.T) {
	assert.Equal(t, 50, lipgloss.Width(SectionHeader("CPU & Memory", "42.5%", 50)))
	assert.Equal(t, 50, lipgloss.Width(SectionHeader("Disk", "", 50)))
}

func TestKeyMap_ForMode(t *testing.T) {
	km := DefaultKeyMap()

	normal := km.ForMode(interact.ModeNormal)
	require.Len(t, normal, 2)
	assert.Equal(t, "select process", normal[0].Help().Desc)

	confirm := km.ForMode(interact.ModeConfirm)
	assert.Equal(t, []string{"y", "Y"}, confirm[0].Keys())
}

func TestScreen_Present(t *testing.T) {
	var buf bytes.Buffer
	s := newScreen(&buf, func() (int, int, error) { return 80, 4, nil })

	require.NoError(t, s.Present("header\nbody1\nbody2\nprompt\nhelp\n"))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\x1b[1;1H"), "starts at the top-left corner")
	assert.Contains(t, out, "header\x1b[0K\r\nbody1\x1b[0K\r\nprompt\x1b[0K\r\nhelp\x1b[0K")
	assert.NotContains(t, out, "body2", "body lines go before the footer")
	assert.True(t, strings.HasSuffix(out, "\x1b[0J"), "erases leftovers below the frame")
}

func TestClipBody(t *testing.T) {
	lines := []string{"h", "b1", "b2", "b3", "prompt", "help"}

	assert.Equal(t, []string{"h", "b1", "prompt", "help"}, clipBody(lines, 4))
	assert.Equal(t, []string{"prompt", "help"}, clipBody(lines, 2))
	assert.Equal(t, []string{"help"}, clipBody(lines, 1))
}

// busySnapshot is a large host: many cores, a full process table and
// several disks.
func busySnapshot() metrics.Snapshot {
	snap := sampleSnapshot()
	perCore := make([]float64, 16)
	for i := range perCore {
		perCore[i] = float64(i * 6)
	}
	snap.CPU.Value.PerCore = perCore
	snap.CPU.Value.Cores = 16

	procs := make([]metrics.ProcessInfo, 10)
	for i := range procs {
		procs[i] = metrics.ProcessInfo{
			PID: int32(1000 + i), Name: fmt.Sprintf("proc-%d", i),
			CPUPercent: float64(100 - i*9), MemPercent: 1.5, Status: "running",
		}
	}
	snap.Processes.Value = procs

	var disks []metrics.DiskUsage
	for _, mp := range []string{"/", "/home", "/var", "/boot", "/data"} {
		disks = append(disks, metrics.DiskUsage{Mountpoint: mp, UsedPercent: 40, FreeBytes: 50 << 30, TotalBytes: 100 << 30})
	}
	snap.Disks.Value = disks
	return snap
}

func TestRenderer_FitsTerminalHeight(t *testing.T) {
	confirm := interact.View{
		Mode:     interact.ModeConfirm,
		Selected: 9,
		Pending:  &interact.PendingKill{PID: 1009, Name: "proc-9"},
	}
	selectLast := interact.View{Mode: interact.ModeSelect, Selected: 9}

	tests := []struct {
		name          string
		width, height int
		view          interact.View
		want          []string
	}{
		{"confirm 80x24", 80, 24, confirm, []string{"Kill proc-9 (PID 1009)? [y/N]", "confirm", "cancel", "Top Processes"}},
		{"confirm 120x24", 120, 24, confirm, []string{"Kill proc-9 (PID 1009)? [y/N]", "confirm", "cancel", "Top Processes"}},
		{"select 80x24", 80, 24, selectLast, []string{"Select a process to kill", "kill", "back", "proc-9"}},
		{"select 120x24", 120, 24, selectLast, []string{"Select a process to kill", "kill", "back", "proc-9"}},
		{"select 80x16", 80, 16, selectLast, []string{"Select a process to kill", "proc-9"}},
		{"normal 120x12", 120, 12, interact.View{}, []string{"select process", "quit"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := NewRenderer(tt.width, tt.height).Render(busySnapshot(), tt.view)
			plain := ansi.Strip(frame)

			assert.LessOrEqual(t, lipgloss.Height(frame), tt.height)
			for _, line := range strings.Split(frame, "\n") {
				assert.LessOrEqual(t, lipgloss.Width(line), tt.width, "line %q", line)
			}
			for _, w := range tt.want {
				assert.Contains(t, plain, w)
			}
			assert.True(t, strings.HasPrefix(plain, " sysview"), "header stays on top")
		})
	}
}

func TestRenderer_ShortTerminalKeepsSelection(t *testing.T) {
	frame := ansi.Strip(NewRenderer(80, 16).Render(busySnapshot(), interact.View{Mode: interact.ModeSelect, Selected: 9}))

	assert.Contains(t, frame, "proc-9")
	assert.Contains(t, frame, "proc-5")
	assert.NotContains(t, frame, "proc-4", "rows furthest from the selection go first")
	assert.NotContains(t, frame, "Disk", "low priority panels are hidden")
}

func TestRenderer_TallTerminalShowsEverything(t *testing.T) {
	frame := ansi.Strip(NewRenderer(120, 60).Render(busySnapshot(), interact.View{}))

	for i := 0; i < 10; i++ {
		assert.Contains(t, frame, fmt.Sprintf("proc-%d", i))
	}
	for _, mp := range []string{"/home", "/var", "/boot", "/data"} {
		assert.Contains(t, frame, mp)
	}
	assert.Contains(t, frame, "c15")
}

func TestFitColumn(t *testing.T) {
	low := section{title: "Low", keep: 1, priority: 1, rows: rowsOf(0, "l1", "l2")}
	high := section{
		title: "High", keep: 1, priority: 2, pinned: true,
		rows: []row{{"h-a", 2}, {"h-b", 0}, {"h-c", 1}},
	}

	tests := []struct {
		name    string
		height  int
		want    []string
		notWant []string
	}{
		{"everything fits", 20, []string{"Low", "l1", "l2", "h-a", "h-b", "h-c"}, nil},
		{"high grows first", 7, []string{"Low", "l1", "h-b", "h-c"}, []string{"l2", "h-a"}},
		{"lowest ranks kept", 6, []string{"Low", "l1", "h-b"}, []string{"h-a", "h-c", "l2"}},
		{"low priority hidden", 4, []string{"h-b", "h-c"}, []string{"Low", "h-a"}},
		{"pinned clipped last", 2, []string{"High"}, []string{"Low"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ansi.Strip(fitColumn([]section{low, high}, 30, tt.height))

			assert.LessOrEqual(t, lipgloss.Height(out), tt.height)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, out, w)
			}
		})
	}
}

func TestScreen_SizeError(t *testing.T) {
	s := newScreen(&bytes.Buffer{}, func() (int, int, error) { return 0, 0, errors.New("not a tty") })

	w, h := s.Size()

	assert.Zero(t, w)
	assert.Zero(t, h)
}
