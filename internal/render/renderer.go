package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/sysview/internal/interact"
	"github.com/rileyhilliard/sysview/internal/metrics"
)

// Layout sizes.
const (
	DefaultWidth  = 120
	DefaultHeight = 40
	// TwoColumnMin is the narrowest width that still fits two columns.
	TwoColumnMin = 100
	minWidth     = 40
)

// NoGPUText is shown when no NVIDIA driver is present.
const NoGPUText = "No NVIDIA GPUs detected"

// Renderer turns a snapshot and interaction view into a frame. It performs
// no I/O.
type Renderer struct {
	width   int
	height  int
	keys    KeyMap
	help    help.Model
	// history feeds the CPU and memory sparklines; nil hides them.
	history *History
}

// NewRenderer creates a renderer for a terminal of the given size.
func NewRenderer(width, height int) *Renderer {
	r := &Renderer{keys: DefaultKeyMap(), help: help.New()}
	r.SetSize(width, height)
	return r
}

// SetSize updates the frame dimensions. Non-positive values fall back to
// the defaults.
func (r *Renderer) SetSize(width, height int) {
	if width <= 0 {
		width = DefaultWidth
	}
	if width < minWidth {
		width = minWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	r.width, r.height = width, height
	r.help.Width = width - 2
}

// SetHistory attaches the samples drawn as sparklines.
func (r *Renderer) SetHistory(h *History) {
	r.history = h
}

// Size returns the frame dimensions.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// FooterHeight is the number of lines the status line and key help take at
// the bottom of every frame.
const FooterHeight = 2

// Render lays out the full dashboard within the frame height. The header and
// footer are always drawn; panels shrink or hide to fit the body between them.
func (r *Renderer) Render(snap metrics.Snapshot, view interact.View) string {
	header := r.renderHeader(snap, view)
	footer := r.renderFooter(view)
	budget := r.height - lipgloss.Height(header) - lipgloss.Height(footer)

	parts := []string{header}
	if body := r.renderBody(snap, view, budget); body != "" {
		parts = append(parts, body)
	}
	parts = append(parts, footer)
	return strings.Join(parts, "\n")
}

func (r *Renderer) renderHeader(snap metrics.Snapshot, view interact.View) string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("sysview")

	host := "localhost"
	if snap.System.Available() && snap.System.Value.Hostname != "" {
		host = snap.System.Value.Hostname
	}
	stats := lipgloss.NewStyle().
		Foreground(ColorTextSecondary).
		Render(fmt.Sprintf(" | %s | %s | %s mode", host, snap.TakenAt.Format("15:04:05"), view.Mode))

	return truncate(HeaderStyle.Render(title+stats), r.width)
}

// renderBody fits the panels into height lines, in one column on narrow
// terminals and two otherwise.
func (r *Renderer) renderBody(snap metrics.Snapshot, view interact.View, height int) string {
	if height <= 0 {
		return ""
	}
	if r.width < TwoColumnMin {
		w := r.width
		return fitColumn([]section{
			r.systemSection(snap),
			r.cpuMemorySection(snap, w),
			r.processSection(snap, view, w),
			r.networkSection(snap),
			r.diskSection(snap, w),
			r.gpuSection(snap, w),
		}, w, height)
	}

	leftW := r.width / 2
	rightW := r.width - leftW
	left := fitColumn([]section{
		r.systemSection(snap),
		r.cpuMemorySection(snap, leftW),
		r.gpuSection(snap, leftW),
	}, leftW, height)
	right := fitColumn([]section{
		r.networkSection(snap),
		r.processSection(snap, view, rightW),
		r.diskSection(snap, rightW),
	}, rightW, height)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// renderFooter shows the confirm prompt or status line above the key help.
func (r *Renderer) renderFooter(view interact.View) string {
	var line string
	switch {
	case view.Mode == interact.ModeConfirm && view.Pending != nil:
		line = PromptStyle.Render(fmt.Sprintf("Kill %s (PID %d)? [y/N]", view.Pending.Name, view.Pending.PID))
	case view.Status != nil:
		line = SeverityStyle(view.Status.Severity).Render(view.Status.Text)
	case view.Mode == interact.ModeSelect:
		line = LabelStyle.Render("Select a process to kill")
	}

	helpLine := r.keys.HelpView(r.help, view.Mode)
	return FooterStyle.Render(truncate(line, r.width-2)) + "\n" + FooterStyle.Render(helpLine)
}

// unavailableLine describes a section whose source failed.
func unavailableLine(err error) string {
	return UnavailableStyle.Render("unavailable: " + err.Error())
}

func (r *Renderer) systemSection(snap metrics.Snapshot) section {
	s := section{title: "System Info", keep: 1, priority: prioSystem}
	if !snap.System.Available() {
		s.rows = rowsOf(0, unavailableLine(snap.System.Err))
		return s
	}
	info := snap.System.Value
	s.rows = []row{
		{labelled("Host", info.Hostname), 0},
		{labelled("OS", strings.TrimSpace(info.OS+" "+info.Platform)), 1},
		{labelled("Kernel", info.Kernel), 3},
		{labelled("Arch", info.Arch), 4},
		{labelled("Uptime", FormatUptime(info.Uptime)), 2},
		{labelled("User", info.User), 5},
	}
	return s
}

// cpuMemorySection keeps the CPU and memory bars longest. Per-core rows are
// the first to go, highest cores first.
func (r *Renderer) cpuMemorySection(snap metrics.Snapshot, width int) section {
	s := section{title: "CPU & Memory", keep: 2, priority: prioCPU}
	barWidth := barWidthFor(width)

	if snap.CPU.Available() {
		c := snap.CPU.Value
		s.value = fmt.Sprintf("%.1f%%", c.Percent)
		s.rows = append(s.rows, row{fmt.Sprintf("%s %s %s",
			LabelStyle.Render(pad("CPU", 6)),
			ProgressBar(barWidth, c.Percent),
			MetricStyle(c.Percent).Render(fmt.Sprintf("%5.1f%%", c.Percent))), 0})
		details := fmt.Sprintf("%d cores", c.Cores)
		if c.FrequencyMHz > 0 {
			details += fmt.Sprintf(" @ %.0f MHz", c.FrequencyMHz)
		}
		s.rows = append(s.rows, row{MutedStyle.Render(pad("", 7) + details), 2})
		s.rows = append(s.rows, rowsOf(3, r.sparkLine(r.history.CPU, width)...)...)
		for i, l := range perCoreLines(c.PerCore, width-4) {
			s.rows = append(s.rows, row{l, 4 + i})
		}
	} else {
		s.rows = append(s.rows, row{LabelStyle.Render("CPU ") + unavailableLine(snap.CPU.Err), 0})
	}

	if snap.Memory.Available() {
		m := snap.Memory.Value
		s.rows = append(s.rows, row{fmt.Sprintf("%s %s %s",
			LabelStyle.Render(pad("Memory", 6)),
			ProgressBar(barWidth, m.Percent),
			ValueStyle.Render(fmt.Sprintf("%s / %s", FormatBytes(m.UsedBytes), FormatBytes(m.TotalBytes)))), 0})
		s.rows = append(s.rows, rowsOf(3, r.sparkLine(r.history.Memory, width)...)...)
	} else {
		s.rows = append(s.rows, row{LabelStyle.Render("Memory ") + unavailableLine(snap.Memory.Err), 0})
	}

	var swap string
	switch {
	case !snap.Swap.Available():
		swap = LabelStyle.Render("Swap ") + unavailableLine(snap.Swap.Err)
	case !snap.Swap.Value.Present:
		swap = LabelStyle.Render(pad("Swap", 6)) + " " + MutedStyle.Render("not configured")
	default:
		sw := snap.Swap.Value
		swap = fmt.Sprintf("%s %s %s",
			LabelStyle.Render(pad("Swap", 6)),
			ProgressBar(barWidth, sw.Percent),
			ValueStyle.Render(fmt.Sprintf("%s / %s", FormatBytes(sw.UsedBytes), FormatBytes(sw.TotalBytes))))
	}
	s.rows = append(s.rows, row{swap, 1})
	return s
}

// sparkLine renders one history row under a bar, or nothing until there are
// two samples to compare.
func (r *Renderer) sparkLine(samples func(int) []float64, width int) []string {
	if r.history == nil {
		return nil
	}
	n := width - 4 - 7
	data := samples(n)
	if len(data) < 2 {
		return nil
	}
	return []string{pad("", 7) + Sparkline(data, n)}
}

// perCoreLines lays out per-core bars in as many columns as fit.
func perCoreLines(perCore []float64, inner int) []string {
	if len(perCore) == 0 {
		return nil
	}
	const cellWidth = 18 // "c00 " + bar(8) + " 100%" + gap
	perRow := inner / cellWidth
	if perRow < 1 {
		perRow = 1
	}

	var lines []string
	var cells []string
	for i, pct := range perCore {
		cells = append(cells, fmt.Sprintf("%s %s %s",
			MutedStyle.Render(fmt.Sprintf("c%02d", i)),
			ThinProgressBar(8, pct),
			MetricStyle(pct).Render(fmt.Sprintf("%3.0f%%", pct))))
		if len(cells) == perRow {
			lines = append(lines, strings.Join(cells, " "))
			cells = nil
		}
	}
	if len(cells) > 0 {
		lines = append(lines, strings.Join(cells, " "))
	}
	return lines
}

func (r *Renderer) gpuSection(snap metrics.Snapshot, width int) section {
	s := section{title: "GPU", keep: 2, priority: prioGPU}
	if !snap.GPUs.Available() {
		line := unavailableLine(snap.GPUs.Err)
		if metrics.IsUnavailable(snap.GPUs.Err) {
			line = UnavailableStyle.Render(NoGPUText)
		}
		s.rows = rowsOf(0, line)
		return s
	}

	barWidth := barWidthFor(width)
	s.value = fmt.Sprintf("%d", len(snap.GPUs.Value))
	for i, g := range snap.GPUs.Value {
		base := 4 * i
		s.rows = append(s.rows,
			row{ValueStyle.Bold(true).Render(fmt.Sprintf("%d: %s", i, g.Name)), base},
			row{fmt.Sprintf("%s %s %s",
				LabelStyle.Render(pad("Util", 6)),
				ProgressBar(barWidth, g.UtilPercent),
				MetricStyle(g.UtilPercent).Render(fmt.Sprintf("%5.1f%%", g.UtilPercent))), base + 1},
			row{fmt.Sprintf("%s %s %s",
				LabelStyle.Render(pad("VRAM", 6)),
				ProgressBar(barWidth, g.MemPercent()),
				ValueStyle.Render(fmt.Sprintf("%s / %s", FormatMB(g.MemUsedMB), FormatMB(g.MemTotalMB)))), base + 2},
			row{MutedStyle.Render(fmt.Sprintf("%s %d°C  %s %s",
				pad("Temp", 6), g.TempC, "Power", formatPower(g))), base + 3},
		)
	}
	return s
}

func formatPower(g metrics.GPUStats) string {
	if g.PowerWatts == nil {
		return "n/a"
	}
	if g.PowerLimitWatts == nil {
		return fmt.Sprintf("%.0f W", *g.PowerWatts)
	}
	return fmt.Sprintf("%.0f / %.0f W", *g.PowerWatts, *g.PowerLimitWatts)
}

func (r *Renderer) networkSection(snap metrics.Snapshot) section {
	s := section{title: "Network", keep: 2, priority: prioNetwork}
	if !snap.Network.Available() {
		s.rows = rowsOf(0, unavailableLine(snap.Network.Err))
		return s
	}
	n := snap.Network.Value
	ifaces := "none"
	if len(n.ActiveInterfaces) > 0 {
		ifaces = strings.Join(n.ActiveInterfaces, ", ")
	}
	s.value = "↑ " + FormatRate(n.UploadBytesPerSec)
	s.rows = []row{
		{labelled("Upload", FormatRate(n.UploadBytesPerSec)), 0},
		{labelled("Download", FormatRate(n.DownloadBytesPerSec)), 0},
		{labelled("Sent", fmt.Sprintf("%s (%s pkts)", FormatBytes(n.TotalSent), FormatCount(n.PacketsSent))), 2},
		{labelled("Received", fmt.Sprintf("%s (%s pkts)", FormatBytes(n.TotalRecv), FormatCount(n.PacketsRecv))), 2},
		{labelled("Active", ifaces), 1},
	}
	return s
}

// processSection ranks rows by distance from the selected process so the
// selection stays on screen when the table is cut short.
func (r *Renderer) processSection(snap metrics.Snapshot, view interact.View, width int) section {
	s := section{title: "Top Processes", keep: minProcessRows, priority: prioProcess, pinned: true}
	if !snap.Processes.Available() {
		s.rows = rowsOf(0, unavailableLine(snap.Processes.Err))
		return s
	}
	procs := snap.Processes.Value
	if len(procs) == 0 {
		s.rows = rowsOf(0, MutedStyle.Render("No processes"))
		return s
	}

	s.value = fmt.Sprintf("top %d", len(procs))
	lines := strings.Split(strings.TrimRight(processTable(procs, width-4, highlightedRow(view)), "\n"), "\n")
	headN := max(len(lines)-len(procs), 0)
	s.head = lines[:headN]

	focus := -1
	if view.Mode != interact.ModeNormal {
		focus = min(max(view.Selected, 0), len(procs)-1)
	}
	for i, l := range lines[headN:] {
		rank := i
		if focus >= 0 {
			rank = i - focus
			if rank < 0 {
				rank = -rank
			}
		}
		s.rows = append(s.rows, row{l, rank})
	}
	return s
}

// highlightedRow is the process row to highlight, or -1 outside select mode.
func highlightedRow(view interact.View) int {
	if view.Mode != interact.ModeSelect {
		return -1
	}
	return view.Selected
}

func (r *Renderer) diskSection(snap metrics.Snapshot, width int) section {
	s := section{title: "Disk", keep: 1, priority: prioDisk}
	if !snap.Disks.Available() {
		s.rows = rowsOf(0, unavailableLine(snap.Disks.Err))
		return s
	}
	disks := snap.Disks.Value
	if len(disks) == 0 {
		s.rows = rowsOf(0, MutedStyle.Render("No partitions"))
		return s
	}

	barWidth := barWidthFor(width) - 6
	if barWidth < 5 {
		barWidth = 5
	}
	for i, d := range disks {
		s.rows = append(s.rows, row{fmt.Sprintf("%s %s %s %s",
			LabelStyle.Render(pad(truncate(d.Mountpoint, 12), 12)),
			ProgressBar(barWidth, d.UsedPercent),
			MetricStyle(d.UsedPercent).Render(fmt.Sprintf("%5.1f%%", d.UsedPercent)),
			MutedStyle.Render(fmt.Sprintf("%s free / %s", FormatBytes(d.FreeBytes), FormatBytes(d.TotalBytes)))), i})
	}
	return s
}

// barWidthFor sizes progress bars to leave room for a label and a value.
func barWidthFor(panelWidth int) int {
	w := (panelWidth - 4) - 28
	if w < 10 {
		w = 10
	}
	if w > 40 {
		w = 40
	}
	return w
}

func labelled(label, value string) string {
	return LabelStyle.Render(pad(label, 9)) + " " + ValueStyle.Render(value)
}

// pad right-pads s to width cells.
func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
