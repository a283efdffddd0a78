package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/sysview/internal/interact"
)

// Dashboard color palette
const (
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	// Semantic colors for metrics
	ColorHealthy  = lipgloss.Color("#39FF14")
	ColorWarning  = lipgloss.Color("#FFAA00")
	ColorCritical = lipgloss.Color("#FF0055")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent    = lipgloss.Color("#FF2E97")
	ColorAccentDim = lipgloss.Color("#BF40FF")
	ColorValue     = lipgloss.Color("#00FFFF")
)

// Thresholds for metric severity levels
const (
	WarningThreshold  = 70.0
	CriticalThreshold = 90.0
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	// UnavailableStyle marks a section whose source produced no data.
	UnavailableStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Italic(true)

	PromptStyle = lipgloss.NewStyle().
			Foreground(ColorCritical).
			Bold(true)

	borderStyle = lipgloss.NewStyle().Foreground(ColorBorder)
	titleStyle  = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	valueStyle  = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
)

// MetricColor returns the color for a percentage: green below 70%, amber
// from 70%, red from 90%.
func MetricColor(percent float64) lipgloss.Color {
	switch {
	case percent >= CriticalThreshold:
		return ColorCritical
	case percent >= WarningThreshold:
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// MetricStyle returns a style with the appropriate foreground color for the metric.
func MetricStyle(percent float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(MetricColor(percent))
}

// SeverityStyle colours a status message.
func SeverityStyle(sev interact.Severity) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch sev {
	case interact.SeveritySuccess:
		return s.Foreground(ColorHealthy)
	case interact.SeverityWarning:
		return s.Foreground(ColorWarning)
	case interact.SeverityError:
		return s.Foreground(ColorCritical)
	default:
		return s.Foreground(ColorValue)
	}
}

// ProgressBar renders a bar of width cells filled to percent, coloured by
// threshold.
func ProgressBar(width int, percent float64) string {
	if width < 1 {
		width = 1
	}
	percent = clampPercent(percent)

	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
	return MetricStyle(percent).Render(bar)
}

// ThinProgressBar is a one-line bar for dense rows such as per-core usage.
func ThinProgressBar(width int, percent float64) string {
	if width < 1 {
		width = 1
	}
	percent = clampPercent(percent)

	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
	return MetricStyle(percent).Render(bar)
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// SectionHeader renders the top border of a panel with the title on the left
// and an optional value on the right.
// Format: ╭─ Title ───────────────────── Value ─╮
func SectionHeader(title, value string, width int) string {
	if width < 10 {
		width = 10
	}

	leftWidth := 3 + lipgloss.Width(title) + 1
	// "─╮", or " value ─╮"
	rightWidth := 2
	if value != "" {
		rightWidth = 1 + lipgloss.Width(value) + 3
	}

	fillWidth := width - leftWidth - rightWidth
	if fillWidth < 1 {
		fillWidth = 1
	}
	middle := strings.Repeat("─", fillWidth)

	if value == "" {
		return borderStyle.Render("╭─ ") +
			titleStyle.Render(title) +
			borderStyle.Render(" "+middle+"─╮")
	}
	return borderStyle.Render("╭─ ") +
		titleStyle.Render(title) +
		borderStyle.Render(" "+middle+" ") +
		valueStyle.Render(value) +
		borderStyle.Render(" ─╮")
}

// SectionFooter renders the bottom border of a panel.
func SectionFooter(width int) string {
	if width < 2 {
		width = 2
	}
	return borderStyle.Render("╰" + strings.Repeat("─", width-2) + "╯")
}

// SectionContentLine renders one bordered content line padded to width.
// Content wider than the panel is truncated.
func SectionContentLine(content string, width int) string {
	if width < 4 {
		width = 4
	}
	innerWidth := width - 4
	content = truncate(content, innerWidth)

	padding := innerWidth - lipgloss.Width(content)
	if padding < 0 {
		padding = 0
	}
	return borderStyle.Render("│") + " " + content + strings.Repeat(" ", padding) + " " + borderStyle.Render("│")
}

// Panel renders a titled, bordered box around lines.
func Panel(title, value string, lines []string, width int) string {
	out := make([]string, 0, len(lines)+2)
	out = append(out, SectionHeader(title, value, width))
	for _, l := range lines {
		out = append(out, SectionContentLine(l, width))
	}
	out = append(out, SectionFooter(width))
	return strings.Join(out, "\n")
}
