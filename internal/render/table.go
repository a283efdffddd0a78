package render

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/sysview/internal/metrics"
)

// Fixed process table column widths. The name column takes the rest.
const (
	colPID    = 7
	colCPU    = 7
	colMem    = 6
	colStatus = 9
	// cellPadding is the horizontal padding bubbles/table adds to each cell.
	cellPadding = 2
)

// SelectedRowStyle highlights the selected process in select mode.
var SelectedRowStyle = lipgloss.NewStyle().
	Foreground(ColorSurfaceBg).
	Background(ColorAccent).
	Bold(true)

// processTable renders procs as a bubbles table of the given width. When
// selected is negative no row is highlighted.
func processTable(procs []metrics.ProcessInfo, width, selected int) string {
	nameWidth := width - (colPID + colCPU + colMem + colStatus) - 5*cellPadding
	if nameWidth < 6 {
		nameWidth = 6
	}

	cols := []table.Column{
		{Title: "PID", Width: colPID},
		{Title: "NAME", Width: nameWidth},
		{Title: "CPU%", Width: colCPU},
		{Title: "MEM%", Width: colMem},
		{Title: "STATUS", Width: colStatus},
	}

	rows := make([]table.Row, len(procs))
	for i, p := range procs {
		rows[i] = table.Row{
			fmt.Sprintf("%d", p.PID),
			p.Name,
			fmt.Sprintf("%.1f", p.CPUPercent),
			fmt.Sprintf("%.1f", p.MemPercent),
			p.Status,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorTextSecondary)
	s.Cell = s.Cell.
		Foreground(ColorTextPrimary)
	if selected >= 0 && selected < len(rows) {
		s.Selected = SelectedRowStyle
		t.SetCursor(selected)
	} else {
		s.Selected = lipgloss.NewStyle()
	}
	t.SetStyles(s)

	return t.View()
}
