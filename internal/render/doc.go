// Package render draws the dashboard.
//
// Renderer is a pure function of a metrics.Snapshot and an interact.View: it
// lays out lipgloss panels, a bubbles process table, and a mode-dependent
// key help footer. Screen owns the terminal output, redrawing each frame in
// place on the alternate screen via termenv.
package render
