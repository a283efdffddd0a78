package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/rileyhilliard/sysview/internal/interact"
	"github.com/rileyhilliard/sysview/internal/metrics"
)

// Screen presents frames on a terminal, redrawing in place.
type Screen struct {
	out  *termenv.Output
	w    io.Writer
	size func() (int, int, error)
}

// NewScreen creates a screen writing to f, sized from f's terminal.
func NewScreen(f *os.File) *Screen {
	fd := int(f.Fd())
	return newScreen(f, func() (int, int, error) { return term.GetSize(fd) })
}

func newScreen(w io.Writer, size func() (int, int, error)) *Screen {
	return &Screen{out: termenv.NewOutput(w), w: w, size: size}
}

// Start switches to the alternate screen and hides the cursor.
func (s *Screen) Start() {
	s.out.AltScreen()
	s.out.HideCursor()
	s.out.ClearScreen()
}

// Stop restores the cursor and the primary screen. Safe to call more than once.
func (s *Screen) Stop() {
	s.out.ShowCursor()
	s.out.ExitAltScreen()
}

// Size returns the terminal dimensions, or zeros when unknown.
func (s *Screen) Size() (width, height int) {
	w, h, err := s.size()
	if err != nil {
		return 0, 0
	}
	return w, h
}

// Present draws frame from the top-left corner. Lines end in CRLF because raw
// mode disables output post-processing. A frame taller than the terminal
// loses body lines, never the footer, and anything left over from the
// previous frame is erased.
func (s *Screen) Present(frame string) error {
	lines := strings.Split(strings.TrimRight(frame, "\n"), "\n")
	if _, h := s.Size(); h > 0 && len(lines) > h {
		lines = clipBody(lines, h)
	}

	var b strings.Builder
	b.WriteString(termenv.CSI + fmt.Sprintf(termenv.CursorPositionSeq, 1, 1))
	for i, line := range lines {
		b.WriteString(line)
		b.WriteString(termenv.CSI + termenv.EraseLineRightSeq)
		if i < len(lines)-1 {
			b.WriteString("\r\n")
		}
	}
	b.WriteString(termenv.CSI + fmt.Sprintf(termenv.EraseDisplaySeq, 0))

	_, err := io.WriteString(s.w, b.String())
	return err
}

// clipBody shortens lines to h by dropping the lines just above the footer.
func clipBody(lines []string, h int) []string {
	tail := min(FooterHeight, h)
	out := make([]string, 0, h)
	out = append(out, lines[:h-tail]...)
	return append(out, lines[len(lines)-tail:]...)
}

// Display couples a Renderer with a Screen, resizing the layout to the
// terminal before each frame. It also owns the usage history behind the
// sparklines.
type Display struct {
	renderer *Renderer
	screen   *Screen
	history  *History
}

// NewDisplay creates a display drawing on screen.
func NewDisplay(renderer *Renderer, screen *Screen) *Display {
	h := NewHistory(DefaultHistorySize)
	renderer.SetHistory(h)
	return &Display{renderer: renderer, screen: screen, history: h}
}

// Record adds snap's CPU and memory usage to the sparkline history.
func (d *Display) Record(snap metrics.Snapshot) {
	d.history.Push(snap)
}

// Render lays out one frame at the current terminal size.
func (d *Display) Render(snap metrics.Snapshot, view interact.View) string {
	d.renderer.SetSize(d.screen.Size())
	return d.renderer.Render(snap, view)
}

// Present draws a rendered frame.
func (d *Display) Present(frame string) error {
	return d.screen.Present(frame)
}
