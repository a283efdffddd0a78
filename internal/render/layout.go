package render

import (
	"cmp"
	"slices"
	"strings"
)

// Section priorities. When the terminal is short the lowest priorities are
// hidden first and the highest are grown first.
const (
	prioDisk = iota + 1
	prioGPU
	prioNetwork
	prioSystem
	prioCPU
	prioProcess
)

// minProcessRows is how many process rows survive before other panels are
// hidden to make room.
const minProcessRows = 5

// row is one content line of a panel. Rows with a higher rank are dropped
// first when the panel has to shrink.
type row struct {
	text string
	rank int
}

// rowsOf gives every line the same rank.
func rowsOf(rank int, lines ...string) []row {
	out := make([]row, len(lines))
	for i, l := range lines {
		out[i] = row{text: l, rank: rank}
	}
	return out
}

// section is a panel before it has been fitted to the terminal height.
type section struct {
	title string
	value string
	// head lines are always shown, above the rows.
	head []string
	rows []row
	// keep is the smallest number of rows worth showing.
	keep     int
	priority int
	// pinned sections are never hidden.
	pinned bool
}

func (s section) minRows() int {
	return min(s.keep, len(s.rows))
}

// height is the panel's line count with n rows, borders included.
func (s section) height(n int) int {
	return 2 + len(s.head) + n
}

func (s section) render(width, n int) string {
	lines := make([]string, 0, len(s.head)+n)
	lines = append(lines, s.head...)
	lines = append(lines, s.topRows(n)...)
	return Panel(s.title, s.value, lines, width)
}

// topRows returns the n lowest ranked rows in their original order.
func (s section) topRows(n int) []string {
	idx := make([]int, len(s.rows))
	for i := range idx {
		idx[i] = i
	}
	if n < len(idx) {
		slices.SortStableFunc(idx, func(a, b int) int {
			return cmp.Compare(s.rows[a].rank, s.rows[b].rank)
		})
		idx = idx[:max(n, 0)]
		slices.Sort(idx)
	}

	out := make([]string, len(idx))
	for k, i := range idx {
		out[k] = s.rows[i].text
	}
	return out
}

// fitColumn stacks secs into at most height lines. Every section starts at
// its smallest size; unpinned sections are hidden lowest priority first until
// the rest fit, then spare lines go to the highest priorities.
func fitColumn(secs []section, width, height int) string {
	shown := make([]int, len(secs))
	visible := make([]bool, len(secs))
	total := 0
	for i, s := range secs {
		shown[i] = s.minRows()
		visible[i] = true
		total += s.height(shown[i])
	}

	order := make([]int, len(secs))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(secs[a].priority, secs[b].priority)
	})

	for _, i := range order {
		if total <= height {
			break
		}
		if secs[i].pinned {
			continue
		}
		visible[i] = false
		total -= secs[i].height(shown[i])
	}

	for k := len(order) - 1; k >= 0; k-- {
		i := order[k]
		if !visible[i] {
			continue
		}
		if grow := min(len(secs[i].rows)-shown[i], height-total); grow > 0 {
			shown[i] += grow
			total += grow
		}
	}

	var panels []string
	for i, s := range secs {
		if visible[i] {
			panels = append(panels, s.render(width, shown[i]))
		}
	}
	return clipLines(strings.Join(panels, "\n"), height)
}

// clipLines keeps the first n lines of s.
func clipLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n")
}
