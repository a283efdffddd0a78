package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparkBlocks are the eight bar heights, lowest first.
var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws percentages on a fixed 0-100 scale so heights stay
// comparable between frames. Only the newest width points are shown, colored
// by the latest value.
func Sparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	var sb strings.Builder
	sb.Grow(len(data) * 3)
	top := len(sparkBlocks) - 1
	for _, v := range data {
		level := int(clampPercent(v) / 100 * float64(top))
		sb.WriteRune(sparkBlocks[level])
	}

	last := data[len(data)-1]
	return lipgloss.NewStyle().Foreground(MetricColor(last)).Render(sb.String())
}
