package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
)

// DefaultCPUSampleWindow is the blocking window used to measure per-core usage.
// It is the only intentionally blocking call inside a tick.
const DefaultCPUSampleWindow = 100 * time.Millisecond

// CPUSource samples CPU utilization, frequency, and core count.
type CPUSource struct {
	window  time.Duration
	percent func(ctx context.Context, window time.Duration, perCPU bool) ([]float64, error)
	counts  func(ctx context.Context, logical bool) (int, error)
	info    func(ctx context.Context) ([]cpu.InfoStat, error)

	cores int
}

// NewCPUSource creates a CPU source that blocks for window while sampling.
func NewCPUSource(window time.Duration) *CPUSource {
	if window <= 0 {
		window = DefaultCPUSampleWindow
	}
	return &CPUSource{
		window:  window,
		percent: cpu.PercentWithContext,
		counts:  cpu.CountsWithContext,
		info:    cpu.InfoWithContext,
	}
}

// Sample measures per-core utilization over the sampling window and derives
// the overall percentage as the mean across cores.
func (s *CPUSource) Sample(ctx context.Context) (CPUStats, error) {
	perCore, err := s.percent(ctx, s.window, true)
	if err != nil {
		return CPUStats{}, fmt.Errorf("sampling per-core cpu: %w", err)
	}

	stats := CPUStats{
		PerCore: perCore,
		Percent: mean(perCore),
		Cores:   len(perCore),
	}

	if s.cores == 0 {
		if n, err := s.counts(ctx, true); err == nil {
			s.cores = n
		}
	}
	if s.cores > 0 {
		stats.Cores = s.cores
	}

	// Frequency is informational; a failure here leaves it at zero.
	if infos, err := s.info(ctx); err == nil && len(infos) > 0 {
		var total float64
		for _, info := range infos {
			total += info.Mhz
		}
		stats.FrequencyMHz = total / float64(len(infos))
	}

	return stats, nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
