package metrics

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/mem"
)

// MemorySource samples physical memory usage.
type MemorySource struct{}

// Sample reads virtual memory statistics.
func (MemorySource) Sample(ctx context.Context) (MemoryStats, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryStats{}, fmt.Errorf("reading memory: %w", err)
	}
	return MemoryStats{
		UsedBytes:  vm.Used,
		TotalBytes: vm.Total,
		Percent:    vm.UsedPercent,
	}, nil
}

// SwapSource samples swap usage.
type SwapSource struct{}

// Sample reads swap statistics. A host without swap is reported as present=false,
// not as an error.
func (SwapSource) Sample(ctx context.Context) (SwapStats, error) {
	sw, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		return SwapStats{}, fmt.Errorf("reading swap: %w", err)
	}
	return SwapStats{
		UsedBytes:  sw.Used,
		TotalBytes: sw.Total,
		Percent:    sw.UsedPercent,
		Present:    sw.Total > 0,
	}, nil
}
