package metrics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// DefaultTopProcesses is the number of process rows kept per snapshot.
const DefaultTopProcesses = 10

// processHandle is the part of *process.Process that ListTop reads.
type processHandle interface {
	NameWithContext(ctx context.Context) (string, error)
	PercentWithContext(ctx context.Context, interval time.Duration) (float64, error)
	MemoryInfoWithContext(ctx context.Context) (*process.MemoryInfoStat, error)
	StatusWithContext(ctx context.Context) ([]string, error)
}

// SystemProcessSource lists processes through gopsutil. It keeps one handle
// per live PID so CPU percentages are measured between consecutive ticks
// rather than averaged over each process lifetime.
type SystemProcessSource struct {
	pids        func(ctx context.Context) ([]int32, error)
	open        func(ctx context.Context, pid int32) (processHandle, error)
	totalMemory func(ctx context.Context) (uint64, error)

	handles map[int32]processHandle
}

// NewSystemProcessSource creates a process source with an empty handle cache.
func NewSystemProcessSource() *SystemProcessSource {
	return &SystemProcessSource{
		pids: process.PidsWithContext,
		open: func(ctx context.Context, pid int32) (processHandle, error) {
			return process.NewProcessWithContext(ctx, pid)
		},
		totalMemory: func(ctx context.Context) (uint64, error) {
			vm, err := mem.VirtualMemoryWithContext(ctx)
			if err != nil {
				return 0, err
			}
			return vm.Total, nil
		},
		handles: make(map[int32]processHandle),
	}
}

// ListTop returns the n busiest processes. Processes that exit or deny access
// while being read are skipped; the first tick after a process appears reports
// 0% CPU for it because no delta base exists yet. Total memory is read once
// per call and memory usage is resident size over that total.
func (s *SystemProcessSource) ListTop(ctx context.Context, n int) ([]ProcessInfo, error) {
	pids, err := s.pids(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}
	total, err := s.totalMemory(ctx)
	if err != nil {
		// Rows still carry CPU and status; memory reads as zero.
		total = 0
	}

	seen := make(map[int32]processHandle, len(pids))
	infos := make([]ProcessInfo, 0, len(pids))
	for _, pid := range pids {
		p, ok := s.handles[pid]
		if !ok {
			if p, err = s.open(ctx, pid); err != nil {
				continue
			}
		}

		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		seen[pid] = p
		cpuPct, _ := p.PercentWithContext(ctx, 0)

		infos = append(infos, ProcessInfo{
			PID:        pid,
			Name:       name,
			CPUPercent: cpuPct,
			MemPercent: memPercent(ctx, p, total),
			Status:     processStatus(ctx, p),
		})
	}
	s.handles = seen

	return TopByCPU(infos, n), nil
}

func memPercent(ctx context.Context, p processHandle, total uint64) float64 {
	if total == 0 {
		return 0
	}
	info, err := p.MemoryInfoWithContext(ctx)
	if err != nil || info == nil {
		return 0
	}
	return float64(info.RSS) / float64(total) * 100
}

// TopByCPU sorts processes by CPU usage descending (PID ascending on ties)
// and truncates to n entries.
func TopByCPU(procs []ProcessInfo, n int) []ProcessInfo {
	sort.SliceStable(procs, func(i, j int) bool {
		if procs[i].CPUPercent != procs[j].CPUPercent {
			return procs[i].CPUPercent > procs[j].CPUPercent
		}
		return procs[i].PID < procs[j].PID
	})
	if n >= 0 && len(procs) > n {
		procs = procs[:n]
	}
	return procs
}

func processStatus(ctx context.Context, p processHandle) string {
	status, err := p.StatusWithContext(ctx)
	if err != nil || len(status) == 0 {
		return "unknown"
	}
	return strings.Join(status, ",")
}
