package metrics

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"
)

// DefaultMaxDisks bounds the number of partitions reported per snapshot.
const DefaultMaxDisks = 5

// DiskSource samples usage for mounted physical partitions.
type DiskSource struct {
	limit      int
	partitions func(ctx context.Context) ([]disk.PartitionStat, error)
	usage      func(ctx context.Context, path string) (*disk.UsageStat, error)
}

// NewDiskSource creates a disk source reporting at most limit partitions.
func NewDiskSource(limit int) *DiskSource {
	if limit <= 0 {
		limit = DefaultMaxDisks
	}
	return &DiskSource{
		limit: limit,
		partitions: func(ctx context.Context) ([]disk.PartitionStat, error) {
			return disk.PartitionsWithContext(ctx, false)
		},
		usage: disk.UsageWithContext,
	}
}

// Sample lists partitions in mount order and reads usage for each. Partitions
// that cannot be read (permission denied, stale mounts) are skipped so one bad
// mount never hides the others.
func (s *DiskSource) Sample(ctx context.Context) ([]DiskUsage, error) {
	parts, err := s.partitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing partitions: %w", err)
	}

	disks := make([]DiskUsage, 0, s.limit)
	for _, p := range parts {
		if len(disks) >= s.limit {
			break
		}
		u, err := s.usage(ctx, p.Mountpoint)
		if err != nil || u == nil || u.Total == 0 {
			continue
		}
		disks = append(disks, DiskUsage{
			Device:      p.Device,
			Mountpoint:  p.Mountpoint,
			UsedPercent: float64(u.Used) / float64(u.Total) * 100,
			FreeBytes:   u.Free,
			TotalBytes:  u.Total,
		})
	}
	return disks, nil
}
