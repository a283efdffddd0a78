package metrics

import "time"

// Reading is one domain's contribution to a Snapshot. Err is non-nil when the
// source could not produce data for this tick; Value is then the zero value
// and must not be displayed as a measurement.
type Reading[T any] struct {
	Value T
	Err   error
}

// Available reports whether the reading holds real data.
func (r Reading[T]) Available() bool {
	return r.Err == nil
}

// Snapshot is the immutable aggregate of every metric domain for one tick.
type Snapshot struct {
	TakenAt   time.Time
	System    Reading[SystemInfo]
	CPU       Reading[CPUStats]
	Memory    Reading[MemoryStats]
	Swap      Reading[SwapStats]
	Network   Reading[NetworkStats]
	Disks     Reading[[]DiskUsage]
	GPUs      Reading[[]GPUStats]
	Processes Reading[[]ProcessInfo]
}

// ProcessList returns the process rows of the snapshot, or nil when the
// process source was unavailable.
func (s Snapshot) ProcessList() []ProcessInfo {
	if !s.Processes.Available() {
		return nil
	}
	return s.Processes.Value
}

// SystemInfo contains general host information.
type SystemInfo struct {
	Hostname string
	OS       string
	Platform string
	Kernel   string
	Arch     string
	Uptime   time.Duration
	User     string
}

// CPUStats contains CPU usage information.
type CPUStats struct {
	Percent      float64
	PerCore      []float64 // nil when per-core sampling failed
	FrequencyMHz float64
	Cores        int
}

// MemoryStats contains physical memory usage.
type MemoryStats struct {
	UsedBytes  uint64
	TotalBytes uint64
	Percent    float64
}

// SwapStats contains swap usage. Present is false on hosts without swap.
type SwapStats struct {
	UsedBytes  uint64
	TotalBytes uint64
	Percent    float64
	Present    bool
}

// NetworkStats contains host-wide network counters and derived throughput.
type NetworkStats struct {
	UploadBytesPerSec   float64
	DownloadBytesPerSec float64
	TotalSent           uint64
	TotalRecv           uint64
	PacketsSent         uint64
	PacketsRecv         uint64
	ActiveInterfaces    []string
}

// DiskUsage contains usage for a single mounted partition.
type DiskUsage struct {
	Device      string
	Mountpoint  string
	UsedPercent float64
	FreeBytes   uint64
	TotalBytes  uint64
}

// GPUStats contains usage for a single GPU. Nil power fields mean the driver
// did not report them.
type GPUStats struct {
	Name            string
	UtilPercent     float64
	MemUsedMB       int64
	MemTotalMB      int64
	TempC           int
	PowerWatts      *float64
	PowerLimitWatts *float64
}

// MemPercent returns GPU memory usage as a percentage of total.
func (g GPUStats) MemPercent() float64 {
	if g.MemTotalMB <= 0 {
		return 0
	}
	return float64(g.MemUsedMB) / float64(g.MemTotalMB) * 100
}

// ProcessInfo is one row of the process table. It is captured once per tick
// and may already be stale when acted upon.
type ProcessInfo struct {
	PID        int32
	Name       string
	CPUPercent float64
	MemPercent float64
	Status     string
}
