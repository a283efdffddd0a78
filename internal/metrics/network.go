package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/net"
)

// DefaultMaxInterfaces bounds the number of active interface names reported.
const DefaultMaxInterfaces = 3

// Counters is a point-in-time reading of cumulative network byte counters.
type Counters struct {
	BytesSent uint64
	BytesRecv uint64
}

// Throughput converts two counter readings into upload and download rates in
// bytes per second. A non-positive elapsed time (clock anomaly, first sample)
// or a counter that went backwards (wrap, interface reset) yields zero.
func Throughput(prev, cur Counters, elapsed time.Duration) (upload, download float64) {
	secs := elapsed.Seconds()
	if secs <= 0 {
		return 0, 0
	}
	if cur.BytesSent >= prev.BytesSent {
		upload = float64(cur.BytesSent-prev.BytesSent) / secs
	}
	if cur.BytesRecv >= prev.BytesRecv {
		download = float64(cur.BytesRecv-prev.BytesRecv) / secs
	}
	return upload, download
}

// NetworkSource samples host-wide network counters. It keeps the previous
// sample and its timestamp as the delta base for throughput; nothing older is
// retained.
type NetworkSource struct {
	maxInterfaces int
	now           func() time.Time
	counters      func(ctx context.Context) ([]net.IOCountersStat, error)
	interfaces    func(ctx context.Context) (net.InterfaceStatList, error)

	prev   Counters
	prevAt time.Time
}

// NewNetworkSource creates a network source reporting at most maxInterfaces
// active interface names.
func NewNetworkSource(maxInterfaces int) *NetworkSource {
	if maxInterfaces <= 0 {
		maxInterfaces = DefaultMaxInterfaces
	}
	return &NetworkSource{
		maxInterfaces: maxInterfaces,
		now:           time.Now,
		counters: func(ctx context.Context) ([]net.IOCountersStat, error) {
			return net.IOCountersWithContext(ctx, false)
		},
		interfaces: net.InterfacesWithContext,
	}
}

// Sample reads aggregate counters and computes throughput against the
// previous sample.
func (s *NetworkSource) Sample(ctx context.Context) (NetworkStats, error) {
	stats, err := s.counters(ctx)
	if err != nil {
		return NetworkStats{}, fmt.Errorf("reading network counters: %w", err)
	}
	if len(stats) == 0 {
		return NetworkStats{}, fmt.Errorf("reading network counters: %w", ErrUnavailable)
	}
	total := stats[0]
	now := s.now()

	cur := Counters{BytesSent: total.BytesSent, BytesRecv: total.BytesRecv}
	var up, down float64
	if !s.prevAt.IsZero() {
		up, down = Throughput(s.prev, cur, now.Sub(s.prevAt))
	}
	s.prev = cur
	s.prevAt = now

	result := NetworkStats{
		UploadBytesPerSec:   up,
		DownloadBytesPerSec: down,
		TotalSent:           total.BytesSent,
		TotalRecv:           total.BytesRecv,
		PacketsSent:         total.PacketsSent,
		PacketsRecv:         total.PacketsRecv,
	}

	// Interface names are decoration; failing to list them keeps the counters.
	if ifaces, err := s.interfaces(ctx); err == nil {
		result.ActiveInterfaces = activeInterfaces(ifaces, s.maxInterfaces)
	}

	return result, nil
}

func activeInterfaces(ifaces net.InterfaceStatList, max int) []string {
	var names []string
	for _, iface := range ifaces {
		if len(names) >= max {
			break
		}
		for _, flag := range iface.Flags {
			if flag == "up" {
				names = append(names, iface.Name)
				break
			}
		}
	}
	return names
}
