package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	svErrors "github.com/rileyhilliard/sysview/internal/errors"
	"github.com/rileyhilliard/sysview/internal/logger"
)

// errDisabled marks a domain switched off by configuration.
var errDisabled = fmt.Errorf("disabled: %w", ErrUnavailable)

// Sources groups one collaborator per metric domain. A nil source reports its
// domain as unavailable.
type Sources struct {
	System    Source[SystemInfo]
	CPU       Source[CPUStats]
	Memory    Source[MemoryStats]
	Swap      Source[SwapStats]
	Network   Source[NetworkStats]
	Disks     Source[[]DiskUsage]
	GPUs      Source[[]GPUStats]
	Processes ProcessSource
}

// Options configures the gopsutil-backed sources returned by DefaultSources.
type Options struct {
	CPUWindow     time.Duration
	MaxDisks      int
	MaxInterfaces int
	GPU           bool
	GPUTimeout    time.Duration
}

// DefaultSources builds the local-host sources.
func DefaultSources(opts Options) Sources {
	src := Sources{
		System:    SystemSource{},
		CPU:       NewCPUSource(opts.CPUWindow),
		Memory:    MemorySource{},
		Swap:      SwapSource{},
		Network:   NewNetworkSource(opts.MaxInterfaces),
		Disks:     NewDiskSource(opts.MaxDisks),
		Processes: NewSystemProcessSource(),
	}
	if opts.GPU {
		src.GPUs = NewGPUSource(opts.GPUTimeout)
	}
	return src
}

// Aggregator calls every source once per tick and assembles a Snapshot.
type Aggregator struct {
	sources Sources
	topN    int
	now     func() time.Time
	log     logger.Logger
}

// NewAggregator creates an aggregator keeping the topN busiest processes.
func NewAggregator(sources Sources, topN int, log logger.Logger) *Aggregator {
	if topN <= 0 {
		topN = DefaultTopProcesses
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Aggregator{
		sources: sources,
		topN:    topN,
		now:     time.Now,
		log:     log,
	}
}

// Collect samples all domains concurrently and joins them before returning.
// A failing or panicking source only marks its own section unavailable.
func (a *Aggregator) Collect(ctx context.Context) Snapshot {
	snap := Snapshot{TakenAt: a.now()}

	var wg sync.WaitGroup
	sample(ctx, &wg, &snap.System, a.sources.System)
	sample(ctx, &wg, &snap.CPU, a.sources.CPU)
	sample(ctx, &wg, &snap.Memory, a.sources.Memory)
	sample(ctx, &wg, &snap.Swap, a.sources.Swap)
	sample(ctx, &wg, &snap.Network, a.sources.Network)
	sample(ctx, &wg, &snap.Disks, a.sources.Disks)
	sample(ctx, &wg, &snap.GPUs, a.sources.GPUs)

	var procs Source[[]ProcessInfo]
	if a.sources.Processes != nil {
		procs = SourceFunc[[]ProcessInfo](func(ctx context.Context) ([]ProcessInfo, error) {
			return a.sources.Processes.ListTop(ctx, a.topN)
		})
	}
	sample(ctx, &wg, &snap.Processes, procs)

	wg.Wait()

	a.logFailures(snap)
	return snap
}

// sample runs src in its own goroutine, writing only to dst.
func sample[T any](ctx context.Context, wg *sync.WaitGroup, dst *Reading[T], src Source[T]) {
	if src == nil {
		dst.Err = errDisabled
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				*dst = Reading[T]{Err: fmt.Errorf("source panicked: %v", r)}
			}
		}()
		v, err := src.Sample(ctx)
		if err != nil {
			dst.Err = err
			return
		}
		dst.Value = v
	}()
}

// logFailures warns about domains that failed for reasons other than being
// unavailable on this host, in a fixed domain order.
func (a *Aggregator) logFailures(snap Snapshot) {
	failures := []struct {
		domain string
		err    error
	}{
		{"system", snap.System.Err},
		{"cpu", snap.CPU.Err},
		{"memory", snap.Memory.Err},
		{"swap", snap.Swap.Err},
		{"network", snap.Network.Err},
		{"disks", snap.Disks.Err},
		{"gpus", snap.GPUs.Err},
		{"processes", snap.Processes.Err},
	}
	for _, f := range failures {
		if f.err == nil || IsUnavailable(f.err) {
			continue
		}
		err := svErrors.WrapWithCode(f.err, svErrors.ErrCollect, "collect "+f.domain, "")
		a.log.Warn("[%s] %s", err.Code, err.Summary())
	}
}
