// Package metrics collects local host telemetry into immutable snapshots.
//
// Each metric domain (system, CPU, memory, swap, network, disks, GPUs,
// processes) is produced by a Source. The Aggregator calls every source once
// per tick, in parallel, and joins them into a Snapshot:
//
//	Snapshot
//	  System    Reading[SystemInfo]
//	  CPU       Reading[CPUStats]
//	  ...
//	  Processes Reading[[]ProcessInfo]
//
// A Reading carries either a value or the error that prevented it. Sources
// with no backing device (no NVIDIA driver, for example) wrap ErrUnavailable
// so renderers can show a static "unavailable" panel instead of a zero value
// that looks like a measurement.
//
// Most sources are thin wrappers over gopsutil. The GPU source shells out to
// nvidia-smi with a bounded timeout. The network source is the only stateful
// one: it keeps the previous counter sample to compute throughput.
package metrics
