package render

import "github.com/rileyhilliard/sysview/internal/metrics"

// DefaultHistorySize is how many ticks of CPU and memory usage are kept for
// the sparklines.
const DefaultHistorySize = 60

// History keeps recent CPU and memory percentages. It is owned by the Display
// and only touched from the tick loop.
type History struct {
	cpu *ringBuffer
	mem *ringBuffer
}

// NewHistory creates a history holding up to size samples per metric.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{cpu: newRingBuffer(size), mem: newRingBuffer(size)}
}

// Push records the snapshot's CPU and memory usage. Unavailable readings are
// skipped rather than recorded as zero.
func (h *History) Push(snap metrics.Snapshot) {
	if snap.CPU.Available() {
		h.cpu.push(snap.CPU.Value.Percent)
	}
	if snap.Memory.Available() {
		h.mem.push(snap.Memory.Value.Percent)
	}
}

// CPU returns up to n CPU samples, oldest first.
func (h *History) CPU(n int) []float64 { return h.cpu.last(n) }

// Memory returns up to n memory samples, oldest first.
func (h *History) Memory(n int) []float64 { return h.mem.last(n) }

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{data: make([]float64, size)}
}

func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % len(r.data)
	if r.count < len(r.data) {
		r.count++
	}
}

// last returns the newest n values in chronological order.
func (r *ringBuffer) last(n int) []float64 {
	if n <= 0 || r.count == 0 {
		return nil
	}
	if n > r.count {
		n = r.count
	}

	size := len(r.data)
	out := make([]float64, n)
	start := (r.head - n + size) % size
	for i := range out {
		out[i] = r.data[(start+i)%size]
	}
	return out
}
