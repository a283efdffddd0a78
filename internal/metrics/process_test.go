package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v4/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandle struct {
	name    string
	nameErr error
	cpu     float64
	rss     uint64
	status  []string
}

func (f *fakeHandle) NameWithContext(context.Context) (string, error) { return f.name, f.nameErr }

func (f *fakeHandle) PercentWithContext(context.Context, time.Duration) (float64, error) {
	return f.cpu, nil
}

func (f *fakeHandle) MemoryInfoWithContext(context.Context) (*process.MemoryInfoStat, error) {
	return &process.MemoryInfoStat{RSS: f.rss}, nil
}

func (f *fakeHandle) StatusWithContext(context.Context) ([]string, error) {
	if f.status == nil {
		return nil, errors.New("no status")
	}
	return f.status, nil
}

// fakeProcTable serves a mutable PID list and counts handle opens.
type fakeProcTable struct {
	live       map[int32]*fakeHandle
	pids       []int32
	opens      map[int32]int
	totalCalls int
	total      uint64
}

func newFakeProcTable(total uint64) *fakeProcTable {
	return &fakeProcTable{live: map[int32]*fakeHandle{}, opens: map[int32]int{}, total: total}
}

func (f *fakeProcTable) add(pid int32, h *fakeHandle) {
	f.live[pid] = h
	f.pids = append(f.pids, pid)
}

func (f *fakeProcTable) remove(pid int32) {
	delete(f.live, pid)
	for i, p := range f.pids {
		if p == pid {
			f.pids = append(f.pids[:i], f.pids[i+1:]...)
			return
		}
	}
}

func (f *fakeProcTable) source() *SystemProcessSource {
	return &SystemProcessSource{
		pids: func(context.Context) ([]int32, error) {
			return append([]int32(nil), f.pids...), nil
		},
		open: func(_ context.Context, pid int32) (processHandle, error) {
			f.opens[pid]++
			h, ok := f.live[pid]
			if !ok {
				return nil, errors.New("process not found")
			}
			return h, nil
		},
		totalMemory: func(context.Context) (uint64, error) {
			f.totalCalls++
			return f.total, nil
		},
		handles: make(map[int32]processHandle),
	}
}

func TestListTop_ReusesHandlesAcrossCalls(t *testing.T) {
	table := newFakeProcTable(1000)
	table.add(1, &fakeHandle{name: "init", cpu: 1, rss: 100, status: []string{"sleep"}})
	table.add(2, &fakeHandle{name: "build", cpu: 80, rss: 250, status: []string{"running"}})
	src := table.source()

	for i := 0; i < 3; i++ {
		_, err := src.ListTop(context.Background(), 10)
		require.NoError(t, err)
	}

	assert.Equal(t, map[int32]int{1: 1, 2: 1}, table.opens, "each PID is opened once")
	assert.Equal(t, 3, table.totalCalls, "total memory is read once per call")
}

func TestListTop_PrunesExitedProcesses(t *testing.T) {
	table := newFakeProcTable(1000)
	table.add(1, &fakeHandle{name: "init", status: []string{"sleep"}})
	table.add(2, &fakeHandle{name: "job", status: []string{"running"}})
	src := table.source()

	_, err := src.ListTop(context.Background(), 10)
	require.NoError(t, err)
	require.Contains(t, src.handles, int32(2))

	table.remove(2)
	procs, err := src.ListTop(context.Background(), 10)
	require.NoError(t, err)

	assert.NotContains(t, src.handles, int32(2))
	require.Len(t, procs, 1)
	assert.Equal(t, int32(1), procs[0].PID)

	// A recycled PID gets a fresh handle.
	table.add(2, &fakeHandle{name: "other", status: []string{"running"}})
	procs, err = src.ListTop(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 2, table.opens[2])
	assert.Len(t, procs, 2)
}

func TestListTop_SkipsUnreadableProcesses(t *testing.T) {
	table := newFakeProcTable(1000)
	table.add(1, &fakeHandle{name: "init", status: []string{"sleep"}})
	table.add(2, &fakeHandle{nameErr: errors.New("permission denied")})
	table.pids = append(table.pids, 3) // listed but gone before it could be opened
	src := table.source()

	procs, err := src.ListTop(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, procs, 1)
	assert.Equal(t, "init", procs[0].Name)
	assert.NotContains(t, src.handles, int32(2), "unreadable handles are not cached")
}

func TestListTop_FillsRows(t *testing.T) {
	table := newFakeProcTable(2000)
	table.add(7, &fakeHandle{name: "db", cpu: 12.5, rss: 500, status: []string{"sleep", "wait"}})
	table.add(8, &fakeHandle{name: "ghost", cpu: 90})

	procs, err := table.source().ListTop(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, procs, 2)
	assert.Equal(t, ProcessInfo{PID: 8, Name: "ghost", CPUPercent: 90, MemPercent: 0, Status: "unknown"}, procs[0])
	assert.Equal(t, ProcessInfo{PID: 7, Name: "db", CPUPercent: 12.5, MemPercent: 25, Status: "sleep,wait"}, procs[1])
}

func TestListTop_Errors(t *testing.T) {
	src := newFakeProcTable(0).source()
	src.pids = func(context.Context) ([]int32, error) { return nil, errors.New("proc not mounted") }

	_, err := src.ListTop(context.Background(), 10)
	assert.ErrorContains(t, err, "listing processes")

	table := newFakeProcTable(0)
	table.add(1, &fakeHandle{name: "init", rss: 100, status: []string{"sleep"}})
	src = table.source()
	src.totalMemory = func(context.Context) (uint64, error) { return 0, errors.New("meminfo unreadable") }

	procs, err := src.ListTop(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, procs, 1)
	assert.Zero(t, procs[0].MemPercent)
}

func TestTopByCPU(t *testing.T) {
	procs := []ProcessInfo{
		{PID: 10, Name: "idle", CPUPercent: 0},
		{PID: 20, Name: "build", CPUPercent: 180.5},
		{PID: 30, Name: "browser", CPUPercent: 12.3},
		{PID: 5, Name: "tie-low-pid", CPUPercent: 12.3},
		{PID: 40, Name: "editor", CPUPercent: 3.1},
	}

	top := TopByCPU(procs, 3)

	assert.Len(t, top, 3)
	assert.Equal(t, int32(20), top[0].PID)
	assert.Equal(t, int32(5), top[1].PID, "ties break on lower PID")
	assert.Equal(t, int32(30), top[2].PID)
}

func TestTopByCPU_FewerThanN(t *testing.T) {
	procs := []ProcessInfo{{PID: 1, CPUPercent: 1}, {PID: 2, CPUPercent: 2}}

	top := TopByCPU(procs, DefaultTopProcesses)

	assert.Len(t, top, 2)
	assert.Equal(t, int32(2), top[0].PID)
}

func TestTopByCPU_Empty(t *testing.T) {
	assert.Empty(t, TopByCPU(nil, 10))
}
