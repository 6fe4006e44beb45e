package profile

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProfiler() *Profiler {
	p := New()
	p.SampleInterval = 100 * time.Microsecond
	p.MemTimeout = 5 * time.Second
	return p
}

// The harness runs the callable twice: one pass for time, one for memory.
// A side-effecting loader therefore executes twice per benchmark entry.
func TestMeasureInvokesFunctionTwice(t *testing.T) {
	p := newTestProfiler()

	calls := 0
	m, err := p.Measure("insert_batch", "", func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "insert_batch", m.Name)
}

func TestMeasureElapsedCoversOneExecution(t *testing.T) {
	p := newTestProfiler()

	m, err := p.Measure("copy_buffer", "size=1024", func() error {
		time.Sleep(20 * time.Millisecond)
		return nil
	})

	require.NoError(t, err)
	assert.GreaterOrEqual(t, m.Elapsed, 20*time.Millisecond)
	assert.Less(t, m.Elapsed, 200*time.Millisecond)
	assert.Equal(t, "size=1024", m.Params)
}

func TestMeasureReportsAllocationPeak(t *testing.T) {
	p := newTestProfiler()

	// Each pass retains another buffer, so the memory pass is guaranteed to
	// peak well above the baseline taken after the time pass.
	var retained [][]byte
	m, err := p.Measure("alloc", "", func() error {
		buf := make([]byte, 64*1024*1024)
		for i := range buf {
			buf[i] = byte(i)
		}
		retained = append(retained, buf)
		time.Sleep(10 * time.Millisecond)
		return nil
	})

	require.NoError(t, err)
	assert.Len(t, retained, 2)
	assert.Greater(t, m.PeakMemDelta, uint64(32*1024*1024))
}

func TestMeasureAbortsOnTimePassError(t *testing.T) {
	p := newTestProfiler()
	loadErr := errors.New("load failed")

	calls := 0
	m, err := p.Measure("failing", "", func() error {
		calls++
		return loadErr
	})

	assert.Nil(t, m)
	assert.ErrorIs(t, err, loadErr)
	assert.Equal(t, 1, calls, "memory pass must not run after the time pass fails")
}

func TestMeasureSurfacesMemoryPassError(t *testing.T) {
	p := newTestProfiler()
	loadErr := errors.New("load failed")

	calls := 0
	m, err := p.Measure("flaky", "", func() error {
		calls++
		if calls == 2 {
			return loadErr
		}
		return nil
	})

	assert.Nil(t, m)
	assert.ErrorIs(t, err, loadErr)
}

func TestMeasureMemoryTimeoutReportsPeakSoFar(t *testing.T) {
	p := newTestProfiler()
	p.MemTimeout = 10 * time.Millisecond

	release := make(chan struct{})
	defer close(release)

	calls := 0
	m, err := p.Measure("runaway", "", func() error {
		calls++
		if calls == 2 {
			<-release // memory pass overruns the cap
		}
		return nil
	})

	require.NoError(t, err)
	require.NotNil(t, m)
}
