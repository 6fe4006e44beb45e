// Package profile times and memory-samples a single loader invocation.
//
// Each benchmark entry runs its function twice: once for wall-clock time and
// once, independently, for peak memory. Side-effecting functions (every
// loader strategy drops and recreates the staging table) therefore execute
// twice per entry; that is a declared property of the measurement, not an
// accident.
package profile

import (
	"fmt"
	"log"
	"runtime"
	"time"
)

// Measurement is one benchmark sample. Nothing persists it; it is printed
// for human inspection and returned to the caller.
type Measurement struct {
	Name         string
	Params       string
	Elapsed      time.Duration
	PeakMemDelta uint64 // bytes above the pre-run heap baseline
}

// Profiler holds the sampling knobs. The zero value is unusable; use New.
type Profiler struct {
	// SampleInterval is the pause between heap samples during the memory
	// pass.
	SampleInterval time.Duration

	// MemTimeout caps the memory pass. If the function is still running
	// when it expires, the peak observed so far is reported and a warning
	// logged. Best effort only: the function itself cannot be cancelled.
	MemTimeout time.Duration
}

func New() *Profiler {
	return &Profiler{
		SampleInterval: time.Millisecond,
		MemTimeout:     200 * time.Second,
	}
}

// Measure runs fn once for elapsed time and once more for peak memory,
// prints a report, and returns both measurements. fn's error aborts the
// measurement immediately.
func (p *Profiler) Measure(name, params string, fn func() error) (*Measurement, error) {
	fmt.Printf("\n%s(%s)\n", name, params)

	start := time.Now()
	if err := fn(); err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	fmt.Printf("Time %.4fs\n", elapsed.Seconds())

	peakDelta, err := p.sampleMemory(fn)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Memory %.2f MiB\n", float64(peakDelta)/(1024*1024))

	return &Measurement{
		Name:         name,
		Params:       params,
		Elapsed:      elapsed,
		PeakMemDelta: peakDelta,
	}, nil
}

// sampleMemory runs fn while a sampler goroutine polls the heap at the
// configured interval, and returns the peak heap size observed minus the
// baseline taken just before the run.
func (p *Profiler) sampleMemory(fn func() error) (uint64, error) {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	baseline := stats.HeapAlloc

	done := make(chan struct{})
	peakCh := make(chan uint64, 1)
	go func() {
		peak := baseline
		ticker := time.NewTicker(p.SampleInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				peakCh <- peak
				return
			case <-ticker.C:
				var m runtime.MemStats
				runtime.ReadMemStats(&m)
				if m.HeapAlloc > peak {
					peak = m.HeapAlloc
				}
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()

	var err error
	select {
	case err = <-errCh:
	case <-time.After(p.MemTimeout):
		log.Printf("WARN: memory pass still running after %s, reporting peak so far", p.MemTimeout)
	}
	close(done)
	peak := <-peakCh

	if err != nil {
		return 0, err
	}
	if peak < baseline {
		return 0, nil
	}
	return peak - baseline, nil
}
