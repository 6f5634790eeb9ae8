package profiler

import (
	"log"
	"runtime"
	"sort"
	"time"
)

// Profiler tracks synchronization pass timing and memory statistics for
// performance monitoring. Outputs stats to the log at a configurable
// interval.
type Profiler struct {
	passCount      int
	passTotal      time.Duration
	passMax        time.Duration
	stageTotals    map[string]time.Duration
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastTotalAlloc uint64
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		stageTotals:    map[string]time.Duration{},
		lastTime:       time.Now(),
		updateInterval: time.Second,
		memStats:       runtime.MemStats{},
	}
}

// BeginPass marks the start of a synchronization pass. The returned function
// ends the measurement and should be deferred.
//
// Returns:
//   - func(): closure that records the pass duration when called
func (p *Profiler) BeginPass() func() {
	start := time.Now()
	return func() {
		elapsed := time.Since(start)
		p.passCount++
		p.passTotal += elapsed
		if elapsed > p.passMax {
			p.passMax = elapsed
		}
	}
}

// Stage records time spent in one named stage of a pass, accumulated across
// passes until the next Tick that logs.
//
// Parameters:
//   - name: the stage label
//
// Returns:
//   - func(): closure that records the stage duration when called
func (p *Profiler) Stage(name string) func() {
	start := time.Now()
	return func() {
		p.stageTotals[name] += time.Since(start)
	}
}

// Tick should be called after each synchronization pass. Logs performance
// statistics when the update interval has elapsed. Statistics include pass
// count, mean and worst pass time, per-stage totals, heap usage, and
// allocation rate.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval || p.passCount == 0 {
		return false
	}

	mean := p.passTotal / time.Duration(p.passCount)

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	log.Printf("[Profiler] Passes: %d | Mean: %v | Max: %v | Heap: %.2f MB | Alloc Rate: %.2f MB/s",
		p.passCount, mean.Round(time.Microsecond), p.passMax.Round(time.Microsecond), allocMB, allocRateMB)

	if len(p.stageTotals) > 0 {
		names := make([]string, 0, len(p.stageTotals))
		for name := range p.stageTotals {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			log.Printf("[Profiler]   %s: %v", name, p.stageTotals[name].Round(time.Microsecond))
		}
	}

	p.passCount = 0
	p.passTotal = 0
	p.passMax = 0
	clear(p.stageTotals)
	p.lastTime = currentTime
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
