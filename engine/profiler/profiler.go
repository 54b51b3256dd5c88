package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is one interval's worth of frame and memory statistics.
type Stats struct {
	FPS         float64 // loop iterations per second
	RedrawRate  float64 // redrawn frames per second
	HeapMB      float64
	AllocRateMB float64 // MB allocated per second
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
	SysMB       float64
}

// Profiler tracks loop rate, redraw rate and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	redrawCount    int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats

	now func() time.Time
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per loop iteration. Iterations that drew a frame count toward the redraw rate;
// the engine skips drawing while the view is still, so the two rates diverge when idle.
// Logs performance statistics when the update interval has elapsed.
//
// Parameters:
//   - redrawn: whether this iteration drew and presented a frame
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(redrawn bool) bool {
	p.frameCount++
	if redrawn {
		p.redrawCount++
	}
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return false
	}

	seconds := elapsed.Seconds()
	runtime.ReadMemStats(&p.memStats)

	s := Stats{
		FPS:        float64(p.frameCount) / seconds,
		RedrawRate: float64(p.redrawCount) / seconds,
		// Alloc: live heap; Sys: process footprint obtained from the OS.
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / seconds,
		GCCount:     p.memStats.NumGC,
	}

	if s.GCCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses.
		s.LastPauseUs = p.memStats.PauseNs[(s.GCCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if s.GCCount-startIdx > 256 {
			startIdx = s.GCCount - 256
		}
		for i := startIdx; i < s.GCCount; i++ {
			s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	log.Printf("[Profiler] FPS: %.2f | Redraws: %.2f/s | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		s.FPS, s.RedrawRate, s.HeapMB, s.AllocRateMB, s.GCCount, s.LastPauseUs, s.MaxPauseUs, s.SysMB)

	p.last = s
	p.frameCount = 0
	p.redrawCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the statistics logged by the most recent reporting Tick.
//
// Returns:
//   - Stats: the last reported statistics, zero before the first report
func (p *Profiler) Last() Stats {
	return p.last
}
