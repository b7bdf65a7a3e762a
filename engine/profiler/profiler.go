package profiler

import (
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// Phase is the timing of one named step of a resolve call.
type Phase struct {
	Name     string
	Duration time.Duration

	// AllocBytes is the heap allocated while the phase ran (TotalAlloc delta).
	AllocBytes uint64
}

type running struct {
	start      time.Time
	totalAlloc uint64
}

// Profiler records per-phase wall time and allocation for a resolve call.
// A nil *Profiler is valid and records nothing.
type Profiler struct {
	mu       sync.Mutex
	memStats runtime.MemStats
	running  map[string]running
	phases   []Phase
}

// NewProfiler creates a new Profiler with no recorded phases.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		memStats: runtime.MemStats{},
		running:  make(map[string]running),
	}
}

// Begin starts timing a phase. Beginning a phase that is already running restarts it.
//
// Parameters:
//   - name: the phase name
func (p *Profiler) Begin(name string) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	runtime.ReadMemStats(&p.memStats)
	p.running[name] = running{start: time.Now(), totalAlloc: p.memStats.TotalAlloc}
}

// End stops timing a phase and records it. Ending a phase that was never begun is a no-op.
//
// Parameters:
//   - name: the phase name
//
// Returns:
//   - time.Duration: the phase duration, or 0 if the phase was not running
func (p *Profiler) End(name string) time.Duration {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.running[name]
	if !ok {
		return 0
	}
	delete(p.running, name)

	runtime.ReadMemStats(&p.memStats)
	phase := Phase{
		Name:       name,
		Duration:   time.Since(r.start),
		AllocBytes: p.memStats.TotalAlloc - r.totalAlloc,
	}
	p.phases = append(p.phases, phase)
	return phase.Duration
}

// Report returns the recorded phases in completion order.
//
// Returns:
//   - []Phase: the phases
func (p *Profiler) Report() []Phase {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Phase(nil), p.phases...)
}

// Log writes one debug line per recorded phase.
//
// Parameters:
//   - logger: the destination logger
func (p *Profiler) Log(logger *slog.Logger) {
	for _, phase := range p.Report() {
		logger.Debug("phase complete",
			"component", "profiler",
			"phase", phase.Name,
			"duration", phase.Duration,
			"alloc_kb", float64(phase.AllocBytes)/1024,
		)
	}
}
