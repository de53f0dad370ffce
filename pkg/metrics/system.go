package metrics

import (
	"context"
	"runtime"
	"time"
)

const nanosecondsPerMillisecond = 1e6

// RunSystemSampler samples runtime stats into the global manager until ctx
// is done.
func RunSystemSampler(ctx context.Context) {
	globalManager.RunSystemSampler(ctx)
}

// RunSystemSampler samples memory, goroutine and GC pause stats every
// sample interval until ctx is done. It takes one sample immediately.
func (m *Manager) RunSystemSampler(ctx context.Context) {
	if !m.enabled {
		return
	}
	ticker := time.NewTicker(m.sampleInterval)
	defer ticker.Stop()

	m.sampleSystem()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sampleSystem()
		}
	}
}

func (m *Manager) sampleSystem() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.systemMemoryUsage.Set(float64(ms.Alloc))
	m.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))

	if ms.NumGC > 0 {
		m.systemGCPauseTime.Observe(float64(ms.PauseTotalNs) / float64(ms.NumGC) / nanosecondsPerMillisecond)
	}
}
