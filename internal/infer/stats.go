package infer

import (
	"sort"
	"sync"
	"time"
)

// Stats tracks inference call latencies over a rolling window.
type Stats struct {
	mu      sync.Mutex
	window  time.Duration
	samples []sample
}

type sample struct {
	at  time.Time
	dur time.Duration
}

// Snapshot is a point-in-time aggregate of recent call latencies.
type Snapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

func NewStats(window time.Duration) *Stats {
	if window <= 0 {
		window = time.Hour
	}
	return &Stats{window: window}
}

// Record adds one call duration. Negative durations clamp to zero.
func (s *Stats) Record(d time.Duration) {
	if d < 0 {
		d = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune(now)
	s.samples = append(s.samples, sample{at: now, dur: d})
}

// Snapshot aggregates the samples still inside the window.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune(time.Now())

	snap := Snapshot{Count: len(s.samples)}
	if snap.Count == 0 {
		return snap
	}

	ms := make([]float64, len(s.samples))
	var sum float64
	for i, smp := range s.samples {
		v := float64(smp.dur.Milliseconds())
		ms[i] = v
		sum += v
	}
	sort.Float64s(ms)

	snap.MinMs = int64(ms[0])
	snap.MaxMs = int64(ms[len(ms)-1])
	snap.AvgMs = sum / float64(len(ms))
	snap.P50Ms = percentile(ms, 50)
	snap.P95Ms = percentile(ms, 95)
	snap.P99Ms = percentile(ms, 99)
	return snap
}

// prune drops samples older than the window. Samples arrive in time order,
// so the survivors are a suffix.
func (s *Stats) prune(now time.Time) {
	cutoff := now.Add(-s.window)
	keep := 0
	for keep < len(s.samples) && s.samples[keep].at.Before(cutoff) {
		keep++
	}
	if keep > 0 {
		s.samples = append(s.samples[:0], s.samples[keep:]...)
	}
}

// percentile interpolates linearly between the two nearest ranks of a
// sorted sample.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(rank)
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
