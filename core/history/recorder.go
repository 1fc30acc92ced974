// Package history records committed charge levels and computes summary
// statistics over the retained window.
package history

import (
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises the retained charge samples.
type Stats struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Recorder is a battery monitor that keeps the last Limit committed charge
// levels. The oldest samples are evicted once the window is full.
type Recorder struct {
	mu      sync.Mutex
	limit   int
	samples []float64
}

// DefaultLimit bounds the window when no explicit limit is configured.
const DefaultLimit = 1024

// NewRecorder creates a Recorder retaining up to limit samples. Non-positive
// limits fall back to DefaultLimit.
func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Recorder{limit: limit}
}

// NotifyRecharge records the committed charge level.
func (r *Recorder) NotifyRecharge(newCharge float64) { r.record(newCharge) }

// NotifyDrain records the committed charge level.
func (r *Recorder) NotifyDrain(newCharge float64) { r.record(newCharge) }

func (r *Recorder) record(charge float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.samples) == r.limit {
		copy(r.samples, r.samples[1:])
		r.samples = r.samples[:len(r.samples)-1]
	}
	r.samples = append(r.samples, charge)
}

// Samples returns a copy of the retained window, oldest first.
func (r *Recorder) Samples() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, len(r.samples))
	copy(out, r.samples)
	return out
}

// Stats computes summary statistics over the retained window. The zero
// Stats value is returned when no samples have been recorded.
func (r *Recorder) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.samples) == 0 {
		return Stats{}
	}
	var std float64
	if len(r.samples) > 1 {
		std = stat.StdDev(r.samples, nil)
	}
	return Stats{
		Count:  len(r.samples),
		Min:    floats.Min(r.samples),
		Max:    floats.Max(r.samples),
		Mean:   stat.Mean(r.samples, nil),
		StdDev: std,
	}
}
