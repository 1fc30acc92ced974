package battery

import "sync"

// Monitor receives a notification after each committed state change. Calls
// are synchronous and carry the post-mutation charge. Implementations own
// their delivery errors; the battery never inspects the outcome.
type Monitor interface {
	NotifyRecharge(newCharge float64)
	NotifyDrain(newCharge float64)
}

// NopMonitor implements Monitor with no-op methods.
type NopMonitor struct{}

func (NopMonitor) NotifyRecharge(float64) {}
func (NopMonitor) NotifyDrain(float64)    {}

// MultiMonitor fans notifications out to multiple monitors in order.
type MultiMonitor struct {
	Monitors []Monitor
}

// NewMultiMonitor creates a MultiMonitor over the provided monitors.
func NewMultiMonitor(monitors ...Monitor) *MultiMonitor {
	return &MultiMonitor{Monitors: monitors}
}

func (m *MultiMonitor) NotifyRecharge(newCharge float64) {
	for _, mon := range m.Monitors {
		mon.NotifyRecharge(newCharge)
	}
}

func (m *MultiMonitor) NotifyDrain(newCharge float64) {
	for _, mon := range m.Monitors {
		mon.NotifyDrain(newCharge)
	}
}

// RecordingMonitor captures notifications for inspection in tests.
type RecordingMonitor struct {
	mu        sync.Mutex
	Recharges []float64
	Drains    []float64
}

func (r *RecordingMonitor) NotifyRecharge(newCharge float64) {
	r.mu.Lock()
	r.Recharges = append(r.Recharges, newCharge)
	r.mu.Unlock()
}

func (r *RecordingMonitor) NotifyDrain(newCharge float64) {
	r.mu.Lock()
	r.Drains = append(r.Drains, newCharge)
	r.mu.Unlock()
}
