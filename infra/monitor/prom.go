package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PromMonitor exposes the battery state as Prometheus metrics.
type PromMonitor struct {
	charge    prometheus.Gauge
	recharges prometheus.Counter
	drains    prometheus.Counter
}

// NewPromMonitor registers battery metrics on the provided registerer. If
// reg is nil, the default registerer is used. If the collectors are already
// registered, the existing ones are reused.
func NewPromMonitor(batteryID string, reg prometheus.Registerer) (*PromMonitor, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	labels := prometheus.Labels{"battery_id": batteryID}
	charge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "battery_charge",
		Help:        "Current battery charge level",
		ConstLabels: labels,
	})
	recharges := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "battery_recharge_total",
		Help:        "Total number of committed recharge operations",
		ConstLabels: labels,
	})
	drains := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "battery_drain_total",
		Help:        "Total number of committed drain operations",
		ConstLabels: labels,
	})

	if err := reg.Register(charge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			charge = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(recharges); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			recharges = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(drains); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			drains = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}

	return &PromMonitor{charge: charge, recharges: recharges, drains: drains}, nil
}

// NotifyRecharge updates the charge gauge and increments the recharge counter.
func (m *PromMonitor) NotifyRecharge(newCharge float64) {
	m.charge.Set(newCharge)
	m.recharges.Inc()
}

// NotifyDrain updates the charge gauge and increments the drain counter.
func (m *PromMonitor) NotifyDrain(newCharge float64) {
	m.charge.Set(newCharge)
	m.drains.Inc()
}
