package monitor

import (
	"time"

	"github.com/kilianp07/powerbank/core/battery"
	"github.com/kilianp07/powerbank/internal/eventbus"
)

// BusMonitor publishes battery events on the in-process event bus.
type BusMonitor struct {
	bus       eventbus.EventBus
	batteryID string
}

// NewBusMonitor creates a BusMonitor publishing on bus.
func NewBusMonitor(bus eventbus.EventBus, batteryID string) *BusMonitor {
	return &BusMonitor{bus: bus, batteryID: batteryID}
}

// NotifyRecharge publishes a RechargeEvent.
func (b *BusMonitor) NotifyRecharge(newCharge float64) {
	b.bus.Publish(battery.RechargeEvent{BatteryID: b.batteryID, NewCharge: newCharge, Time: time.Now()})
}

// NotifyDrain publishes a DrainEvent.
func (b *BusMonitor) NotifyDrain(newCharge float64) {
	b.bus.Publish(battery.DrainEvent{BatteryID: b.batteryID, NewCharge: newCharge, Time: time.Now()})
}
