package battery

import "time"

// RechargeEvent is published on the event bus for each committed recharge.
type RechargeEvent struct {
	BatteryID string
	NewCharge float64
	Time      time.Time
}

// DrainEvent is published on the event bus for each committed drain.
type DrainEvent struct {
	BatteryID string
	NewCharge float64
	Time      time.Time
}
