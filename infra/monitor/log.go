package monitor

import "github.com/kilianp07/powerbank/infra/logger"

// LogMonitor writes each committed state change to the structured log.
type LogMonitor struct {
	batteryID string
	log       logger.Logger
}

// NewLogMonitor creates a LogMonitor for the given battery.
func NewLogMonitor(batteryID string) *LogMonitor {
	return &LogMonitor{batteryID: batteryID, log: logger.New("battery-monitor")}
}

func (m *LogMonitor) NotifyRecharge(newCharge float64) {
	m.log.Debugw("recharge committed", map[string]any{"battery_id": m.batteryID, "charge": newCharge})
}

func (m *LogMonitor) NotifyDrain(newCharge float64) {
	m.log.Debugw("drain committed", map[string]any{"battery_id": m.batteryID, "charge": newCharge})
}
