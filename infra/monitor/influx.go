package monitor

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/powerbank/core/battery"
	"github.com/kilianp07/powerbank/infra/logger"
)

// InfluxMonitor writes charge levels to an InfluxDB instance using the
// official client.
type InfluxMonitor struct {
	client    influxdb2.Client
	writeAPI  api.WriteAPIBlocking
	batteryID string
	log       logger.Logger
	now       func() time.Time
}

// NewInfluxMonitor creates a monitor configured for the given InfluxDB
// endpoint.
func NewInfluxMonitor(url, token, org, bucket, batteryID string) *InfluxMonitor {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxMonitor{
		client:    client,
		writeAPI:  client.WriteAPIBlocking(org, bucket),
		batteryID: batteryID,
		log:       logger.New("influx-monitor"),
		now:       time.Now,
	}
}

// NewInfluxMonitorWithFallback pings the InfluxDB instance and returns a
// NopMonitor if the health check fails.
func NewInfluxMonitorWithFallback(url, token, org, bucket, batteryID string) battery.Monitor {
	mon := NewInfluxMonitor(url, token, org, bucket, batteryID)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := mon.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			mon.log.Errorf("influx health check error: %v", err)
		} else {
			mon.log.Errorf("influx health status: %s", health.Status)
		}
		mon.client.Close()
		return battery.NopMonitor{}
	}
	return mon
}

// NotifyRecharge writes the committed charge as a recharge point.
func (m *InfluxMonitor) NotifyRecharge(newCharge float64) {
	m.writePoint("recharge", newCharge)
}

// NotifyDrain writes the committed charge as a drain point.
func (m *InfluxMonitor) NotifyDrain(newCharge float64) {
	m.writePoint("drain", newCharge)
}

func (m *InfluxMonitor) writePoint(direction string, charge float64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("battery_charge").
		AddTag("battery_id", m.batteryID).
		AddTag("direction", direction).
		AddField("charge", charge).
		SetTime(m.now())
	if err := m.writeAPI.WritePoint(ctx, p); err != nil {
		m.log.Errorf("influx write: %v", err)
	}
}

// Close releases the underlying InfluxDB client.
func (m *InfluxMonitor) Close() {
	m.client.Close()
}
