// Package monitor provides battery.Monitor adapters that publish committed
// charge levels to external systems: Prometheus, InfluxDB, MQTT and the
// in-process event bus.
//
// Adapters own their delivery errors. A failed publish is reported through
// the adapter's logger and never affects the battery operation that
// triggered it.
package monitor
