package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/powerbank/infra/monitor"
)

// Config is the root configuration for the powerbank service.
type Config struct {
	Battery    BatteryConfig    `json:"battery"`
	Monitors   MonitorsConfig   `json:"monitors"`
	History    HistoryConfig    `json:"history"`
	Simulation SimulationConfig `json:"simulation"`
}

// BatteryConfig describes the managed battery.
type BatteryConfig struct {
	// ID identifies the battery in metric labels and MQTT topics.
	ID       string  `json:"id"`
	Capacity float64 `json:"capacity"`
	// InitialCharge overrides the full-charge default when set.
	InitialCharge *float64 `json:"initial_charge"`
}

// SetDefaults applies sane defaults.
func (c *BatteryConfig) SetDefaults() {
	if c.ID == "" {
		c.ID = "main"
	}
}

// Validate checks mandatory fields.
func (c BatteryConfig) Validate() error {
	// negated comparison so NaN is rejected too
	if !(c.Capacity > 0) {
		return fmt.Errorf("battery capacity must be positive")
	}
	return nil
}

// MonitorsConfig selects and configures the monitor adapters.
type MonitorsConfig struct {
	Prometheus PrometheusConfig   `json:"prometheus"`
	Influx     InfluxConfig       `json:"influx"`
	MQTT       monitor.MQTTConfig `json:"mqtt"`
}

// PrometheusConfig configures the Prometheus monitor and metrics server.
type PrometheusConfig struct {
	Enabled bool   `json:"enabled"`
	Port    string `json:"port"`
}

// SetDefaults applies sane defaults.
func (c *PrometheusConfig) SetDefaults() {
	if c.Port == "" {
		c.Port = ":2112"
	}
}

// InfluxConfig configures the InfluxDB monitor.
type InfluxConfig struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
	Token   string `json:"token"`
	Org     string `json:"org"`
	Bucket  string `json:"bucket"`
}

// Validate checks mandatory fields.
func (c InfluxConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.URL == "" || c.Org == "" || c.Bucket == "" {
		return fmt.Errorf("influx url, org and bucket are required")
	}
	return nil
}

// HistoryConfig bounds the charge history window.
type HistoryConfig struct {
	Limit int `json:"limit"`
}

// SimulationConfig drives the charge/drain loop of the simulate service.
type SimulationConfig struct {
	StepIntervalMS int     `json:"step_interval_ms"`
	RechargeAmount float64 `json:"recharge_amount"`
	DrainAmount    float64 `json:"drain_amount"`
}

// SetDefaults applies sane defaults.
func (c *SimulationConfig) SetDefaults() {
	if c.StepIntervalMS <= 0 {
		c.StepIntervalMS = 1000
	}
	if !(c.RechargeAmount > 0) {
		c.RechargeAmount = 10
	}
	if !(c.DrainAmount > 0) {
		c.DrainAmount = 7
	}
}

// Load reads the configuration from path, applying PB_ environment
// overrides, defaults and validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("PB_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "pb_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Battery.SetDefaults()
	cfg.Monitors.Prometheus.SetDefaults()
	cfg.Monitors.MQTT.SetDefaults()
	cfg.Simulation.SetDefaults()
	if err := cfg.Battery.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Monitors.Influx.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Monitors.MQTT.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
