// Package app wires the configured battery, monitors and simulation loop
// into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/powerbank/config"
	"github.com/kilianp07/powerbank/core/battery"
	"github.com/kilianp07/powerbank/core/history"
	"github.com/kilianp07/powerbank/infra/logger"
	"github.com/kilianp07/powerbank/infra/monitor"
	"github.com/kilianp07/powerbank/internal/eventbus"
)

// Service owns the battery and drives the charge/drain simulation.
type Service struct {
	cfg  *config.Config
	bat  *battery.Battery
	hist *history.Recorder
	bus  *eventbus.Bus
	log  logger.Logger

	draining bool
	closers  []func()
}

// New creates a Service from the configuration, attaching every enabled
// monitor adapter to the battery.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	bus := eventbus.New()
	hist := history.NewRecorder(cfg.History.Limit)

	monitors := []battery.Monitor{
		hist,
		monitor.NewBusMonitor(bus, cfg.Battery.ID),
		monitor.NewLogMonitor(cfg.Battery.ID),
	}
	var closers []func()
	if cfg.Monitors.Prometheus.Enabled {
		prom, err := monitor.NewPromMonitor(cfg.Battery.ID, nil)
		if err != nil {
			return nil, fmt.Errorf("prom monitor: %w", err)
		}
		monitors = append(monitors, prom)
	}
	if cfg.Monitors.Influx.Enabled {
		influx := monitor.NewInfluxMonitorWithFallback(
			cfg.Monitors.Influx.URL,
			cfg.Monitors.Influx.Token,
			cfg.Monitors.Influx.Org,
			cfg.Monitors.Influx.Bucket,
			cfg.Battery.ID,
		)
		monitors = append(monitors, influx)
		if c, ok := influx.(*monitor.InfluxMonitor); ok {
			closers = append(closers, c.Close)
		}
	}
	if cfg.Monitors.MQTT.Enabled {
		mq, err := monitor.NewMQTTMonitor(cfg.Monitors.MQTT, cfg.Battery.ID)
		if err != nil {
			return nil, fmt.Errorf("mqtt monitor: %w", err)
		}
		monitors = append(monitors, mq)
		closers = append(closers, mq.Close)
	}

	opts := []battery.Option{battery.WithMonitor(battery.NewMultiMonitor(monitors...))}
	if cfg.Battery.InitialCharge != nil {
		opts = append(opts, battery.WithCharge(*cfg.Battery.InitialCharge))
	}
	bat, err := battery.New(cfg.Battery.Capacity, opts...)
	if err != nil {
		return nil, fmt.Errorf("battery: %w", err)
	}

	return &Service{
		cfg:      cfg,
		bat:      bat,
		hist:     hist,
		bus:      bus,
		log:      logg,
		draining: bat.Charge() > 0,
		closers:  closers,
	}, nil
}

// Battery returns the managed battery.
func (s *Service) Battery() *battery.Battery { return s.bat }

// History returns the charge history recorder.
func (s *Service) History() *history.Recorder { return s.hist }

// Bus returns the event bus carrying battery events.
func (s *Service) Bus() eventbus.EventBus { return s.bus }

// Run drives the simulation until the context is cancelled: the battery is
// drained step by step until empty, then recharged until full, and so on.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Monitors.Prometheus.Enabled {
		go func() {
			if err := monitor.StartPromServer(ctx, s.cfg.Monitors.Prometheus.Port); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	interval := time.Duration(s.cfg.Simulation.StepIntervalMS) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Infof("simulation started: capacity=%v charge=%v step=%v", s.bat.Capacity(), s.bat.Charge(), interval)
	for {
		select {
		case <-ctx.Done():
			stats := s.hist.Stats()
			s.log.Infof("simulation stopped: steps=%d mean=%.2f stddev=%.2f", stats.Count, stats.Mean, stats.StdDev)
			return nil
		case <-ticker.C:
			s.step()
		}
	}
}

// step applies one simulation tick, flipping direction at the boundaries.
func (s *Service) step() {
	if s.draining {
		err := s.bat.TryDrain(s.cfg.Simulation.DrainAmount)
		if errors.Is(err, battery.ErrBoundaryReached) {
			s.log.Infof("battery empty, recharging")
			s.draining = false
			s.step()
		} else if err != nil {
			s.log.Warnf("drain rejected: %v", err)
		}
		return
	}
	err := s.bat.TryRecharge(s.cfg.Simulation.RechargeAmount)
	if errors.Is(err, battery.ErrBoundaryReached) {
		s.log.Infof("battery full, draining")
		s.draining = true
		s.step()
	} else if err != nil {
		s.log.Warnf("recharge rejected: %v", err)
	}
}

// Close releases the monitor adapters and the event bus.
func (s *Service) Close() error {
	for _, c := range s.closers {
		c()
	}
	s.bus.Close()
	return nil
}
