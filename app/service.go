package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kilianp07/motorsim/config"
	coremetrics "github.com/kilianp07/motorsim/core/metrics"
	"github.com/kilianp07/motorsim/core/sim"
	"github.com/kilianp07/motorsim/infra/logger"
	"github.com/kilianp07/motorsim/infra/metrics"
	"github.com/kilianp07/motorsim/infra/mqtt"
	"github.com/kilianp07/motorsim/internal/eventbus"
)

// Service runs the drive cycle simulation and streams every step to the
// configured sinks.
type Service struct {
	cfg       *config.Config
	log       logger.Logger
	sink      coremetrics.StepSink
	publisher *mqtt.Publisher
	bus       *eventbus.Bus
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.StepSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}

	var publisher *mqtt.Publisher
	if cfg.MQTTEnabled {
		pub, err := mqtt.NewPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		publisher = pub
		sinks = append(sinks, pub)
	}

	var sink coremetrics.StepSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	return &Service{
		cfg:       cfg,
		log:       logg,
		sink:      sink,
		publisher: publisher,
		bus:       eventbus.New(),
	}, nil
}

// Run executes the configured drive cycle until completion or until ctx is
// canceled.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	var wg sync.WaitGroup
	steps := s.bus.Subscribe()
	wg.Add(1)
	go func() {
		defer wg.Done()
		for r := range steps {
			if err := s.sink.RecordSteps([]coremetrics.StepResult{r}); err != nil {
				s.log.Warnf("record step: %v", err)
			}
		}
	}()

	simulator := sim.New(s.cfg.Motor, s.cfg.Sim.BusVoltage, s.log)
	dt := s.cfg.Sim.DTSeconds
	summary, err := simulator.Run(ctx, s.cfg.Sim.Profile, dt, func(r coremetrics.StepResult) {
		s.bus.Publish(r)
		if s.cfg.Sim.RealTime {
			time.Sleep(time.Duration(dt * float64(time.Second)))
		}
	})
	s.bus.Close()
	wg.Wait()
	if err != nil {
		return fmt.Errorf("simulation: %w", err)
	}

	s.log.Infof("drive cycle done: %d steps, %d clamped, %.1f J net energy",
		summary.Steps, summary.ClampedSteps, summary.EnergyJ)
	return nil
}

// Close releases external connections.
func (s *Service) Close() error {
	if s.publisher != nil {
		s.publisher.Close()
	}
	return nil
}
