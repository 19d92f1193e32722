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

	"github.com/kilianp07/motorsim/core/metrics"
	"github.com/kilianp07/motorsim/core/motor"
	"github.com/kilianp07/motorsim/core/sim"
	"github.com/kilianp07/motorsim/infra/mqtt"
)

// Config is the root service configuration.
type Config struct {
	Motor   motor.Params   `json:"motor"`
	Sim     sim.Config     `json:"sim"`
	MQTT    mqtt.Config    `json:"mqtt"`
	Metrics metrics.Config `json:"metrics"`
	// MQTTEnabled switches step telemetry publishing on.
	MQTTEnabled bool `json:"mqtt_enabled"`
}

// Load reads the configuration file (yaml or json by extension), applies
// MS_ prefixed environment overrides and validates the result.
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
	// Optional environment overrides.
	if err := k.Load(env.Provider("MS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "ms_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the whole configuration. Motor parameter validation lives
// here, outside the computational core.
func (c *Config) Validate() error {
	if err := validateMotor(c.Motor); err != nil {
		return fmt.Errorf("motor: %w", err)
	}
	if err := c.Sim.Validate(); err != nil {
		return fmt.Errorf("sim: %w", err)
	}
	if c.MQTTEnabled {
		if err := c.MQTT.Validate(); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}
	return nil
}

func validateMotor(p motor.Params) error {
	if !p.IsNonSalient() {
		return fmt.Errorf("salient parameters: Ld %v != Lq %v", p.Ld, p.Lq)
	}
	if p.Lq <= 0 {
		return fmt.Errorf("lq must be positive, got %v", p.Lq)
	}
	if p.Rs <= 0 {
		return fmt.Errorf("rs must be positive, got %v", p.Rs)
	}
	if p.FluxLinkage <= 0 {
		return fmt.Errorf("flux_linkage must be positive, got %v", p.FluxLinkage)
	}
	if p.NumPolePairs <= 0 {
		return fmt.Errorf("num_pole_pairs must be positive, got %d", p.NumPolePairs)
	}
	if p.ModulationLimit <= 0 || p.ModulationLimit > 1 {
		return fmt.Errorf("modulation_limit must be in (0, 1], got %v", p.ModulationLimit)
	}
	if p.PhaseCurrentCmdLimit <= 0 {
		return fmt.Errorf("phase_current_cmd_limit must be positive, got %v", p.PhaseCurrentCmdLimit)
	}
	if p.IqCmdLowerLimit > p.IqCmdUpperLimit {
		return fmt.Errorf("iq command limits inverted: %v > %v", p.IqCmdLowerLimit, p.IqCmdUpperLimit)
	}
	if p.SwitchingFrequency < 0 {
		return fmt.Errorf("switching_frequency must not be negative, got %v", p.SwitchingFrequency)
	}
	if p.RdsOn < 0 {
		return fmt.Errorf("rds_on must not be negative, got %v", p.RdsOn)
	}
	return nil
}
