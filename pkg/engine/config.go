package engine

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/phishguard/phishguard/pkg/defaults"
	"github.com/phishguard/phishguard/pkg/duration"
)

// Duration wraps time.Duration so configs can use "5m" notation. Plain
// integers are taken as nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return err
	}
	*d = Duration(n)
	return nil
}

// Std returns the wrapped standard duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the engine's file-backed configuration. Zero values fall back
// to built-in defaults, so a partial file is valid.
type Config struct {
	// CampaignID stamps every planned simulation.
	CampaignID string `yaml:"campaign_id"`

	// Seed fixes the random source; zero seeds from the clock.
	Seed int64 `yaml:"seed"`

	// SessionCap bounds simulations per session.
	SessionCap int `yaml:"session_cap"`

	// MinInterval is the minimum spacing between simulations.
	MinInterval Duration `yaml:"min_interval"`

	// DetectionThreshold overrides the detector's verdict threshold.
	DetectionThreshold float64 `yaml:"detection_threshold"`

	// LevelPolicy selects difficulty advancement: "streak" or "bandit".
	LevelPolicy string `yaml:"level_policy"`

	// MetricsPort enables the Prometheus scrape server when nonzero.
	MetricsPort int `yaml:"metrics_port"`

	// OTLPEndpoint enables trace export when set.
	OTLPEndpoint string `yaml:"otlp_endpoint"`

	// OTLPInsecure disables TLS on the trace exporter.
	OTLPInsecure bool `yaml:"otlp_insecure"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		SessionCap:         defaults.SessionSimulationCap,
		MinInterval:        Duration(duration.MinSimulationInterval),
		DetectionThreshold: defaults.DetectionThreshold,
		LevelPolicy:        "streak",
	}
}

// LoadConfig reads a YAML config file, layering it over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot honor.
func (c Config) Validate() error {
	if c.SessionCap < 0 {
		return fmt.Errorf("session_cap must not be negative, got %d", c.SessionCap)
	}
	if c.MinInterval < 0 {
		return fmt.Errorf("min_interval must not be negative, got %s", c.MinInterval.Std())
	}
	if c.DetectionThreshold < 0 || c.DetectionThreshold > 1 {
		return fmt.Errorf("detection_threshold must be in [0, 1], got %g", c.DetectionThreshold)
	}
	switch c.LevelPolicy {
	case "", "streak", "bandit":
	default:
		return fmt.Errorf("unknown level_policy %q", c.LevelPolicy)
	}
	return nil
}
