package client

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/easydb-io/easydb-go/internal/logger"
)

// Duration wraps time.Duration so config files can spell timeouts the
// human way ("5s", "250ms").
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config holds the connection settings of a Database handle.
type Config struct {
	// Host and Port locate the EasyDB server. Both may be overridden by
	// the arguments to Connect.
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// ConnectTimeout bounds the TCP dial.
	ConnectTimeout Duration `yaml:"connect_timeout"`

	// Log configures the handle's structured logger.
	Log *logger.Config `yaml:"log"`
}

// DefaultConfig returns local-development defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:           "localhost",
		Port:           8080,
		ConnectTimeout: Duration(5 * time.Second),
		Log:            logger.DefaultConfig(),
	}
}

// LoadConfig reads a Config from a YAML file, filling unset fields with
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = Duration(5 * time.Second)
	}
	if cfg.Log == nil {
		cfg.Log = logger.DefaultConfig()
	}
	return cfg, nil
}
