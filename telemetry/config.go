package telemetry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config describes where to mirror trace-compilation and guard-failure
// events. It is entirely optional: tracevm runs with Noop telemetry when no
// config file is given.
type Config struct {
	DSN    string  `yaml:"dsn"`
	Sample float64 `yaml:"sample"` // 0 < Sample <= 1 (defaults to 1); no sink applies it, every event is recorded
}

// LoadConfig reads a YAML telemetry config from path. A missing file is not
// an error: it returns a zero-value Config whose DSN is empty, which Open
// turns into a Noop sink.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("telemetry: read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("telemetry: parse config %s: %w", path, err)
	}
	if cfg.Sample <= 0 {
		cfg.Sample = 1
	}
	return cfg, nil
}
