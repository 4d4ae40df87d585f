// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Device  DeviceConfig   `yaml:"device"`
	Log     LogConfig      `yaml:"log"`
	Presets []PresetConfig `yaml:"presets"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	Port          string `yaml:"port"`
	BaudRate      int    `yaml:"baud_rate"`
	ReadTimeoutMs int    `yaml:"read_timeout_ms"`
	SettleDelayMs int    `yaml:"settle_delay_ms"`
}

// ---- LOG ----

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ---- PRESET ----

// PresetConfig is a named output setting for one channel.
// Voltage/Current are optional: a missing field is left untouched on the
// device, it does NOT mean zero.
type PresetConfig struct {
	Name    string   `yaml:"name"`
	Channel string   `yaml:"channel"`
	Voltage *float64 `yaml:"voltage"`
	Current *float64 `yaml:"current"`
}

// Load reads and parses a yaml config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return &cfg, nil
}
