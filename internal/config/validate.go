// internal/config/validate.go
package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	// ------------------------------------------------------------
	// DEVICE
	// ------------------------------------------------------------

	if cfg.Device.Port == "" {
		return fmt.Errorf("device: port is required")
	}
	if cfg.Device.BaudRate < 0 {
		return fmt.Errorf("device: baud_rate must not be negative, got %d", cfg.Device.BaudRate)
	}
	if cfg.Device.ReadTimeoutMs < 0 {
		return fmt.Errorf("device: read_timeout_ms must not be negative, got %d", cfg.Device.ReadTimeoutMs)
	}
	if cfg.Device.SettleDelayMs < 0 {
		return fmt.Errorf("device: settle_delay_ms must not be negative, got %d", cfg.Device.SettleDelayMs)
	}

	// ------------------------------------------------------------
	// PRESETS
	// ------------------------------------------------------------

	seen := make(map[string]struct{})

	for _, p := range cfg.Presets {
		if p.Name == "" {
			return fmt.Errorf("preset: name is required")
		}
		if _, exists := seen[p.Name]; exists {
			return fmt.Errorf("preset %q: duplicate name", p.Name)
		}
		seen[p.Name] = struct{}{}

		switch strings.ToUpper(p.Channel) {
		case "A", "B":
		default:
			return fmt.Errorf("preset %q: channel must be A or B, got %q", p.Name, p.Channel)
		}

		if p.Voltage == nil && p.Current == nil {
			return fmt.Errorf("preset %q: at least one of voltage or current is required", p.Name)
		}
		if p.Voltage != nil && *p.Voltage < 0 {
			return fmt.Errorf("preset %q: voltage must not be negative, got %v", p.Name, *p.Voltage)
		}
		if p.Current != nil && *p.Current < 0 {
			return fmt.Errorf("preset %q: current must not be negative, got %v", p.Name, *p.Current)
		}
	}

	return nil
}
