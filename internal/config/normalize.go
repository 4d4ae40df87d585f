// internal/config/normalize.go
package config

import "strings"

// Defaults applied by Normalize. The serial port itself has no default:
// the PN200 shows up on a different device name on every host, so the
// caller must name it explicitly.
const (
	DefaultBaudRate      = 9600
	DefaultReadTimeoutMs = 1000
	DefaultSettleDelayMs = 100
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Device.BaudRate == 0 {
		cfg.Device.BaudRate = DefaultBaudRate
	}
	if cfg.Device.ReadTimeoutMs == 0 {
		cfg.Device.ReadTimeoutMs = DefaultReadTimeoutMs
	}
	if cfg.Device.SettleDelayMs == 0 {
		cfg.Device.SettleDelayMs = DefaultSettleDelayMs
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	for i := range cfg.Presets {
		cfg.Presets[i].Channel = strings.ToUpper(cfg.Presets[i].Channel)
	}
}
