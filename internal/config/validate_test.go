// internal/config/validate_test.go
package config

import "testing"

// helper to build a preset quickly
func preset(name, channel string, voltage, current *float64) PresetConfig {
	return PresetConfig{
		Name:    name,
		Channel: channel,
		Voltage: voltage,
		Current: current,
	}
}

func f(v float64) *float64 { return &v }

// ---- tests ----

func TestValidate_MinimalDevice(t *testing.T) {
	cfg := &Config{
		Device: DeviceConfig{Port: "/dev/ttyUSB0"},
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_PortRequired(t *testing.T) {
	cfg := &Config{}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected port error, got nil")
	}
}

func TestValidate_NegativeBaudRejected(t *testing.T) {
	cfg := &Config{
		Device: DeviceConfig{Port: "COM3", BaudRate: -9600},
	}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected baud_rate error, got nil")
	}
}

func TestValidate_PresetChannels(t *testing.T) {
	cfg := &Config{
		Device: DeviceConfig{Port: "COM3"},
		Presets: []PresetConfig{
			preset("laser", "A", f(5.0), f(0.010)),
			preset("fan", "b", f(12.0), nil),
		},
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_UnknownPresetChannel(t *testing.T) {
	cfg := &Config{
		Device: DeviceConfig{Port: "COM3"},
		Presets: []PresetConfig{
			preset("laser", "C", f(5.0), nil),
		},
	}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected channel error, got nil")
	}
}

func TestValidate_DuplicatePresetName(t *testing.T) {
	cfg := &Config{
		Device: DeviceConfig{Port: "COM3"},
		Presets: []PresetConfig{
			preset("laser", "A", f(5.0), nil),
			preset("laser", "B", f(12.0), nil),
		},
	}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected duplicate name error, got nil")
	}
}

func TestValidate_EmptyPresetRejected(t *testing.T) {
	cfg := &Config{
		Device: DeviceConfig{Port: "COM3"},
		Presets: []PresetConfig{
			preset("idle", "A", nil, nil),
		},
	}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected empty preset error, got nil")
	}
}

func TestValidate_NegativeSetpointRejected(t *testing.T) {
	cfg := &Config{
		Device: DeviceConfig{Port: "COM3"},
		Presets: []PresetConfig{
			preset("laser", "A", f(-5.0), nil),
		},
	}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected voltage error, got nil")
	}
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := &Config{
		Device: DeviceConfig{Port: "COM3"},
		Presets: []PresetConfig{
			preset("fan", "b", f(12.0), nil),
		},
	}

	Normalize(cfg)

	if cfg.Device.BaudRate != DefaultBaudRate {
		t.Fatalf("expected baud %d, got %d", DefaultBaudRate, cfg.Device.BaudRate)
	}
	if cfg.Device.ReadTimeoutMs != DefaultReadTimeoutMs {
		t.Fatalf("expected read timeout %d, got %d", DefaultReadTimeoutMs, cfg.Device.ReadTimeoutMs)
	}
	if cfg.Device.SettleDelayMs != DefaultSettleDelayMs {
		t.Fatalf("expected settle delay %d, got %d", DefaultSettleDelayMs, cfg.Device.SettleDelayMs)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Fatalf("expected log defaults, got %q/%q", cfg.Log.Level, cfg.Log.Format)
	}
	if cfg.Presets[0].Channel != "B" {
		t.Fatalf("expected channel upper-cased, got %q", cfg.Presets[0].Channel)
	}
}

func TestNormalize_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Device: DeviceConfig{
			Port:          "COM3",
			BaudRate:      19200,
			ReadTimeoutMs: 250,
			SettleDelayMs: 50,
		},
	}

	Normalize(cfg)

	if cfg.Device.BaudRate != 19200 || cfg.Device.ReadTimeoutMs != 250 || cfg.Device.SettleDelayMs != 50 {
		t.Fatalf("explicit values were overwritten: %+v", cfg.Device)
	}
}
