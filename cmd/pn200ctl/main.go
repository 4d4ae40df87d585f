// cmd/pn200ctl/main.go
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/pn200-driver/internal/config"
	"github.com/tamzrod/pn200-driver/internal/driver"
)

const usage = `usage: pn200ctl <config.yaml> <command> [args]

commands:
  remote                      put the supply under serial control
  local                       hand control back to the front panel
  independent                 switch to independent channel mode
  set <A|B> <volts> [amps]    store channel targets and push them
  on <A|B>                    enable a channel output
  off <A|B>                   disable a channel output (forces VSET 0)
  preset <name>               apply a named preset from the config and enable
  shutdown                    both channels off, back to local control`

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfgPath := os.Args[1]
	command := os.Args[2]
	args := os.Args[3:]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logrus.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		logrus.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	log := setupLogger(cfg.Log)

	// --------------------
	// Connect
	// --------------------

	d := driver.New(driver.Config{
		SettleDelay: time.Duration(cfg.Device.SettleDelayMs) * time.Millisecond,
		ReadTimeout: time.Duration(cfg.Device.ReadTimeoutMs) * time.Millisecond,
		Logger:      log,
	})

	if err := d.Connect(cfg.Device.Port, cfg.Device.BaudRate); err != nil {
		log.Fatalf("connect failed: %v", err)
	}
	defer d.Close()

	// --------------------
	// Run the one command
	// --------------------

	switch command {
	case "remote":
		err = d.SetRemote()
	case "local":
		err = d.SetLocal()
	case "shutdown":
		err = d.Shutdown()
	default:
		// Everything else runs under serial control and hands the front
		// panel back afterwards.
		if err := d.SetRemote(); err != nil {
			log.Fatalf("remote control failed: %v", err)
		}

		err = runCommand(d, cfg, command, args, log)

		if lerr := d.SetLocal(); lerr != nil {
			log.Warnf("local handback failed: %v", lerr)
		}
	}

	if err != nil {
		log.Fatalf("%s failed: %v", command, err)
	}
}

func runCommand(d *driver.Driver, cfg *config.Config, command string, args []string, log *logrus.Logger) error {
	switch command {
	case "independent":
		resp, err := d.SetIndependentMode()
		if err != nil {
			return err
		}
		logResponse(log, resp)
		return nil

	case "set":
		if len(args) < 2 || len(args) > 3 {
			return fmt.Errorf("usage: set <A|B> <volts> [amps]")
		}
		ch, err := driver.ParseChannel(args[0])
		if err != nil {
			return err
		}
		volts, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("bad voltage %q: %w", args[1], err)
		}
		sp := driver.Setpoint{Voltage: driver.Value(volts)}
		if len(args) == 3 {
			amps, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("bad current %q: %w", args[2], err)
			}
			sp.Current = driver.Value(amps)
		}
		resp, err := d.SetChannel(ch, sp)
		if err != nil {
			return err
		}
		logResponse(log, resp)
		return nil

	case "on", "off":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <A|B>", command)
		}
		ch, err := driver.ParseChannel(args[0])
		if err != nil {
			return err
		}
		var resp string
		if command == "on" {
			resp, err = d.ChannelOn(ch)
		} else {
			resp, err = d.ChannelOff(ch)
		}
		if err != nil {
			return err
		}
		logResponse(log, resp)
		return nil

	case "preset":
		if len(args) != 1 {
			return fmt.Errorf("usage: preset <name>")
		}
		return applyPreset(d, cfg, args[0], log)

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// applyPreset stores the preset's targets and enables the channel.
func applyPreset(d *driver.Driver, cfg *config.Config, name string, log *logrus.Logger) error {
	for _, p := range cfg.Presets {
		if p.Name != name {
			continue
		}

		ch, err := driver.ParseChannel(p.Channel)
		if err != nil {
			return err
		}

		if _, err := d.SetChannel(ch, driver.Setpoint{Voltage: p.Voltage, Current: p.Current}); err != nil {
			return err
		}
		resp, err := d.ChannelOn(ch)
		if err != nil {
			return err
		}

		log.Infof("preset %s applied to channel %s", name, ch)
		logResponse(log, resp)
		return nil
	}

	return fmt.Errorf("preset %q not found in config", name)
}

func logResponse(log *logrus.Logger, resp string) {
	if resp != "" {
		log.Infof("device response: %s", resp)
	}
}

func setupLogger(cfg config.LogConfig) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log
}
