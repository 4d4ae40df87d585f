// internal/driver/driver.go
package driver

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	pserial "github.com/tamzrod/pn200-driver/internal/serial"
)

// Control bytes understood by the PN200 outside the line protocol.
const (
	ctrlRemote byte = 0x09 // front panel locked, serial control
	ctrlLocal  byte = 0x01 // back to front-panel control
)

// DefaultSettleDelay is the pause between writing a command and reading
// the response. The instrument needs the time to process internally.
const DefaultSettleDelay = 100 * time.Millisecond

// Transport is the exact serial contract the driver uses.
// IMPORTANT: There must be NO other version of this interface anywhere.
type Transport interface {
	Write(p []byte) (int, error)
	ReadLine() (string, error)
	Close() error
}

// Dialer opens a transport to the instrument. ONE attempt per call.
type Dialer func(port string, baud int) (Transport, error)

// Config is the minimal runtime config the driver needs.
type Config struct {
	SettleDelay time.Duration      // 0 means DefaultSettleDelay
	ReadTimeout time.Duration      // passed to the default dialer; 0 means 1s
	Logger      logrus.FieldLogger // nil means the logrus standard logger
	Dial        Dialer             // nil means the serial package
}

// Driver drives one PN200 over an exclusively-owned serial connection.
// It keeps an optimistic shadow of the per-channel targets: state changes
// before the device confirms, and a failed push leaves the shadow
// reflecting the caller's intent.
//
// The driver performs no internal locking; callers using it from multiple
// goroutines must serialize access themselves.
type Driver struct {
	dial   Dialer
	conn   Transport
	settle time.Duration
	log    logrus.FieldLogger

	channels [2]channelState
}

// New creates a disconnected driver. Call Connect before any operation.
func New(cfg Config) *Driver {
	if cfg.SettleDelay == 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.Dial == nil {
		readTimeout := cfg.ReadTimeout
		logger := cfg.Logger
		cfg.Dial = func(port string, baud int) (Transport, error) {
			return pserial.Open(pserial.Config{
				Port:        port,
				BaudRate:    baud,
				ReadTimeout: readTimeout,
				Logger:      logger,
			})
		}
	}

	return &Driver{
		dial:   cfg.Dial,
		settle: cfg.SettleDelay,
		log:    cfg.Logger,
	}
}

// Connect opens the given port, releasing any previous transport first.
// On failure the driver ends disconnected, never holding a stale handle.
func (d *Driver) Connect(port string, baud int) error {
	if d.conn != nil {
		_ = d.conn.Close()
		d.conn = nil
	}

	conn, err := d.dial(port, baud)
	if err != nil {
		return &ConnectionError{Port: port, Err: err}
	}

	d.conn = conn
	return nil
}

// Close releases the transport. The driver ends disconnected.
func (d *Driver) Close() error {
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	if err != nil {
		return &TransportError{Op: "close", Err: err}
	}
	return nil
}

// Connected reports whether the driver holds an open transport.
func (d *Driver) Connected() bool {
	return d.conn != nil
}

// SendCommand writes one newline-terminated command, waits the settle
// delay, and reads back one response line. An absent response is a normal
// outcome for most commands and yields an empty string, not an error.
func (d *Driver) SendCommand(cmd string) (string, error) {
	if d.conn == nil {
		return "", ErrNotConnected
	}

	d.log.Debugf("driver: send %q", cmd)

	if _, err := d.conn.Write([]byte(cmd + "\n")); err != nil {
		return "", &TransportError{Op: "write", Err: err}
	}

	time.Sleep(d.settle)

	line, err := d.conn.ReadLine()
	if err != nil {
		return "", &TransportError{Op: "read", Err: err}
	}

	line = strings.TrimSpace(line)
	if line != "" {
		d.log.Debugf("driver: response %q", line)
	}
	return line, nil
}

// writeControl sends a single out-of-band control byte. No response is
// expected, so nothing is read.
func (d *Driver) writeControl(b byte) error {
	if d.conn == nil {
		return ErrNotConnected
	}
	if _, err := d.conn.Write([]byte{b}); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	return nil
}

// SetRemote places the instrument under serial control.
func (d *Driver) SetRemote() error {
	return d.writeControl(ctrlRemote)
}

// SetLocal returns the instrument to front-panel control.
func (d *Driver) SetLocal() error {
	return d.writeControl(ctrlLocal)
}

// SetIndependentMode puts the two channels into independently-controlled
// mode. Series and parallel tracking modes are not supported.
func (d *Driver) SetIndependentMode() (string, error) {
	return d.SendCommand("OPER_IND")
}

// SetChannel stores the provided targets in the channel's shadow state and
// immediately pushes the state to the device. Absent fields are left
// untouched. Enabled/disabled is not changed by this call.
func (d *Driver) SetChannel(ch Channel, sp Setpoint) (string, error) {
	st, err := d.state(ch)
	if err != nil {
		return "", err
	}

	if sp.Voltage != nil {
		v := *sp.Voltage
		st.voltage = &v
	}
	if sp.Current != nil {
		c := *sp.Current
		st.current = &c
	}

	return d.UpdateChannel(ch)
}

// UpdateChannel pushes the channel's shadow state to the device as one
// composite command and returns the instrument's response.
func (d *Driver) UpdateChannel(ch Channel) (string, error) {
	st, err := d.state(ch)
	if err != nil {
		return "", err
	}
	return d.SendCommand(st.command(ch))
}

// ChannelOn enables the channel output and pushes the stored targets.
// Flipping the flag alone would change nothing on the device, so the push
// is fused into this call.
func (d *Driver) ChannelOn(ch Channel) (string, error) {
	st, err := d.state(ch)
	if err != nil {
		return "", err
	}
	st.enabled = true
	return d.UpdateChannel(ch)
}

// ChannelOff disables the channel output. The resulting push carries a
// forced "VSET 0": disabling de-energizes the output at the protocol
// level, not just in the shadow model.
func (d *Driver) ChannelOff(ch Channel) (string, error) {
	st, err := d.state(ch)
	if err != nil {
		return "", err
	}
	st.enabled = false
	return d.UpdateChannel(ch)
}

// Shutdown is the safe power-down sequence: both outputs off, then the
// instrument handed back to front-panel control. Later steps still run
// when an earlier one fails; the first error is reported.
func (d *Driver) Shutdown() error {
	var first error

	for _, ch := range []Channel{ChannelA, ChannelB} {
		if _, err := d.ChannelOff(ch); err != nil && first == nil {
			first = err
		}
	}

	if err := d.SetLocal(); err != nil && first == nil {
		first = err
	}

	return first
}

func (d *Driver) state(ch Channel) (*channelState, error) {
	if ch < ChannelA || ch > ChannelB {
		return nil, fmt.Errorf("driver: unknown channel %d", int(ch))
	}
	return &d.channels[ch], nil
}
