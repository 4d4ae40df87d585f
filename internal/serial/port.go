// internal/serial/port.go
package serial

import (
	"errors"
	"fmt"
	"time"

	"github.com/goburrow/serial"
	"github.com/sirupsen/logrus"
)

// Config describes one serial port. Zero fields fall back to the PN200
// factory settings (9600 8-N-1, 1 second read timeout).
type Config struct {
	Port        string
	BaudRate    int
	DataBits    int
	StopBits    int
	Parity      string
	ReadTimeout time.Duration
	Logger      logrus.FieldLogger
}

// Conn is an exclusively-owned, line-oriented serial connection.
type Conn struct {
	port serial.Port
	log  logrus.FieldLogger
}

// Open opens the serial port described by cfg.
func Open(cfg Config) (*Conn, error) {
	if cfg.Port == "" {
		return nil, errors.New("serial: port required")
	}
	if cfg.BaudRate == 0 {
		cfg.BaudRate = 9600
	}
	if cfg.DataBits == 0 {
		cfg.DataBits = 8
	}
	if cfg.StopBits == 0 {
		cfg.StopBits = 1
	}
	if cfg.Parity == "" {
		cfg.Parity = "N"
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	port, err := serial.Open(&serial.Config{
		Address:  cfg.Port,
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		StopBits: cfg.StopBits,
		Parity:   cfg.Parity,
		Timeout:  cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", cfg.Port, err)
	}

	cfg.Logger.Debugf("serial: opened %s at %d baud", cfg.Port, cfg.BaudRate)

	return &Conn{port: port, log: cfg.Logger}, nil
}

// Write sends raw bytes on the port.
func (c *Conn) Write(p []byte) (int, error) {
	c.log.Debugf("serial: sending % x", p)
	return c.port.Write(p)
}

// ReadLine reads bytes until a newline or the port's read timeout.
// A timeout is not an error: whatever arrived before it (usually nothing)
// is returned as-is. The trailing CR/LF is stripped.
func (c *Conn) ReadLine() (string, error) {
	var line []byte
	buf := make([]byte, 1)

	for {
		n, err := c.port.Read(buf)
		if err != nil {
			if errors.Is(err, serial.ErrTimeout) {
				c.log.Debugf("serial: read timeout after % x", line)
				return string(line), nil
			}
			return "", fmt.Errorf("serial: read: %w", err)
		}
		if n == 0 {
			continue
		}
		if buf[0] == '\n' {
			break
		}
		line = append(line, buf[0])
	}

	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}

	c.log.Debugf("serial: received %q", line)
	return string(line), nil
}

// Close releases the port.
func (c *Conn) Close() error {
	return c.port.Close()
}
