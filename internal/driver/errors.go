// internal/driver/errors.go
package driver

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned by every operation that needs an open
// transport when there is none. The caller must Connect first.
var ErrNotConnected = errors.New("driver: not connected")

// ConnectionError reports a failed port open. The driver is left
// disconnected when it is returned.
type ConnectionError struct {
	Port string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("driver: connect %s: %v", e.Port, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// TransportError reports a write or read failure on an otherwise-open
// transport. The connection may be stale afterwards.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("driver: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
