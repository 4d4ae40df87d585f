// internal/driver/channel.go
package driver

import (
	"fmt"
	"strconv"
	"strings"
)

// Channel identifies one of the two PN200 outputs.
type Channel int

const (
	ChannelA Channel = iota
	ChannelB
)

func (ch Channel) String() string {
	switch ch {
	case ChannelA:
		return "A"
	case ChannelB:
		return "B"
	}
	return fmt.Sprintf("Channel(%d)", int(ch))
}

// selToken is the channel-select token that starts every composite command.
func (ch Channel) selToken() string {
	if ch == ChannelB {
		return "SEL_B"
	}
	return "SEL_A"
}

// ParseChannel maps "A"/"B" (any case) to a Channel.
func ParseChannel(s string) (Channel, error) {
	switch strings.ToUpper(s) {
	case "A":
		return ChannelA, nil
	case "B":
		return ChannelB, nil
	}
	return 0, fmt.Errorf("driver: unknown channel %q", s)
}

// Setpoint carries the optional targets of one SetChannel call.
// A nil field leaves the stored target untouched; it does NOT mean zero.
type Setpoint struct {
	Voltage *float64
	Current *float64
}

// Value is a convenience for building Setpoint literals.
func Value(v float64) *float64 { return &v }

// channelState is the in-memory shadow of one output. It is open-loop:
// mutated only by driver operations, never read back from the device.
type channelState struct {
	voltage *float64
	current *float64
	enabled bool
}

// command builds the composite line pushed to the device for one channel.
// While the channel is disabled the voltage setpoint is forced to zero on
// the wire regardless of the stored target; the target itself survives so
// that re-enabling restores it.
func (st *channelState) command(ch Channel) string {
	tokens := []string{ch.selToken()}

	if !st.enabled {
		tokens = append(tokens, "VSET 0")
	} else {
		if st.voltage != nil {
			tokens = append(tokens, "VSET "+formatValue(*st.voltage))
		}
		if st.current != nil {
			tokens = append(tokens, "ISET "+formatValue(*st.current))
		}
	}

	return strings.Join(tokens, ";") + ";"
}

// formatValue renders a setpoint in plain decimal, never scientific
// notation. A decimal point is always kept (5 goes out as "5.0"): that is
// the wire form the instrument has always been driven with.
func formatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
