package state

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidPowerState = errors.New("invalid power state")

// PowerState is the on/off status of a switchable device.
type PowerState uint8

const (
	Off PowerState = iota
	On
)

func (p PowerState) String() string {
	if p == On {
		return "On"
	}
	return "Off"
}

// ParsePowerState reads a power state from configuration text.
func ParsePowerState(s string) (PowerState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "1":
		return On, nil
	case "off", "false", "0", "":
		return Off, nil
	}
	return Off, fmt.Errorf("%w: %q", ErrInvalidPowerState, s)
}
