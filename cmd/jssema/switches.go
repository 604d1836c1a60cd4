package main

import (
	"fmt"
	"strings"
)

// tristate is the value of an auto|on|off flag such as --color or --ui.
type tristate uint8

const (
	switchAuto tristate = iota
	switchOn
	switchOff
)

func (t tristate) String() string {
	return [...]string{"auto", "on", "off"}[t]
}

func parseTristate(flag, value string) (tristate, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return switchAuto, nil
	case "on", "always":
		return switchOn, nil
	case "off", "never":
		return switchOff, nil
	}
	return switchAuto, fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
}

// enabled resolves auto by asking tty.
func (t tristate) enabled(tty func() bool) bool {
	switch t {
	case switchOn:
		return true
	case switchOff:
		return false
	}
	return tty()
}
