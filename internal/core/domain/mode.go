package domain

import (
	"fmt"
	"strings"
)

// BootMode selects between production and development boots.
type BootMode int

const (
	// Production performs no dependency install and disables reload.
	Production BootMode = iota

	// Development installs the editable package and enables reload.
	Development
)

// String returns the mode name.
func (m BootMode) String() string {
	switch m {
	case Production:
		return "production"
	case Development:
		return "development"
	default:
		return fmt.Sprintf("BootMode(%d)", int(m))
	}
}

// ParseBoolish parses a boolean-like environment value.
//
// Accepted values (case-insensitive): 1/0, t/f, true/false, y/n, yes/no,
// on/off. Leading and trailing spaces are ignored.
func ParseBoolish(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "t", "true", "y", "yes", "on":
		return true, nil
	case "0", "f", "false", "n", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", value)
}

// ModeFromFlag maps a dev-mode flag to a BootMode.
func ModeFromFlag(dev bool) BootMode {
	if dev {
		return Development
	}
	return Production
}
