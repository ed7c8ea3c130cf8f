package config

import (
	"fmt"
	"strings"
	"time"
)

// Unit is the time unit of the wallpaper interval
type Unit string

const (
	Minutes Unit = "minutes"
	Hours   Unit = "hours"
	Days    Unit = "days"
)

// ParseUnit accepts the short and long spellings of the command line:
// m, min, minutes, hr, hrs, hours, d, days
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "min", "minutes":
		return Minutes, nil
	case "hr", "hrs", "hours":
		return Hours, nil
	case "d", "days":
		return Days, nil
	default:
		return "", fmt.Errorf("unknown time unit %q (use m, min, minutes, hr, hrs, hours, d or days)", s)
	}
}

// Duration returns the length of one unit
func (u Unit) Duration() time.Duration {
	switch u {
	case Minutes:
		return time.Minute
	case Hours:
		return time.Hour
	case Days:
		return 24 * time.Hour
	default:
		return 0
	}
}
