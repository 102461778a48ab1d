package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is a clock time expressed as minutes since midnight.
// The wire and database format is "HH:MM" (24-hour).
type TimeOfDay int

// ParseTimeOfDay parses a 24-hour "HH:MM" clock time. A single-digit hour
// is accepted, matching what the request binding layer lets through;
// String always renders the zero-padded canonical form.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 ||
		len(parts[0]) < 1 || len(parts[0]) > 2 || !allDigits(parts[0]) ||
		len(parts[1]) != 2 || !allDigits(parts[1]) {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, _ := strconv.Atoi(parts[0])
	if h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, _ := strconv.Atoi(parts[1])
	if m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return TimeOfDay(h*60 + m), nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String renders the time back to "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}
