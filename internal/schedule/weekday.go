package schedule

import (
	"fmt"
	"strings"
	"time"
)

// WeekdaySet is a bitmask over time.Weekday (bit 0 = Sunday).
// Stored in the database as a single smallint column.
type WeekdaySet uint8

// WeekdaySetOf builds a set from the given weekdays.
func WeekdaySetOf(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s |= 1 << uint(d)
	}
	return s
}

// ParseWeekdays converts API day names ("Monday", ...) into a WeekdaySet.
// Duplicate names collapse; unknown names are rejected.
func ParseWeekdays(names []string) (WeekdaySet, error) {
	var s WeekdaySet
	for _, name := range names {
		d, ok := weekdayByName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("unknown weekday %q", name)
		}
		s |= 1 << uint(d)
	}
	return s, nil
}

var weekdayByName = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Contains reports whether the set includes d.
func (s WeekdaySet) Contains(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

// Intersects reports whether the two sets share at least one weekday.
func (s WeekdaySet) Intersects(o WeekdaySet) bool {
	return s&o != 0
}

// IsEmpty reports whether no weekday is selected.
func (s WeekdaySet) IsEmpty() bool {
	return s == 0
}

// Weekdays expands the set into a sorted slice (Sunday first).
func (s WeekdaySet) Weekdays() []time.Weekday {
	var days []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Contains(d) {
			days = append(days, d)
		}
	}
	return days
}

// Names returns the day names for JSON responses.
func (s WeekdaySet) Names() []string {
	days := s.Weekdays()
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, d.String())
	}
	return names
}
