package schedule

import (
	"errors"
	"time"
)

// Validation failures for a recurrence pattern. Handlers map all of these
// to the INVALID_RECURRENCE error code.
var (
	ErrNoWeekdays        = errors.New("at least one weekday must be selected")
	ErrEndBeforeStart    = errors.New("daily end time must be after start time")
	ErrDateRangeInverted = errors.New("end date must be on or after start date")
	ErrStartInPast       = errors.New("start date cannot be before today")
	ErrStartTimePassed   = errors.New("a class starting today must start after the current time")
)

// Recurrence is a weekly-repeating schedule: a date range, a set of
// weekdays, and one daily time window shared by all selected weekdays.
// Concrete occurrences are never materialized; all reasoning happens on
// the pattern.
type Recurrence struct {
	StartDate time.Time
	EndDate   time.Time
	Days      WeekdaySet
	Start     TimeOfDay
	End       TimeOfDay
}

// Validate checks the pattern contract at creation time. now supplies the
// reference clock for the past-date and same-day rules.
func (r Recurrence) Validate(now time.Time) error {
	if r.Days.IsEmpty() {
		return ErrNoWeekdays
	}
	if r.End <= r.Start {
		return ErrEndBeforeStart
	}
	if r.EndDate.Before(r.StartDate) {
		return ErrDateRangeInverted
	}
	today := midnight(now)
	if r.StartDate.Before(today) {
		return ErrStartInPast
	}
	if r.StartDate.Equal(today) {
		nowMinutes := TimeOfDay(now.Hour()*60 + now.Minute())
		if r.Start < nowMinutes {
			return ErrStartTimePassed
		}
	}
	return nil
}

// datesOverlap reports whether the two date ranges share at least one day.
// Ranges are inclusive on both ends.
func (r Recurrence) datesOverlap(o Recurrence) bool {
	return !r.StartDate.After(o.EndDate) && !o.StartDate.After(r.EndDate)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
