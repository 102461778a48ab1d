package schedule

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustTime(t *testing.T, s string) TimeOfDay {
	t.Helper()
	tod, err := ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("ParseTimeOfDay(%q): %v", s, err)
	}
	return tod
}

func rec(t *testing.T, start, end string, days ...time.Weekday) Recurrence {
	t.Helper()
	return Recurrence{
		StartDate: date(2026, time.September, 7),
		EndDate:   date(2026, time.December, 18),
		Days:      WeekdaySetOf(days...),
		Start:     mustTime(t, start),
		End:       mustTime(t, end),
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Recurrence
		want bool
	}{
		{
			name: "same window same day",
			a:    rec(t, "09:00", "10:00", time.Monday),
			b:    rec(t, "09:00", "10:00", time.Monday),
			want: true,
		},
		{
			name: "partial overlap",
			a:    rec(t, "09:00", "10:00", time.Monday, time.Wednesday),
			b:    rec(t, "09:30", "10:30", time.Monday),
			want: true,
		},
		{
			name: "contiguous windows do not conflict",
			a:    rec(t, "09:00", "10:00", time.Monday),
			b:    rec(t, "10:00", "11:00", time.Monday),
			want: false,
		},
		{
			name: "disjoint weekdays never conflict",
			a:    rec(t, "09:00", "10:00", time.Monday),
			b:    rec(t, "09:00", "10:00", time.Tuesday, time.Thursday),
			want: false,
		},
		{
			name: "one shared weekday is enough",
			a:    rec(t, "08:00", "09:30", time.Monday, time.Wednesday, time.Friday),
			b:    rec(t, "09:00", "10:00", time.Friday),
			want: true,
		},
		{
			name: "containment",
			a:    rec(t, "08:00", "12:00", time.Saturday),
			b:    rec(t, "09:00", "10:00", time.Saturday),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// The relation is symmetric.
			if got := Overlaps(tt.b, tt.a); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRoomConflictDateRanges(t *testing.T) {
	a := rec(t, "09:00", "10:00", time.Monday)

	b := a
	b.StartDate = date(2026, time.October, 1)
	b.EndDate = date(2026, time.November, 1)
	if !RoomConflict(a, b) {
		t.Error("overlapping date ranges in the same slot should conflict")
	}

	// Same weekly slot but the terms never coincide.
	c := a
	c.StartDate = date(2027, time.January, 4)
	c.EndDate = date(2027, time.March, 26)
	if RoomConflict(a, c) {
		t.Error("disjoint date ranges should not conflict")
	}

	// Ranges touching on a single shared day still collide.
	d := a
	d.StartDate = a.EndDate
	d.EndDate = a.EndDate.AddDate(0, 2, 0)
	if !RoomConflict(a, d) {
		t.Error("ranges sharing one day should conflict")
	}

	// Different calendar start dates, same weekly pattern: still a conflict
	// as long as the ranges overlap. The pattern decides, not the first
	// concrete occurrence.
	e := a
	e.StartDate = a.StartDate.AddDate(0, 0, 2)
	if !RoomConflict(a, e) {
		t.Error("shifted start date within an overlapping range should conflict")
	}
}

func TestRecurrenceValidate(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

	valid := rec(t, "09:00", "10:00", time.Monday)
	if err := valid.Validate(now); err != nil {
		t.Fatalf("valid pattern rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Recurrence)
		wantErr error
	}{
		{"empty weekdays", func(r *Recurrence) { r.Days = 0 }, ErrNoWeekdays},
		{"end equals start", func(r *Recurrence) { r.End = r.Start }, ErrEndBeforeStart},
		{"end before start", func(r *Recurrence) { r.End = r.Start - 30 }, ErrEndBeforeStart},
		{"inverted date range", func(r *Recurrence) { r.EndDate = r.StartDate.AddDate(0, 0, -1) }, ErrDateRangeInverted},
		{"start in the past", func(r *Recurrence) {
			r.StartDate = date(2026, time.August, 30)
			r.EndDate = date(2026, time.December, 18)
		}, ErrStartInPast},
		{"same-day start time already passed", func(r *Recurrence) {
			r.StartDate = date(2026, time.September, 1)
			r.Start = mustTime(t, "11:00")
			r.End = mustTime(t, "11:45")
		}, ErrStartTimePassed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			if err := r.Validate(now); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// A same-day class starting later today is fine.
	sameDay := valid
	sameDay.StartDate = date(2026, time.September, 1)
	sameDay.Start = mustTime(t, "12:00")
	sameDay.End = mustTime(t, "13:00")
	if err := sameDay.Validate(now); err != nil {
		t.Errorf("same-day future start rejected: %v", err)
	}
}
