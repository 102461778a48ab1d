package schedule

import (
	"reflect"
	"testing"
	"time"
)

func TestParseWeekdays(t *testing.T) {
	s, err := ParseWeekdays([]string{"Monday", "wednesday", " Friday "})
	if err != nil {
		t.Fatalf("ParseWeekdays: %v", err)
	}
	want := WeekdaySetOf(time.Monday, time.Wednesday, time.Friday)
	if s != want {
		t.Errorf("got %b, want %b", s, want)
	}

	if _, err := ParseWeekdays([]string{"Monday", "Funday"}); err == nil {
		t.Error("expected error for unknown weekday")
	}

	// Duplicates collapse.
	s, err = ParseWeekdays([]string{"Monday", "Monday"})
	if err != nil {
		t.Fatalf("ParseWeekdays: %v", err)
	}
	if s != WeekdaySetOf(time.Monday) {
		t.Errorf("duplicates should collapse, got %b", s)
	}
}

func TestWeekdaySetRoundTrip(t *testing.T) {
	s := WeekdaySetOf(time.Sunday, time.Tuesday, time.Saturday)

	if got := s.Weekdays(); !reflect.DeepEqual(got, []time.Weekday{time.Sunday, time.Tuesday, time.Saturday}) {
		t.Errorf("Weekdays() = %v", got)
	}
	if got := s.Names(); !reflect.DeepEqual(got, []string{"Sunday", "Tuesday", "Saturday"}) {
		t.Errorf("Names() = %v", got)
	}
	if !s.Contains(time.Tuesday) || s.Contains(time.Monday) {
		t.Error("Contains misreported membership")
	}
	if !s.Intersects(WeekdaySetOf(time.Saturday)) {
		t.Error("Intersects missed the shared Saturday")
	}
	if s.Intersects(WeekdaySetOf(time.Wednesday, time.Thursday)) {
		t.Error("Intersects reported a false overlap")
	}
	if WeekdaySet(0).IsEmpty() != true || s.IsEmpty() {
		t.Error("IsEmpty misreported")
	}
}

func TestTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		canon   string
		wantErr bool
	}{
		{"00:00", 0, "00:00", false},
		{"09:30", 570, "09:30", false},
		{"9:30", 570, "09:30", false}, // single-digit hour, per the binding rule
		{"23:59", 1439, "23:59", false},
		{"24:00", 0, "", true},
		{"09:60", 0, "", true},
		{"9:5", 0, "", true},
		{"+9:00", 0, "", true},
		{"morning", 0, "", true},
		{"", 0, "", true},
	}
	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimeOfDay(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseTimeOfDay(%q) = %d, want %d", tt.in, got, tt.want)
		}
		if err == nil && got.String() != tt.canon {
			t.Errorf("String() = %q, want %q", got.String(), tt.canon)
		}
	}
}
