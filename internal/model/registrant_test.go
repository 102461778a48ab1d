package model

import (
	"testing"
	"time"
)

func TestParseRegistrantKind(t *testing.T) {
	for _, valid := range []string{"member", "non_member", "dependent"} {
		if _, err := ParseRegistrantKind(valid); err != nil {
			t.Errorf("ParseRegistrantKind(%q): %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "Member", "nonmember", "staff"} {
		if _, err := ParseRegistrantKind(invalid); err == nil {
			t.Errorf("ParseRegistrantKind(%q) should fail", invalid)
		}
	}
}

func TestDependentAgeOn(t *testing.T) {
	dep := Dependent{Birthday: time.Date(2008, time.June, 15, 0, 0, 0, 0, time.UTC)}

	tests := []struct {
		on   time.Time
		want int
	}{
		{time.Date(2026, time.June, 14, 0, 0, 0, 0, time.UTC), 17}, // day before birthday
		{time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC), 18}, // birthday itself
		{time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC), 18},
		{time.Date(2027, time.June, 15, 0, 0, 0, 0, time.UTC), 19},
	}
	for _, tt := range tests {
		if got := dep.AgeOn(tt.on); got != tt.want {
			t.Errorf("AgeOn(%s) = %d, want %d", tt.on.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestClassRemaining(t *testing.T) {
	c := Class{MaxCapacity: 12, Occupied: 5}
	if got := c.Remaining(); got != 7 {
		t.Errorf("Remaining() = %d, want 7", got)
	}
}

func TestCreateClassRequestToClass(t *testing.T) {
	req := CreateClassRequest{
		Name:        "Morning Yoga",
		Description: "gentle start to the day",
		RoomNumber:  3,
		StartDate:   "2026-09-07",
		EndDate:     "2026-12-18",
		Days:        []string{"Monday", "Wednesday"},
		StartTime:   "9:00", // single-digit hour passes the binding rule too
		EndTime:     "10:30",
		MaxCapacity: 12,
	}

	c, err := req.ToClass(7)
	if err != nil {
		t.Fatalf("ToClass: %v", err)
	}
	if c.StartTime.String() != "09:00" || c.EndTime.String() != "10:30" {
		t.Errorf("times = %s-%s, want 09:00-10:30", c.StartTime, c.EndTime)
	}
	if c.Status != ClassStatusOpen || c.StaffID != 7 {
		t.Errorf("status = %s, staff = %d", c.Status, c.StaffID)
	}
}
