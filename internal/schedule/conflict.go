package schedule

// Overlaps decides whether two weekly patterns collide on a registrant's
// calendar: the weekday sets must intersect and the daily windows must
// overlap as half-open intervals. Contiguous windows (a ends exactly when
// b starts) do not conflict. Date ranges are ignored; a person's recurring
// commitments clash on the weekly pattern alone.
func Overlaps(a, b Recurrence) bool {
	if !a.Days.Intersects(b.Days) {
		return false
	}
	return a.Start < b.End && b.Start < a.End
}

// RoomConflict decides whether two patterns collide in a shared room:
// the weekly overlap rule plus overlapping date ranges. Callers are
// responsible for only comparing classes that resolve to the same room.
func RoomConflict(a, b Recurrence) bool {
	if !a.datesOverlap(b) {
		return false
	}
	return Overlaps(a, b)
}
