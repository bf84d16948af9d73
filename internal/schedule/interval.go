// Package schedule holds the pure scheduling logic: half-open interval
// algebra and availability-rule resolution. Persistence-free so the
// service layer can compose it with repository queries.
package schedule

import "time"

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Covers full containment and partial overlap;
// intervals that merely touch do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ValidInterval reports whether [start, end) is a proper non-empty interval.
func ValidInterval(start, end time.Time) bool {
	return start.Before(end)
}

// MinuteAligned reports whether t falls exactly on a minute boundary.
// Booking endpoints are minute-granular, matching rule windows.
func MinuteAligned(t time.Time) bool {
	return t.Second() == 0 && t.Nanosecond() == 0
}
