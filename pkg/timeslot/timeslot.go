// Package timeslot implements the packed HHMM time-of-day encoding used for
// booking intervals: 1330 means 13:30. Intervals are half-open [start, end).
package timeslot

import (
	"fmt"

	apperrors "studyroom/pkg/errors"
)

// Valid reports whether t is a well-formed packed time: hour 0-23, minute 0-59.
func Valid(t int) bool {
	hour := t / 100
	minute := t % 100
	return t >= 0 && hour <= 23 && minute <= 59
}

// Minutes returns the duration of [start, end) in minutes. Both arguments must
// be valid packed times; the result is negative when end precedes start.
func Minutes(start, end int) int {
	return (end/100)*60 + end%100 - ((start/100)*60 + start%100)
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching boundaries do not overlap, so
// back-to-back bookings are allowed.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// ValidateRange rejects malformed packed times, zero-length intervals and
// intervals that would cross midnight. The store never sees an interval this
// function did not accept.
func ValidateRange(start, end int) error {
	if !Valid(start) {
		return apperrors.InvalidInput(fmt.Sprintf("invalid start time %d: must be HHMM with hour 0-23 and minute 0-59", start))
	}
	if !Valid(end) {
		return apperrors.InvalidInput(fmt.Sprintf("invalid end time %d: must be HHMM with hour 0-23 and minute 0-59", end))
	}
	if end <= start {
		return apperrors.InvalidInput("end time must be after start time on the same day")
	}
	return nil
}
