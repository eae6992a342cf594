// Package interval provides the half-open time interval value type used for
// slot conflict detection. Intervals are immutable values; construct a fresh
// one per computation.
package interval

import (
	"fmt"
	"time"
)

// Interval is a half-open [Start, End) time range tagged with the schedule
// that owns it.
type Interval struct {
	Start      time.Time
	End        time.Time
	ScheduleID string
}

// New validates start < end and returns the interval.
func New(start, end time.Time, scheduleID string) (Interval, error) {
	if start.IsZero() {
		return Interval{}, fmt.Errorf("interval start is required")
	}
	if end.IsZero() {
		return Interval{}, fmt.Errorf("interval end is required")
	}
	if !start.Before(end) {
		return Interval{}, fmt.Errorf("interval start %s must be before end %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Interval{Start: start, End: end, ScheduleID: scheduleID}, nil
}

// Overlaps reports whether two half-open intervals share any instant.
// Touching endpoints do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// String renders the interval for conflict messages.
func (iv Interval) String() string {
	return fmt.Sprintf("[%s, %s)", iv.Start.Format(time.RFC3339), iv.End.Format(time.RFC3339))
}

// AnyOverlap returns the first member of existing that overlaps the candidate.
func AnyOverlap(candidate Interval, existing []Interval) (Interval, bool) {
	for _, e := range existing {
		if candidate.Overlaps(e) {
			return e, true
		}
	}
	return Interval{}, false
}

// Envelope returns the [minStart, maxEnd] envelope covering all intervals.
// The second return is false for an empty slice.
func Envelope(intervals []Interval) (start, end time.Time, ok bool) {
	if len(intervals) == 0 {
		return time.Time{}, time.Time{}, false
	}
	start, end = intervals[0].Start, intervals[0].End
	for _, iv := range intervals[1:] {
		if iv.Start.Before(start) {
			start = iv.Start
		}
		if iv.End.After(end) {
			end = iv.End
		}
	}
	return start, end, true
}
