package attendance

import "time"

// GracePeriod snaps an actual punch to its scheduled time when the two are
// within window of each other; outside the window the punch stands as-is.
// The second return reports whether snapping happened. Applied once per
// side of an entry and never re-applied to an already-adjusted value.
func GracePeriod(actual, scheduled time.Time, window time.Duration) (time.Time, bool) {
	diff := actual.Sub(scheduled)
	if diff < 0 {
		diff = -diff
	}
	if diff <= window {
		return scheduled, true
	}
	return actual, false
}

// PayrollRound snaps a timestamp's minute to the payroll quarter-hour
// breakpoints: 0-7 to :00, 8-22 to :15, 23-37 to :30, 38-52 to :45 and
// 53-59 to the next hour. Seconds are truncated. Rounding always runs AFTER
// grace correction; the two stages do not commute. Idempotent.
func PayrollRound(t time.Time) time.Time {
	hour := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())

	switch m := t.Minute(); {
	case m <= 7:
		return hour
	case m <= 22:
		return hour.Add(15 * time.Minute)
	case m <= 37:
		return hour.Add(30 * time.Minute)
	case m <= 52:
		return hour.Add(45 * time.Minute)
	default:
		return hour.Add(time.Hour)
	}
}

// SplitHours divides worked hours into the regular/overtime pair at the
// per-shift threshold. Overtime is strictly per shift here; the aggregator
// re-sums the per-shift splits across a pay period.
func SplitHours(hours, thresholdHours float64) (regular, overtime float64) {
	if hours <= 0 {
		return 0, 0
	}
	if hours <= thresholdHours {
		return hours, 0
	}
	return thresholdHours, hours - thresholdHours
}

// WorkedHours computes payable hours from a pair of grace-corrected
// timestamps: both ends are payroll-rounded independently and the span is
// clamped to zero when the rounded end precedes the rounded start.
func WorkedHours(adjustedStart, adjustedEnd time.Time) (roundedStart, roundedEnd time.Time, hours float64) {
	roundedStart = PayrollRound(adjustedStart)
	roundedEnd = PayrollRound(adjustedEnd)

	minutes := roundedEnd.Sub(roundedStart) / time.Minute
	if minutes < 0 {
		minutes = 0
	}
	return roundedStart, roundedEnd, float64(minutes) / 60
}
