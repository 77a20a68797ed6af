package schedule

import "time"

// ShiftConflict describes one existing shift that overlaps a requested
// interval, with the size of the overlap in whole minutes.
type ShiftConflict struct {
	ShiftID        int64     `json:"shift_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	OverlapMinutes int64     `json:"overlap_minutes"`
}

type ConflictResult struct {
	HasConflict bool            `json:"has_conflict"`
	Conflicts   []ShiftConflict `json:"conflicts"`
}

// Overlaps applies the canonical half-open interval test: [s1,e1) and
// [s2,e2) intersect iff s1 < e2 && s2 < e1. Back-to-back shifts whose
// boundaries touch do not overlap.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && start2.Before(end1)
}

// OverlapMinutes returns the length of the intersection in minutes, floored,
// never negative.
func OverlapMinutes(start1, end1, start2, end2 time.Time) int64 {
	start := start1
	if start2.After(start) {
		start = start2
	}
	end := end1
	if end2.Before(end) {
		end = end2
	}
	if !end.After(start) {
		return 0
	}
	return int64(end.Sub(start) / time.Minute)
}

// DetectConflicts runs the overlap test for a requested interval against a
// set of existing shifts. Callers pass only the shifts that matter: active
// shifts for the same employee, minus the one being edited.
func DetectConflicts(start, end time.Time, existing []*Shift) ConflictResult {
	result := ConflictResult{Conflicts: []ShiftConflict{}}

	for _, s := range existing {
		if !Overlaps(start, end, s.StartTime, s.EndTime) {
			continue
		}
		result.Conflicts = append(result.Conflicts, ShiftConflict{
			ShiftID:        s.ID,
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			OverlapMinutes: OverlapMinutes(start, end, s.StartTime, s.EndTime),
		})
	}

	result.HasConflict = len(result.Conflicts) > 0
	return result
}
