package attendance

import (
	"time"

	"github.com/satriautama/attendance-management/internal"
	attendanceDatamodel "github.com/satriautama/attendance-management/internal/core/datamodel/attendance"
)

// EntryStatus is the time-entry state machine: an entry is created
// CLOCKED_IN, becomes CLOCKED_OUT exactly once, and may be ADJUSTED any
// number of times after that.
type EntryStatus string

const (
	EntryStatusClockedIn  EntryStatus = "CLOCKED_IN"
	EntryStatusClockedOut EntryStatus = "CLOCKED_OUT"
	EntryStatusAdjusted   EntryStatus = "ADJUSTED"
)

func (s EntryStatus) IsValid() bool {
	switch s {
	case EntryStatusClockedIn, EntryStatusClockedOut, EntryStatusAdjusted:
		return true
	}
	return false
}

// IsClosed reports whether the entry has a clock-out and counts toward
// payroll aggregation.
func (s EntryStatus) IsClosed() bool {
	switch s {
	case EntryStatusClockedOut, EntryStatusAdjusted:
		return true
	case EntryStatusClockedIn:
		return false
	}
	return false
}

type TimeEntry struct {
	ID                 int64       `json:"id"`
	EmployeeID         int64       `json:"employee_id"`
	ShiftID            *int64      `json:"shift_id,omitempty"`
	ClockInTime        time.Time   `json:"clock_in_time"`
	ClockOutTime       *time.Time  `json:"clock_out_time,omitempty"`
	ClockInLocation    *string     `json:"clock_in_location,omitempty"`
	ClockOutLocation   *string     `json:"clock_out_location,omitempty"`
	ClockInIP          *string     `json:"clock_in_ip,omitempty"`
	ClockOutIP         *string     `json:"clock_out_ip,omitempty"`
	ScheduledStartTime time.Time   `json:"scheduled_start_time"`
	ScheduledEndTime   time.Time   `json:"scheduled_end_time"`
	AdjustedStartTime  *time.Time  `json:"adjusted_start_time,omitempty"`
	AdjustedEndTime    *time.Time  `json:"adjusted_end_time,omitempty"`
	GracePeriodApplied bool        `json:"grace_period_applied"`
	TotalHours         float64     `json:"total_hours"`
	OvertimeHours      float64     `json:"overtime_hours"`
	Status             EntryStatus `json:"status"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// RegularHours is derived; total and overtime are the stored pair.
func (e *TimeEntry) RegularHours() float64 {
	return e.TotalHours - e.OvertimeHours
}

func (e *TimeEntry) IsOpen() bool {
	return e.ClockOutTime == nil
}

// AdjustmentFact records one administrative correction. The engine returns
// it to the caller (and publishes it on the event bus) for an external audit
// collaborator to persist; no audit history is stored here.
type AdjustmentFact struct {
	TimeEntryID      int64      `json:"time_entry_id"`
	EmployeeID       int64      `json:"employee_id"`
	OriginalClockIn  time.Time  `json:"original_clock_in"`
	OriginalClockOut *time.Time `json:"original_clock_out,omitempty"`
	NewClockIn       time.Time  `json:"new_clock_in"`
	NewClockOut      time.Time  `json:"new_clock_out"`
	Reason           string     `json:"reason"`
	AdjustedBy       int64      `json:"adjusted_by"`
	AdjustedAt       time.Time  `json:"adjusted_at"`
}

var (
	ErrTimeEntryNotFound = internal.NewNotFoundError("time entry not found", internal.ErrCodeTimeEntryNotFound)
	ErrAlreadyClockedIn  = internal.NewConflictError("employee already has an open time entry", internal.ErrCodeAlreadyClockedIn)
	ErrAlreadyClockedOut = internal.NewStateError("time entry is already clocked out", internal.ErrCodeAlreadyClockedOut)
	ErrEntryStillOpen    = internal.NewStateError("time entry has not been clocked out yet", internal.ErrCodeAlreadyClockedIn)
	ErrNotTimeEntryOwner = internal.NewPermissionError("time entry belongs to another employee", internal.ErrCodeNotTimeEntryOwner)
)

func ToDataModel(e *TimeEntry) *attendanceDatamodel.TimeEntry {
	return &attendanceDatamodel.TimeEntry{
		ID:                 e.ID,
		EmployeeID:         e.EmployeeID,
		ShiftID:            e.ShiftID,
		ClockInTime:        e.ClockInTime,
		ClockOutTime:       e.ClockOutTime,
		ClockInLocation:    e.ClockInLocation,
		ClockOutLocation:   e.ClockOutLocation,
		ClockInIP:          e.ClockInIP,
		ClockOutIP:         e.ClockOutIP,
		ScheduledStartTime: e.ScheduledStartTime,
		ScheduledEndTime:   e.ScheduledEndTime,
		AdjustedStartTime:  e.AdjustedStartTime,
		AdjustedEndTime:    e.AdjustedEndTime,
		GracePeriodApplied: e.GracePeriodApplied,
		TotalHours:         e.TotalHours,
		OvertimeHours:      e.OvertimeHours,
		Status:             string(e.Status),
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

func FromDataModel(e *attendanceDatamodel.TimeEntry) *TimeEntry {
	return &TimeEntry{
		ID:                 e.ID,
		EmployeeID:         e.EmployeeID,
		ShiftID:            e.ShiftID,
		ClockInTime:        e.ClockInTime,
		ClockOutTime:       e.ClockOutTime,
		ClockInLocation:    e.ClockInLocation,
		ClockOutLocation:   e.ClockOutLocation,
		ClockInIP:          e.ClockInIP,
		ClockOutIP:         e.ClockOutIP,
		ScheduledStartTime: e.ScheduledStartTime,
		ScheduledEndTime:   e.ScheduledEndTime,
		AdjustedStartTime:  e.AdjustedStartTime,
		AdjustedEndTime:    e.AdjustedEndTime,
		GracePeriodApplied: e.GracePeriodApplied,
		TotalHours:         e.TotalHours,
		OvertimeHours:      e.OvertimeHours,
		Status:             EntryStatus(e.Status),
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

func FromDataModelSlice(entries []*attendanceDatamodel.TimeEntry) []*TimeEntry {
	result := make([]*TimeEntry, len(entries))
	for i, e := range entries {
		result[i] = FromDataModel(e)
	}
	return result
}
