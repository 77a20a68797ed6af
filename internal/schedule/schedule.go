package schedule

import (
	"time"

	"github.com/satriautama/attendance-management/internal"
	scheduleDatamodel "github.com/satriautama/attendance-management/internal/core/datamodel/schedule"
)

// ShiftStatus is a closed set; transition functions switch over it
// exhaustively so a new status cannot slip through unhandled.
type ShiftStatus string

const (
	ShiftStatusScheduled ShiftStatus = "SCHEDULED"
	ShiftStatusCompleted ShiftStatus = "COMPLETED"
	ShiftStatusCancelled ShiftStatus = "CANCELLED"
	ShiftStatusNoShow    ShiftStatus = "NO_SHOW"
)

func (s ShiftStatus) IsValid() bool {
	switch s {
	case ShiftStatusScheduled, ShiftStatusCompleted, ShiftStatusCancelled, ShiftStatusNoShow:
		return true
	}
	return false
}

// CanTransitionTo reports whether a status change is allowed. Only scheduled
// shifts move; completed, cancelled and no-show are terminal.
func (s ShiftStatus) CanTransitionTo(next ShiftStatus) bool {
	switch s {
	case ShiftStatusScheduled:
		return next == ShiftStatusCompleted || next == ShiftStatusCancelled || next == ShiftStatusNoShow
	case ShiftStatusCompleted, ShiftStatusCancelled, ShiftStatusNoShow:
		return false
	}
	return false
}

type Shift struct {
	ID            int64       `json:"id"`
	EmployeeID    int64       `json:"employee_id"`
	StartTime     time.Time   `json:"start_time"`
	EndTime       time.Time   `json:"end_time"`
	BreakDuration int         `json:"break_duration"`
	Position      *string     `json:"position,omitempty"`
	Status        ShiftStatus `json:"status"`
	IsActive      bool        `json:"is_active"`
	CreatedBy     int64       `json:"created_by"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

var (
	ErrShiftNotFound = internal.NewNotFoundError("shift not found", internal.ErrCodeShiftNotFound)
	ErrShiftInactive = internal.NewStateError("shift is no longer active", internal.ErrCodeShiftInactive)
	ErrShiftOverlap  = internal.NewConflictError("shift overlaps an existing shift for this employee", internal.ErrCodeShiftOverlap)
)

func ToDataModel(s *Shift) *scheduleDatamodel.Shift {
	return &scheduleDatamodel.Shift{
		ID:            s.ID,
		EmployeeID:    s.EmployeeID,
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		BreakDuration: s.BreakDuration,
		Position:      s.Position,
		Status:        string(s.Status),
		IsActive:      s.IsActive,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func FromDataModel(s *scheduleDatamodel.Shift) *Shift {
	return &Shift{
		ID:            s.ID,
		EmployeeID:    s.EmployeeID,
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		BreakDuration: s.BreakDuration,
		Position:      s.Position,
		Status:        ShiftStatus(s.Status),
		IsActive:      s.IsActive,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func FromDataModelSlice(shifts []*scheduleDatamodel.Shift) []*Shift {
	result := make([]*Shift, len(shifts))
	for i, s := range shifts {
		result[i] = FromDataModel(s)
	}
	return result
}
