package schedule

import (
	"errors"
	"time"
)

// CreateShiftDTO represents the request payload for scheduling a shift
type CreateShiftDTO struct {
	EmployeeID    int64     `json:"employee_id" validate:"required"`
	StartTime     time.Time `json:"start_time" validate:"required"`
	EndTime       time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	BreakDuration int       `json:"break_duration"`
	Position      *string   `json:"position,omitempty"`
	CreatedBy     int64     `json:"created_by"`
}

func (dto CreateShiftDTO) Validate() error {
	if dto.EmployeeID <= 0 {
		return errors.New("employee_id is required")
	}
	if dto.StartTime.IsZero() || dto.EndTime.IsZero() {
		return errors.New("start_time and end_time are required")
	}
	if !dto.EndTime.After(dto.StartTime) {
		return errors.New("end_time must be after start_time")
	}
	if dto.BreakDuration < 0 {
		return errors.New("break_duration cannot be negative")
	}
	if dto.BreakDuration > int(dto.EndTime.Sub(dto.StartTime)/time.Minute) {
		return errors.New("break_duration cannot exceed the shift length")
	}
	return nil
}

// UpdateShiftDTO carries optional edits; nil fields keep the stored value.
type UpdateShiftDTO struct {
	StartTime     *time.Time `json:"start_time,omitempty"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	BreakDuration *int       `json:"break_duration,omitempty"`
	Position      *string    `json:"position,omitempty"`
}

func (dto UpdateShiftDTO) Validate() error {
	if dto.StartTime != nil && dto.EndTime != nil && !dto.EndTime.After(*dto.StartTime) {
		return errors.New("end_time must be after start_time")
	}
	if dto.BreakDuration != nil && *dto.BreakDuration < 0 {
		return errors.New("break_duration cannot be negative")
	}
	return nil
}

// ChangesTimes reports whether the edit moves either end of the interval,
// which forces a fresh conflict re-validation.
func (dto UpdateShiftDTO) ChangesTimes() bool {
	return dto.StartTime != nil || dto.EndTime != nil
}

type CheckConflictDTO struct {
	EmployeeID     int64     `json:"employee_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	ExcludeShiftID *int64    `json:"exclude_shift_id,omitempty"`
}

func (dto CheckConflictDTO) Validate() error {
	if dto.EmployeeID <= 0 {
		return errors.New("employee_id is required")
	}
	if dto.StartTime.IsZero() || dto.EndTime.IsZero() {
		return errors.New("start_time and end_time are required")
	}
	if !dto.EndTime.After(dto.StartTime) {
		return errors.New("end_time must be after start_time")
	}
	return nil
}

type UpdateShiftStatusDTO struct {
	Status ShiftStatus `json:"status"`
}

func (dto UpdateShiftStatusDTO) Validate() error {
	if !dto.Status.IsValid() {
		return errors.New("status must be one of SCHEDULED, COMPLETED, CANCELLED, NO_SHOW")
	}
	return nil
}
