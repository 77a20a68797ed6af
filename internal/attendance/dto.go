package attendance

import (
	"errors"
	"time"
)

// ClockInDTO represents the request payload for punching in against a shift
type ClockInDTO struct {
	EmployeeID int64   `json:"employee_id" validate:"required"`
	ShiftID    int64   `json:"shift_id" validate:"required"`
	Location   *string `json:"location,omitempty"`
	IP         *string `json:"ip,omitempty"`
}

func (dto ClockInDTO) Validate() error {
	if dto.EmployeeID <= 0 {
		return errors.New("employee_id is required")
	}
	if dto.ShiftID <= 0 {
		return errors.New("shift_id is required")
	}
	return nil
}

type ClockOutDTO struct {
	Location *string `json:"location,omitempty"`
	IP       *string `json:"ip,omitempty"`
}

// AdjustDTO carries an administrative correction. Either side may be
// omitted; the stored punch is kept for the missing one.
type AdjustDTO struct {
	NewClockIn  *time.Time `json:"new_clock_in,omitempty"`
	NewClockOut *time.Time `json:"new_clock_out,omitempty"`
	Reason      string     `json:"reason" validate:"required"`
	AdjustedBy  int64      `json:"adjusted_by" validate:"required"`
}

func (dto AdjustDTO) Validate() error {
	if dto.NewClockIn == nil && dto.NewClockOut == nil {
		return errors.New("at least one of new_clock_in or new_clock_out is required")
	}
	if dto.Reason == "" {
		return errors.New("reason is required")
	}
	if dto.AdjustedBy <= 0 {
		return errors.New("adjusted_by is required")
	}
	return nil
}

// AdjustResult pairs the corrected entry with the adjustment fact the caller
// must hand to its audit store.
type AdjustResult struct {
	Entry *TimeEntry      `json:"entry"`
	Fact  *AdjustmentFact `json:"adjustment"`
}
