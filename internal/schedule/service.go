package schedule

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/satriautama/attendance-management/internal"
)

// Repository defines the data access methods for shifts. CreateChecked and
// UpdateChecked must run the supplied check and the write inside one
// transaction so a concurrent insert cannot slip between the overlap check
// and the save.
type Repository interface {
	Create(shift *Shift) error
	CreateChecked(shift *Shift, check func(existing []*Shift) error) error
	UpdateChecked(shift *Shift, check func(existing []*Shift) error) error
	GetByID(id int64) (*Shift, error)
	GetActiveByEmployee(employeeID int64, excludeShiftID *int64) ([]*Shift, error)
	ListByEmployee(employeeID int64, from, to time.Time) ([]*Shift, error)
	Update(shift *Shift) error
}

// Service handles shift scheduling business logic
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// CheckConflict runs the overlap test for a requested interval against the
// employee's active shifts. An empty conflict list is a normal result, not
// an error.
func (s *Service) CheckConflict(dto CheckConflictDTO) (*ConflictResult, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("conflict check validation failed", "error", err, "employee_id", dto.EmployeeID)
		return nil, err
	}

	existing, err := s.repo.GetActiveByEmployee(dto.EmployeeID, dto.ExcludeShiftID)
	if err != nil {
		s.logger.Error("failed to load shifts for conflict check", "error", err, "employee_id", dto.EmployeeID)
		return nil, err
	}

	result := DetectConflicts(dto.StartTime, dto.EndTime, existing)
	return &result, nil
}

// CreateShift schedules a new shift after verifying it does not overlap any
// active shift of the same employee. The check and the insert run in one
// transaction.
func (s *Service) CreateShift(dto CreateShiftDTO) (*Shift, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("shift validation failed", "error", err, "employee_id", dto.EmployeeID)
		return nil, err
	}

	shift := &Shift{
		EmployeeID:    dto.EmployeeID,
		StartTime:     dto.StartTime,
		EndTime:       dto.EndTime,
		BreakDuration: dto.BreakDuration,
		Position:      dto.Position,
		Status:        ShiftStatusScheduled,
		IsActive:      true,
		CreatedBy:     dto.CreatedBy,
	}

	err := s.repo.CreateChecked(shift, func(existing []*Shift) error {
		result := DetectConflicts(dto.StartTime, dto.EndTime, existing)
		if result.HasConflict {
			s.logger.Warn("shift creation rejected: overlap",
				"employee_id", dto.EmployeeID,
				"conflicts", len(result.Conflicts))
			return ErrShiftOverlap.WithDetails(result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("shift created",
		"shift_id", shift.ID,
		"employee_id", shift.EmployeeID,
		"start_time", shift.StartTime,
		"end_time", shift.EndTime)

	return shift, nil
}

// UpdateShift edits a shift. When either end of the interval moves, the edit
// is re-validated for conflicts with the shift itself excluded.
func (s *Service) UpdateShift(shiftID int64, dto UpdateShiftDTO) (*Shift, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("shift update validation failed", "error", err, "shift_id", shiftID)
		return nil, err
	}

	shift, err := s.repo.GetByID(shiftID)
	if err != nil {
		s.logger.Error("shift not found for update", "error", err, "shift_id", shiftID)
		return nil, ErrShiftNotFound
	}
	if !shift.IsActive {
		return nil, ErrShiftInactive
	}

	if dto.StartTime != nil {
		shift.StartTime = *dto.StartTime
	}
	if dto.EndTime != nil {
		shift.EndTime = *dto.EndTime
	}
	if !shift.EndTime.After(shift.StartTime) {
		return nil, internal.NewValidationError("end_time must be after start_time", internal.ErrCodeInvalidTimeRange)
	}
	if dto.BreakDuration != nil {
		shift.BreakDuration = *dto.BreakDuration
	}
	if dto.Position != nil {
		shift.Position = dto.Position
	}

	if dto.ChangesTimes() {
		err = s.repo.UpdateChecked(shift, func(existing []*Shift) error {
			result := DetectConflicts(shift.StartTime, shift.EndTime, existing)
			if result.HasConflict {
				s.logger.Warn("shift update rejected: overlap",
					"shift_id", shiftID,
					"conflicts", len(result.Conflicts))
				return ErrShiftOverlap.WithDetails(result)
			}
			return nil
		})
	} else {
		err = s.repo.Update(shift)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("shift updated", "shift_id", shift.ID, "employee_id", shift.EmployeeID)
	return shift, nil
}

// UpdateShiftStatus moves a shift through its lifecycle. Terminal statuses
// reject further transitions.
func (s *Service) UpdateShiftStatus(shiftID int64, status ShiftStatus) (*Shift, error) {
	if err := (UpdateShiftStatusDTO{Status: status}).Validate(); err != nil {
		return nil, err
	}

	shift, err := s.repo.GetByID(shiftID)
	if err != nil {
		s.logger.Error("shift not found for status update", "error", err, "shift_id", shiftID)
		return nil, ErrShiftNotFound
	}

	if !shift.Status.CanTransitionTo(status) {
		s.logger.Warn("invalid shift status transition",
			"shift_id", shiftID,
			"from", shift.Status,
			"to", status)
		return nil, internal.NewStateError(
			fmt.Sprintf("shift cannot move from %s to %s", shift.Status, status),
			internal.ErrCodeShiftInactive)
	}

	shift.Status = status
	if err := s.repo.Update(shift); err != nil {
		s.logger.Error("failed to update shift status", "error", err, "shift_id", shiftID)
		return nil, err
	}

	s.logger.Info("shift status updated", "shift_id", shiftID, "status", status)
	return shift, nil
}

// DeactivateShift soft-deletes a shift; rows are never hard-deleted.
func (s *Service) DeactivateShift(shiftID int64) error {
	shift, err := s.repo.GetByID(shiftID)
	if err != nil {
		s.logger.Error("shift not found for deactivation", "error", err, "shift_id", shiftID)
		return ErrShiftNotFound
	}
	if !shift.IsActive {
		return ErrShiftInactive
	}

	shift.IsActive = false
	if err := s.repo.Update(shift); err != nil {
		s.logger.Error("failed to deactivate shift", "error", err, "shift_id", shiftID)
		return err
	}

	s.logger.Info("shift deactivated", "shift_id", shiftID, "employee_id", shift.EmployeeID)
	return nil
}

func (s *Service) GetShift(shiftID int64) (*Shift, error) {
	shift, err := s.repo.GetByID(shiftID)
	if err != nil {
		return nil, ErrShiftNotFound
	}
	return shift, nil
}

func (s *Service) ListEmployeeShifts(employeeID int64, from, to time.Time) ([]*Shift, error) {
	shifts, err := s.repo.ListByEmployee(employeeID, from, to)
	if err != nil {
		s.logger.Error("failed to list shifts", "error", err, "employee_id", employeeID)
		return nil, err
	}
	return shifts, nil
}
