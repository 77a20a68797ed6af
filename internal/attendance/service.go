package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/satriautama/attendance-management/internal"
	"github.com/satriautama/attendance-management/internal/core/events"
	"github.com/satriautama/attendance-management/internal/schedule"
)

// Repository defines the data access methods for time entries.
// CreateOpenChecked must verify "no open entry for this employee" and insert
// in one transaction, returning ErrAlreadyClockedIn when the check fails;
// two racing clock-ins must never both produce open entries.
type Repository interface {
	CreateOpenChecked(entry *TimeEntry) error
	GetByID(id int64) (*TimeEntry, error)
	GetOpenByEmployee(employeeID int64) (*TimeEntry, error)
	Update(entry *TimeEntry) error
	ListByEmployee(employeeID int64, from, to time.Time) ([]*TimeEntry, error)
}

// ShiftGetter is the slice of the schedule repository the clock needs.
type ShiftGetter interface {
	GetByID(id int64) (*schedule.Shift, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

var ErrShiftNotOwned = internal.NewPermissionError("shift is assigned to another employee", internal.ErrCodeShiftNotOwned)

// Service handles the attendance clock state machine
type Service struct {
	repo   Repository
	shifts ShiftGetter
	bus    EventPublisher
	cfg    internal.AttendanceConfig
	logger *slog.Logger

	// Now is the clock source; tests override it to pin punch times.
	Now func() time.Time
}

func NewService(repo Repository, shifts ShiftGetter, bus EventPublisher, cfg internal.AttendanceConfig, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		shifts: shifts,
		bus:    bus,
		cfg:    cfg,
		logger: logger,
		Now:    time.Now,
	}
}

// ClockIn opens a time entry against a shift. Preconditions run in a fixed
// order, each with its own failure kind: shift exists, shift active, shift
// ownership, punch not before the clock-in window, no open entry yet.
func (s *Service) ClockIn(dto ClockInDTO) (*TimeEntry, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("clock-in validation failed", "error", err, "employee_id", dto.EmployeeID)
		return nil, err
	}

	shift, err := s.shifts.GetByID(dto.ShiftID)
	if err != nil {
		s.logger.Error("shift not found for clock-in", "error", err, "shift_id", dto.ShiftID)
		return nil, schedule.ErrShiftNotFound
	}
	if !shift.IsActive {
		s.logger.Warn("clock-in against inactive shift", "shift_id", shift.ID, "employee_id", dto.EmployeeID)
		return nil, schedule.ErrShiftInactive
	}
	if shift.EmployeeID != dto.EmployeeID {
		s.logger.Warn("clock-in against another employee's shift",
			"shift_id", shift.ID,
			"shift_employee_id", shift.EmployeeID,
			"employee_id", dto.EmployeeID)
		return nil, ErrShiftNotOwned
	}

	now := s.Now()
	earliest := shift.StartTime.Add(-s.cfg.ClockInWindow())
	if now.Before(earliest) {
		return nil, internal.NewTooEarlyError(
			fmt.Sprintf("clock-in opens at %s", earliest.Format(time.RFC3339)),
			internal.ErrCodeClockInTooEarly)
	}

	adjustedStart, graceApplied := GracePeriod(now, shift.StartTime, s.cfg.GraceWindow())

	shiftID := shift.ID
	entry := &TimeEntry{
		EmployeeID:         dto.EmployeeID,
		ShiftID:            &shiftID,
		ClockInTime:        now,
		ClockInLocation:    dto.Location,
		ClockInIP:          dto.IP,
		ScheduledStartTime: shift.StartTime,
		ScheduledEndTime:   shift.EndTime,
		AdjustedStartTime:  &adjustedStart,
		GracePeriodApplied: graceApplied,
		Status:             EntryStatusClockedIn,
	}

	if err := s.repo.CreateOpenChecked(entry); err != nil {
		s.logger.Error("failed to create time entry", "error", err, "employee_id", dto.EmployeeID, "shift_id", shift.ID)
		return nil, err
	}

	s.logger.Info("employee clocked in",
		"time_entry_id", entry.ID,
		"employee_id", entry.EmployeeID,
		"shift_id", shift.ID,
		"grace_applied", graceApplied)

	return entry, nil
}

// ClockOut closes an open entry: grace-corrects the end punch, rounds both
// adjusted ends independently and splits hours at the per-shift overtime
// threshold. Only the entry's owner may clock out unless the caller is
// privileged.
func (s *Service) ClockOut(timeEntryID int64, dto ClockOutDTO, callerID int64, privileged bool) (*TimeEntry, error) {
	entry, err := s.repo.GetByID(timeEntryID)
	if err != nil {
		s.logger.Error("time entry not found for clock-out", "error", err, "time_entry_id", timeEntryID)
		return nil, ErrTimeEntryNotFound
	}

	switch entry.Status {
	case EntryStatusClockedIn:
		// proceeds below
	case EntryStatusClockedOut, EntryStatusAdjusted:
		return nil, ErrAlreadyClockedOut
	default:
		return nil, internal.NewStateError(
			fmt.Sprintf("time entry has unknown status %q", entry.Status),
			internal.ErrCodeAlreadyClockedOut)
	}

	if !privileged && callerID != entry.EmployeeID {
		s.logger.Warn("clock-out denied: caller does not own entry",
			"time_entry_id", timeEntryID,
			"caller_id", callerID,
			"employee_id", entry.EmployeeID)
		return nil, ErrNotTimeEntryOwner
	}

	now := s.Now()
	adjustedEnd, graceAppliedOut := GracePeriod(now, entry.ScheduledEndTime, s.cfg.GraceWindow())

	adjustedStart := entry.ClockInTime
	if entry.AdjustedStartTime != nil {
		adjustedStart = *entry.AdjustedStartTime
	}

	roundedStart, roundedEnd, hours := WorkedHours(adjustedStart, adjustedEnd)
	regular, overtime := SplitHours(hours, s.cfg.OvertimeThresholdHours)

	entry.ClockOutTime = &now
	entry.ClockOutLocation = dto.Location
	entry.ClockOutIP = dto.IP
	entry.AdjustedStartTime = &roundedStart
	entry.AdjustedEndTime = &roundedEnd
	entry.GracePeriodApplied = entry.GracePeriodApplied || graceAppliedOut
	entry.TotalHours = hours
	entry.OvertimeHours = overtime
	entry.Status = EntryStatusClockedOut

	if err := s.repo.Update(entry); err != nil {
		s.logger.Error("failed to close time entry", "error", err, "time_entry_id", timeEntryID)
		return nil, err
	}

	s.logger.Info("employee clocked out",
		"time_entry_id", entry.ID,
		"employee_id", entry.EmployeeID,
		"total_hours", hours,
		"regular_hours", regular,
		"overtime_hours", overtime)

	return entry, nil
}

// Adjust applies an administrative correction to a closed entry. Grace and
// rounding re-derive exactly as clock-in/out would, from whichever punches
// were supplied (falling back to the stored ones). The pre-adjustment
// timestamps are returned as an adjustment fact and published for the audit
// collaborator; the engine keeps no history itself.
func (s *Service) Adjust(timeEntryID int64, dto AdjustDTO) (*AdjustResult, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("adjustment validation failed", "error", err, "time_entry_id", timeEntryID)
		return nil, err
	}

	entry, err := s.repo.GetByID(timeEntryID)
	if err != nil {
		s.logger.Error("time entry not found for adjustment", "error", err, "time_entry_id", timeEntryID)
		return nil, ErrTimeEntryNotFound
	}

	switch entry.Status {
	case EntryStatusClockedOut, EntryStatusAdjusted:
		// both are adjustable; an adjusted entry may be corrected again
	case EntryStatusClockedIn:
		return nil, ErrEntryStillOpen
	default:
		return nil, internal.NewStateError(
			fmt.Sprintf("time entry has unknown status %q", entry.Status),
			internal.ErrCodeAlreadyClockedOut)
	}

	newClockIn := entry.ClockInTime
	if dto.NewClockIn != nil {
		newClockIn = *dto.NewClockIn
	}
	newClockOut := *entry.ClockOutTime
	if dto.NewClockOut != nil {
		newClockOut = *dto.NewClockOut
	}

	fact := &AdjustmentFact{
		TimeEntryID:      entry.ID,
		EmployeeID:       entry.EmployeeID,
		OriginalClockIn:  entry.ClockInTime,
		OriginalClockOut: entry.ClockOutTime,
		NewClockIn:       newClockIn,
		NewClockOut:      newClockOut,
		Reason:           dto.Reason,
		AdjustedBy:       dto.AdjustedBy,
		AdjustedAt:       s.Now(),
	}

	adjustedStart, graceIn := GracePeriod(newClockIn, entry.ScheduledStartTime, s.cfg.GraceWindow())
	adjustedEnd, graceOut := GracePeriod(newClockOut, entry.ScheduledEndTime, s.cfg.GraceWindow())
	roundedStart, roundedEnd, hours := WorkedHours(adjustedStart, adjustedEnd)
	_, overtime := SplitHours(hours, s.cfg.OvertimeThresholdHours)

	clockOut := newClockOut
	entry.ClockInTime = newClockIn
	entry.ClockOutTime = &clockOut
	entry.AdjustedStartTime = &roundedStart
	entry.AdjustedEndTime = &roundedEnd
	entry.GracePeriodApplied = graceIn || graceOut
	entry.TotalHours = hours
	entry.OvertimeHours = overtime
	entry.Status = EntryStatusAdjusted

	if err := s.repo.Update(entry); err != nil {
		s.logger.Error("failed to save adjusted entry", "error", err, "time_entry_id", timeEntryID)
		return nil, err
	}

	if s.bus != nil {
		event := events.NewTimeEntryAdjustedEvent(
			fact.TimeEntryID, fact.EmployeeID,
			fact.OriginalClockIn, fact.OriginalClockOut,
			fact.NewClockIn, fact.NewClockOut,
			fact.Reason, fact.AdjustedBy)
		if err := s.bus.Publish(context.Background(), event); err != nil {
			s.logger.Error("failed to publish adjustment event", "error", err, "time_entry_id", timeEntryID)
		}
	}

	s.logger.Info("time entry adjusted",
		"time_entry_id", entry.ID,
		"employee_id", entry.EmployeeID,
		"adjusted_by", dto.AdjustedBy,
		"total_hours", hours)

	return &AdjustResult{Entry: entry, Fact: fact}, nil
}

func (s *Service) GetEntry(timeEntryID int64) (*TimeEntry, error) {
	entry, err := s.repo.GetByID(timeEntryID)
	if err != nil {
		return nil, ErrTimeEntryNotFound
	}
	return entry, nil
}

// GetOpenEntry returns the employee's open entry, or nil when none exists.
func (s *Service) GetOpenEntry(employeeID int64) (*TimeEntry, error) {
	return s.repo.GetOpenByEmployee(employeeID)
}

func (s *Service) ListEmployeeEntries(employeeID int64, from, to time.Time) ([]*TimeEntry, error) {
	entries, err := s.repo.ListByEmployee(employeeID, from, to)
	if err != nil {
		s.logger.Error("failed to list time entries", "error", err, "employee_id", employeeID)
		return nil, err
	}
	return entries, nil
}
