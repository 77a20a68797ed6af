package attendance_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/satriautama/attendance-management/internal"
	"github.com/satriautama/attendance-management/internal/attendance"
	"github.com/satriautama/attendance-management/internal/core/events"
	"github.com/satriautama/attendance-management/internal/schedule"
)

// Mock repository for testing. CreateOpenChecked enforces the one-open-entry
// rule the way the transactional repository does.
type mockTimeEntryRepository struct {
	entries     map[int64]*attendance.TimeEntry
	createError error
	getError    error
	updateError error
	nextID      int64
}

func newMockTimeEntryRepository() *mockTimeEntryRepository {
	return &mockTimeEntryRepository{
		entries: make(map[int64]*attendance.TimeEntry),
		nextID:  1,
	}
}

func (m *mockTimeEntryRepository) CreateOpenChecked(entry *attendance.TimeEntry) error {
	if m.createError != nil {
		return m.createError
	}
	for _, e := range m.entries {
		if e.EmployeeID == entry.EmployeeID && e.ClockOutTime == nil {
			return attendance.ErrAlreadyClockedIn
		}
	}
	entry.ID = m.nextID
	m.nextID++
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = time.Now()
	m.entries[entry.ID] = entry
	return nil
}

func (m *mockTimeEntryRepository) GetByID(id int64) (*attendance.TimeEntry, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	e, exists := m.entries[id]
	if !exists {
		return nil, errors.New("time entry not found")
	}
	return e, nil
}

func (m *mockTimeEntryRepository) GetOpenByEmployee(employeeID int64) (*attendance.TimeEntry, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for _, e := range m.entries {
		if e.EmployeeID == employeeID && e.ClockOutTime == nil {
			return e, nil
		}
	}
	return nil, nil
}

func (m *mockTimeEntryRepository) Update(entry *attendance.TimeEntry) error {
	if m.updateError != nil {
		return m.updateError
	}
	entry.UpdatedAt = time.Now()
	m.entries[entry.ID] = entry
	return nil
}

func (m *mockTimeEntryRepository) ListByEmployee(employeeID int64, from, to time.Time) ([]*attendance.TimeEntry, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	var result []*attendance.TimeEntry
	for _, e := range m.entries {
		if e.EmployeeID == employeeID && !e.ClockInTime.Before(from) && !e.ClockInTime.After(to) {
			result = append(result, e)
		}
	}
	return result, nil
}

// Mock shift getter for testing
type mockShiftGetter struct {
	shifts   map[int64]*schedule.Shift
	getError error
}

func newMockShiftGetter() *mockShiftGetter {
	return &mockShiftGetter{shifts: make(map[int64]*schedule.Shift)}
}

func (m *mockShiftGetter) GetByID(id int64) (*schedule.Shift, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	s, exists := m.shifts[id]
	if !exists {
		return nil, errors.New("shift not found")
	}
	return s, nil
}

// Mock event publisher that records what was published
type mockEventPublisher struct {
	published    []events.Event
	publishError error
}

func (m *mockEventPublisher) Publish(ctx context.Context, event events.Event) error {
	if m.publishError != nil {
		return m.publishError
	}
	m.published = append(m.published, event)
	return nil
}

var _ = Describe("AttendanceService", func() {
	var (
		attendanceService *attendance.Service
		mockRepo          *mockTimeEntryRepository
		mockShifts        *mockShiftGetter
		mockBus           *mockEventPublisher
		logger            *slog.Logger
	)

	cfg := internal.AttendanceConfig{
		ClockInWindowMinutes:   5,
		GraceWindowMinutes:     5,
		OvertimeThresholdHours: 8,
	}

	shiftStart := clock(9, 0)
	shiftEnd := clock(17, 0)

	addShift := func(id, employeeID int64) {
		mockShifts.shifts[id] = &schedule.Shift{
			ID:         id,
			EmployeeID: employeeID,
			StartTime:  shiftStart,
			EndTime:    shiftEnd,
			Status:     schedule.ShiftStatusScheduled,
			IsActive:   true,
		}
	}

	pinClock := func(t time.Time) {
		attendanceService.Now = func() time.Time { return t }
	}

	BeforeEach(func() {
		mockRepo = newMockTimeEntryRepository()
		mockShifts = newMockShiftGetter()
		mockBus = &mockEventPublisher{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		attendanceService = attendance.NewService(mockRepo, mockShifts, mockBus, cfg, logger)
	})

	Describe("ClockIn", func() {
		BeforeEach(func() {
			addShift(1, 42)
		})

		Context("when punching a few minutes late", func() {
			It("should open the entry with the start snapped to schedule", func() {
				// Given
				pinClock(clock(9, 3))

				// When
				entry, err := attendanceService.ClockIn(attendance.ClockInDTO{EmployeeID: 42, ShiftID: 1})

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(entry.Status).To(Equal(attendance.EntryStatusClockedIn))
				Expect(entry.ClockInTime).To(Equal(clock(9, 3)))
				Expect(*entry.AdjustedStartTime).To(Equal(shiftStart))
				Expect(entry.GracePeriodApplied).To(BeTrue())
			})
		})

		Context("when punching outside the grace window", func() {
			It("should keep the actual punch as the adjusted start", func() {
				pinClock(clock(9, 12))

				entry, err := attendanceService.ClockIn(attendance.ClockInDTO{EmployeeID: 42, ShiftID: 1})

				Expect(err).ToNot(HaveOccurred())
				Expect(*entry.AdjustedStartTime).To(Equal(clock(9, 12)))
				Expect(entry.GracePeriodApplied).To(BeFalse())
			})
		})

		Context("when punching before the clock-in window", func() {
			It("should reject with a too-early error", func() {
				pinClock(clock(8, 54))

				_, err := attendanceService.ClockIn(attendance.ClockInDTO{EmployeeID: 42, ShiftID: 1})

				Expect(err).To(HaveOccurred())
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeClockInTooEarly))
			})

			It("should accept a punch exactly at the window boundary", func() {
				pinClock(clock(8, 55))

				entry, err := attendanceService.ClockIn(attendance.ClockInDTO{EmployeeID: 42, ShiftID: 1})

				Expect(err).ToNot(HaveOccurred())
				Expect(*entry.AdjustedStartTime).To(Equal(shiftStart))
			})
		})

		Context("when the shift belongs to someone else", func() {
			It("should reject with a permission error", func() {
				pinClock(clock(9, 0))

				_, err := attendanceService.ClockIn(attendance.ClockInDTO{EmployeeID: 43, ShiftID: 1})

				Expect(err).To(MatchError(attendance.ErrShiftNotOwned))
			})
		})

		Context("when the shift does not exist", func() {
			It("should return shift not found", func() {
				pinClock(clock(9, 0))

				_, err := attendanceService.ClockIn(attendance.ClockInDTO{EmployeeID: 42, ShiftID: 99})

				Expect(err).To(MatchError(schedule.ErrShiftNotFound))
			})
		})

		Context("when the shift is inactive", func() {
			It("should reject the punch", func() {
				addShift(2, 42)
				mockShifts.shifts[2].IsActive = false
				pinClock(clock(9, 0))

				_, err := attendanceService.ClockIn(attendance.ClockInDTO{EmployeeID: 42, ShiftID: 2})

				Expect(err).To(MatchError(schedule.ErrShiftInactive))
			})
		})

		Context("when the employee already has an open entry", func() {
			It("should reject the second punch", func() {
				pinClock(clock(9, 0))
				_, err := attendanceService.ClockIn(attendance.ClockInDTO{EmployeeID: 42, ShiftID: 1})
				Expect(err).ToNot(HaveOccurred())

				_, err = attendanceService.ClockIn(attendance.ClockInDTO{EmployeeID: 42, ShiftID: 1})

				Expect(err).To(MatchError(attendance.ErrAlreadyClockedIn))
			})
		})
	})

	Describe("ClockOut", func() {
		var entryID int64

		BeforeEach(func() {
			addShift(1, 42)
			pinClock(clock(9, 3))
			entry, err := attendanceService.ClockIn(attendance.ClockInDTO{EmployeeID: 42, ShiftID: 1})
			Expect(err).ToNot(HaveOccurred())
			entryID = entry.ID
		})

		Context("when clocking out near the scheduled end", func() {
			It("should close the entry with a full regular day", func() {
				// Given: 17:04 snaps to 17:00
				pinClock(clock(17, 4))

				// When
				entry, err := attendanceService.ClockOut(entryID, attendance.ClockOutDTO{}, 42, false)

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(entry.Status).To(Equal(attendance.EntryStatusClockedOut))
				Expect(*entry.AdjustedStartTime).To(Equal(clock(9, 0)))
				Expect(*entry.AdjustedEndTime).To(Equal(clock(17, 0)))
				Expect(entry.TotalHours).To(Equal(8.0))
				Expect(entry.OvertimeHours).To(BeZero())
			})
		})

		Context("when working past the overtime threshold", func() {
			It("should split the excess into overtime", func() {
				// 19:30: outside grace, rounds to 19:30; 9:00 through 19:30 is 10.5h
				pinClock(clock(19, 30))

				entry, err := attendanceService.ClockOut(entryID, attendance.ClockOutDTO{}, 42, false)

				Expect(err).ToNot(HaveOccurred())
				Expect(entry.TotalHours).To(Equal(10.5))
				Expect(entry.OvertimeHours).To(Equal(2.5))
				Expect(entry.RegularHours()).To(Equal(8.0))
			})
		})

		Context("when the punch needs rounding", func() {
			It("should round the adjusted end to the nearest breakpoint", func() {
				// 17:20 is outside grace and rounds to 17:15
				pinClock(clock(17, 20))

				entry, err := attendanceService.ClockOut(entryID, attendance.ClockOutDTO{}, 42, false)

				Expect(err).ToNot(HaveOccurred())
				Expect(*entry.AdjustedEndTime).To(Equal(clock(17, 15)))
				Expect(entry.TotalHours).To(Equal(8.25))
			})
		})

		Context("when the entry is already closed", func() {
			It("should reject a second clock-out", func() {
				pinClock(clock(17, 0))
				_, err := attendanceService.ClockOut(entryID, attendance.ClockOutDTO{}, 42, false)
				Expect(err).ToNot(HaveOccurred())

				_, err = attendanceService.ClockOut(entryID, attendance.ClockOutDTO{}, 42, false)

				Expect(err).To(MatchError(attendance.ErrAlreadyClockedOut))
			})
		})

		Context("when the caller does not own the entry", func() {
			It("should reject a non-privileged caller", func() {
				pinClock(clock(17, 0))

				_, err := attendanceService.ClockOut(entryID, attendance.ClockOutDTO{}, 77, false)

				Expect(err).To(MatchError(attendance.ErrNotTimeEntryOwner))
			})

			It("should allow a privileged caller", func() {
				pinClock(clock(17, 0))

				entry, err := attendanceService.ClockOut(entryID, attendance.ClockOutDTO{}, 77, true)

				Expect(err).ToNot(HaveOccurred())
				Expect(entry.Status).To(Equal(attendance.EntryStatusClockedOut))
			})
		})

		Context("when the entry does not exist", func() {
			It("should return not found", func() {
				_, err := attendanceService.ClockOut(999, attendance.ClockOutDTO{}, 42, false)

				Expect(err).To(MatchError(attendance.ErrTimeEntryNotFound))
			})
		})
	})

	Describe("Adjust", func() {
		var entryID int64

		BeforeEach(func() {
			addShift(1, 42)
			pinClock(clock(9, 3))
			entry, err := attendanceService.ClockIn(attendance.ClockInDTO{EmployeeID: 42, ShiftID: 1})
			Expect(err).ToNot(HaveOccurred())
			entryID = entry.ID

			pinClock(clock(17, 4))
			_, err = attendanceService.ClockOut(entryID, attendance.ClockOutDTO{}, 42, false)
			Expect(err).ToNot(HaveOccurred())
		})

		Context("when correcting the clock-out punch", func() {
			It("should re-derive grace, rounding and overtime", func() {
				// Given: forgot to clock out until much later, corrected to 18:20
				newOut := clock(18, 20)
				pinClock(clock(18, 30))

				// When
				result, err := attendanceService.Adjust(entryID, attendance.AdjustDTO{
					NewClockOut: &newOut,
					Reason:      "forgot badge at terminal",
					AdjustedBy:  7,
				})

				// Then: 18:20 rounds to 18:15; 9:00 through 18:15 is 9.25h
				Expect(err).ToNot(HaveOccurred())
				Expect(result.Entry.Status).To(Equal(attendance.EntryStatusAdjusted))
				Expect(*result.Entry.AdjustedEndTime).To(Equal(clock(18, 15)))
				Expect(result.Entry.TotalHours).To(Equal(9.25))
				Expect(result.Entry.OvertimeHours).To(Equal(1.25))
			})

			It("should return an adjustment fact with the original punches", func() {
				newOut := clock(18, 0)
				pinClock(clock(18, 30))

				result, err := attendanceService.Adjust(entryID, attendance.AdjustDTO{
					NewClockOut: &newOut,
					Reason:      "missed punch",
					AdjustedBy:  7,
				})

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Fact.OriginalClockIn).To(Equal(clock(9, 3)))
				Expect(result.Fact.OriginalClockOut).ToNot(BeNil())
				Expect(*result.Fact.OriginalClockOut).To(Equal(clock(17, 4)))
				Expect(result.Fact.NewClockOut).To(Equal(newOut))
				Expect(result.Fact.AdjustedBy).To(Equal(int64(7)))
			})

			It("should publish an adjustment event", func() {
				newOut := clock(18, 0)
				pinClock(clock(18, 30))

				_, err := attendanceService.Adjust(entryID, attendance.AdjustDTO{
					NewClockOut: &newOut,
					Reason:      "missed punch",
					AdjustedBy:  7,
				})

				Expect(err).ToNot(HaveOccurred())
				Expect(mockBus.published).To(HaveLen(1))
				Expect(mockBus.published[0].EventType()).To(Equal(events.EventTypeTimeEntryAdjusted))
			})
		})

		Context("when the entry is still open", func() {
			It("should reject the adjustment", func() {
				addShift(2, 43)
				pinClock(clock(9, 0))
				open, err := attendanceService.ClockIn(attendance.ClockInDTO{EmployeeID: 43, ShiftID: 2})
				Expect(err).ToNot(HaveOccurred())

				newOut := clock(17, 0)
				_, err = attendanceService.Adjust(open.ID, attendance.AdjustDTO{
					NewClockOut: &newOut,
					Reason:      "early correction",
					AdjustedBy:  7,
				})

				Expect(err).To(MatchError(attendance.ErrEntryStillOpen))
			})
		})

		Context("when an adjusted entry is corrected again", func() {
			It("should allow the second adjustment", func() {
				firstOut := clock(18, 0)
				pinClock(clock(18, 30))
				_, err := attendanceService.Adjust(entryID, attendance.AdjustDTO{
					NewClockOut: &firstOut,
					Reason:      "first correction",
					AdjustedBy:  7,
				})
				Expect(err).ToNot(HaveOccurred())

				secondOut := clock(17, 30)
				result, err := attendanceService.Adjust(entryID, attendance.AdjustDTO{
					NewClockOut: &secondOut,
					Reason:      "second correction",
					AdjustedBy:  7,
				})

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Entry.Status).To(Equal(attendance.EntryStatusAdjusted))
				Expect(*result.Entry.AdjustedEndTime).To(Equal(clock(17, 30)))
			})
		})

		Context("when the payload is incomplete", func() {
			It("should require at least one new punch", func() {
				_, err := attendanceService.Adjust(entryID, attendance.AdjustDTO{
					Reason:     "no changes",
					AdjustedBy: 7,
				})

				Expect(err).To(HaveOccurred())
			})

			It("should require a reason", func() {
				newOut := clock(18, 0)

				_, err := attendanceService.Adjust(entryID, attendance.AdjustDTO{
					NewClockOut: &newOut,
					AdjustedBy:  7,
				})

				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("GetOpenEntry", func() {
		It("should return nil when the employee has no open entry", func() {
			entry, err := attendanceService.GetOpenEntry(42)

			Expect(err).ToNot(HaveOccurred())
			Expect(entry).To(BeNil())
		})
	})
})
