package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeTimeEntryAdjusted    = "attendance.time_entry.adjusted"
	EventTypePayrollBatchFinished = "payroll.batch.finished"
)

// TimeEntryAdjustedEvent carries an adjustment fact to whichever
// collaborator persists the audit trail. The engine itself stores nothing.
type TimeEntryAdjustedEvent struct {
	BaseEvent
	TimeEntryID      int64      `json:"time_entry_id"`
	EmployeeID       int64      `json:"employee_id"`
	OriginalClockIn  time.Time  `json:"original_clock_in"`
	OriginalClockOut *time.Time `json:"original_clock_out,omitempty"`
	NewClockIn       time.Time  `json:"new_clock_in"`
	NewClockOut      time.Time  `json:"new_clock_out"`
	Reason           string     `json:"reason"`
	AdjustedBy       int64      `json:"adjusted_by"`
}

func NewTimeEntryAdjustedEvent(timeEntryID, employeeID int64, originalClockIn time.Time, originalClockOut *time.Time, newClockIn, newClockOut time.Time, reason string, adjustedBy int64) *TimeEntryAdjustedEvent {
	return &TimeEntryAdjustedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTimeEntryAdjusted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"time_entry_id": timeEntryID,
				"employee_id":   employeeID,
				"reason":        reason,
				"adjusted_by":   adjustedBy,
			},
		},
		TimeEntryID:      timeEntryID,
		EmployeeID:       employeeID,
		OriginalClockIn:  originalClockIn,
		OriginalClockOut: originalClockOut,
		NewClockIn:       newClockIn,
		NewClockOut:      newClockOut,
		Reason:           reason,
		AdjustedBy:       adjustedBy,
	}
}

type PayrollBatchFinishedEvent struct {
	BaseEvent
	PayPeriodID  int64 `json:"pay_period_id"`
	SuccessCount int   `json:"success_count"`
	FailureCount int   `json:"failure_count"`
}

func NewPayrollBatchFinishedEvent(payPeriodID int64, successCount, failureCount int) *PayrollBatchFinishedEvent {
	return &PayrollBatchFinishedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePayrollBatchFinished,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"pay_period_id": payPeriodID,
				"success_count": successCount,
				"failure_count": failureCount,
			},
		},
		PayPeriodID:  payPeriodID,
		SuccessCount: successCount,
		FailureCount: failureCount,
	}
}
