package payroll

import (
	"time"

	"github.com/satriautama/attendance-management/internal"
	payrollDatamodel "github.com/satriautama/attendance-management/internal/core/datamodel/payroll"
)

// PeriodHalf selects the semi-monthly window: A covers days 1-15, B covers
// day 16 through the end of the month.
type PeriodHalf string

const (
	PeriodHalfFirst  PeriodHalf = "A"
	PeriodHalfSecond PeriodHalf = "B"
)

func (h PeriodHalf) IsValid() bool {
	return h == PeriodHalfFirst || h == PeriodHalfSecond
}

// PeriodStatus lifecycle: OPEN -> PROCESSING -> PAID. PAID is terminal and
// blocks deletion and payslip mutation. COMPLETED is declared for
// compatibility with stored rows but no transition produces it.
type PeriodStatus string

const (
	PeriodStatusOpen       PeriodStatus = "OPEN"
	PeriodStatusProcessing PeriodStatus = "PROCESSING"
	PeriodStatusCompleted  PeriodStatus = "COMPLETED"
	PeriodStatusPaid       PeriodStatus = "PAID"
)

func (s PeriodStatus) IsValid() bool {
	switch s {
	case PeriodStatusOpen, PeriodStatusProcessing, PeriodStatusCompleted, PeriodStatusPaid:
		return true
	}
	return false
}

func (s PeriodStatus) CanTransitionTo(next PeriodStatus) bool {
	switch s {
	case PeriodStatusOpen:
		return next == PeriodStatusProcessing
	case PeriodStatusProcessing:
		return next == PeriodStatusPaid
	case PeriodStatusCompleted, PeriodStatusPaid:
		return false
	}
	return false
}

type PayPeriod struct {
	ID        int64        `json:"id"`
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`
	PayDate   time.Time    `json:"pay_date"`
	Status    PeriodStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

var (
	ErrPayPeriodNotFound  = internal.NewNotFoundError("pay period not found", internal.ErrCodePayPeriodNotFound)
	ErrDuplicatePayPeriod = internal.NewConflictError("a pay period with these dates already exists", internal.ErrCodeDuplicatePayPeriod)
	ErrPayPeriodPaid      = internal.NewStateError("pay period is already paid and can no longer change", internal.ErrCodePayPeriodPaid)
)

func ToDataModel(p *PayPeriod) *payrollDatamodel.PayPeriod {
	return &payrollDatamodel.PayPeriod{
		ID:        p.ID,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		PayDate:   p.PayDate,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func FromDataModel(p *payrollDatamodel.PayPeriod) *PayPeriod {
	return &PayPeriod{
		ID:        p.ID,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		PayDate:   p.PayDate,
		Status:    PeriodStatus(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func FromDataModelSlice(periods []*payrollDatamodel.PayPeriod) []*PayPeriod {
	result := make([]*PayPeriod, len(periods))
	for i, p := range periods {
		result[i] = FromDataModel(p)
	}
	return result
}
