package payroll

import (
	"errors"
	"time"
)

// CreatePeriodDTO represents the request payload for creating a pay period
type CreatePeriodDTO struct {
	Year  int        `json:"year" validate:"required"`
	Month time.Month `json:"month" validate:"required,min=1,max=12"`
	Half  PeriodHalf `json:"half" validate:"required,oneof=A B"`
}

func (dto CreatePeriodDTO) Validate() error {
	if dto.Year < 2000 || dto.Year > 2200 {
		return errors.New("year is out of range")
	}
	if dto.Month < time.January || dto.Month > time.December {
		return errors.New("month must be between 1 and 12")
	}
	if !dto.Half.IsValid() {
		return errors.New("half must be A or B")
	}
	return nil
}

type CalculateEmployeeDTO struct {
	EmployeeID  int64 `json:"employee_id" validate:"required"`
	PayPeriodID int64 `json:"pay_period_id" validate:"required"`
}

func (dto CalculateEmployeeDTO) Validate() error {
	if dto.EmployeeID <= 0 {
		return errors.New("employee_id is required")
	}
	if dto.PayPeriodID <= 0 {
		return errors.New("pay_period_id is required")
	}
	return nil
}

type BatchCalculateDTO struct {
	EmployeeIDs []int64 `json:"employee_ids,omitempty"`
}

// PayrollCalculationResult is one employee's figures for one period,
// produced fresh on every call. Monetary fields are integer cents.
type PayrollCalculationResult struct {
	EmployeeID    int64   `json:"employee_id"`
	PayPeriodID   int64   `json:"pay_period_id"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	TotalHours    float64 `json:"total_hours"`
	RegularPay    Cents   `json:"regular_pay_cents"`
	OvertimePay   Cents   `json:"overtime_pay_cents"`
	GrossPay      Cents   `json:"gross_pay_cents"`
	Deductions    Cents   `json:"deductions_cents"`
	NetPay        Cents   `json:"net_pay_cents"`
	EntryCount    int     `json:"entry_count"`

	// UsedDefaultHours flags the salaried fallback: the hours above came
	// from configuration, not punches, and need review.
	UsedDefaultHours bool `json:"used_default_hours"`
}

// BatchFailure records one employee whose computation failed; the batch
// itself continues.
type BatchFailure struct {
	EmployeeID int64  `json:"employee_id"`
	Reason     string `json:"reason"`
}

type BatchSummary struct {
	EmployeeCount    int     `json:"employee_count"`
	SuccessCount     int     `json:"success_count"`
	FailureCount     int     `json:"failure_count"`
	TotalHours       float64 `json:"total_hours"`
	TotalGrossPay    Cents   `json:"total_gross_pay_cents"`
	TotalNetPay      Cents   `json:"total_net_pay_cents"`
	AverageHours     float64 `json:"average_hours"`
	AverageGrossPay  Cents   `json:"average_gross_pay_cents"`
	AnomalyCount     int     `json:"anomaly_count"`
}

type BatchResult struct {
	PayPeriodID int64                       `json:"pay_period_id"`
	Results     []*PayrollCalculationResult `json:"results"`
	Failures    []BatchFailure              `json:"failures"`
	Summary     BatchSummary                `json:"summary"`
}

// ValidationIssue is one finding from a pre-calculation check. Errors block
// calculation; warnings only inform the caller.
type ValidationIssue struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	EmployeeID int64  `json:"employee_id,omitempty"`
}

type ValidationReport struct {
	PayPeriodID  int64             `json:"pay_period_id"`
	CanCalculate bool              `json:"can_calculate"`
	Errors       []ValidationIssue `json:"errors"`
	Warnings     []ValidationIssue `json:"warnings"`
}
