package employee

import (
	"time"

	"github.com/satriautama/attendance-management/internal"
	employeeDatamodel "github.com/satriautama/attendance-management/internal/core/datamodel/employee"
)

type PayType string

const (
	PayTypeHourly   PayType = "hourly"
	PayTypeSalaried PayType = "salaried"
)

func (p PayType) IsValid() bool {
	return p == PayTypeHourly || p == PayTypeSalaried
}

type Employee struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Position     *string   `json:"position,omitempty"`
	PayType      *PayType  `json:"pay_type,omitempty"`
	PayRateCents *int64    `json:"pay_rate_cents,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PayConfigured reports whether payroll can be computed for this employee:
// an hourly rate and a pay type must both be set.
func (e *Employee) PayConfigured() bool {
	return e.PayType != nil && e.PayType.IsValid() && e.PayRateCents != nil && *e.PayRateCents > 0
}

var ErrEmployeeNotFound = internal.NewNotFoundError("employee not found", internal.ErrCodeEmployeeNotFound)

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	emp := &Employee{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		Position:     e.Position,
		PayRateCents: e.PayRateCents,
		IsActive:     e.IsActive,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	if e.PayType != nil {
		pt := PayType(*e.PayType)
		emp.PayType = &pt
	}
	return emp
}

func FromDataModelSlice(employees []*employeeDatamodel.Employee) []*Employee {
	result := make([]*Employee, len(employees))
	for i, e := range employees {
		result[i] = FromDataModel(e)
	}
	return result
}
