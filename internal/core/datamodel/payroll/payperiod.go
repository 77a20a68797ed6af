package payroll

import "time"

type PayPeriod struct {
	ID        int64     `gorm:"primaryKey"`
	StartDate time.Time `gorm:"column:start_date;not null"`
	EndDate   time.Time `gorm:"column:end_date;not null"`
	PayDate   time.Time `gorm:"column:pay_date;not null"`
	Status    string    `gorm:"column:status;default:OPEN"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (PayPeriod) TableName() string {
	return "pay_periods"
}

// Payslip is the persisted form of one employee's payroll figures for one
// period. Monetary columns are integer cents.
type Payslip struct {
	ID            int64     `gorm:"primaryKey"`
	EmployeeID    int64     `gorm:"column:employee_id;not null;index"`
	PayPeriodID   int64     `gorm:"column:pay_period_id;not null;index"`
	RegularHours  float64   `gorm:"column:regular_hours;default:0"`
	OvertimeHours float64   `gorm:"column:overtime_hours;default:0"`
	TotalHours    float64   `gorm:"column:total_hours;default:0"`
	RegularPay    int64     `gorm:"column:regular_pay_cents;default:0"`
	OvertimePay   int64     `gorm:"column:overtime_pay_cents;default:0"`
	GrossPay      int64     `gorm:"column:gross_pay_cents;default:0"`
	Deductions    int64     `gorm:"column:deductions_cents;default:0"`
	NetPay        int64     `gorm:"column:net_pay_cents;default:0"`
	EntryCount    int       `gorm:"column:entry_count;default:0"`
	UsedDefault   bool      `gorm:"column:used_default_hours;default:false"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Payslip) TableName() string {
	return "payslips"
}
