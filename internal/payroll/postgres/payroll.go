package postgres

import (
	"time"

	"github.com/satriautama/attendance-management/internal/attendance"
	attendanceDatamodel "github.com/satriautama/attendance-management/internal/core/datamodel/attendance"
	payrollDatamodel "github.com/satriautama/attendance-management/internal/core/datamodel/payroll"
	"github.com/satriautama/attendance-management/internal/payroll"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PayPeriodRepository implements payroll.PeriodRepository using GORM
type PayPeriodRepository struct {
	db *gorm.DB
}

func NewPayPeriodRepository(db *gorm.DB) payroll.PeriodRepository {
	return &PayPeriodRepository{db: db}
}

func (r *PayPeriodRepository) Create(p *payroll.PayPeriod) error {
	model := payroll.ToDataModel(p)
	if err := r.db.Create(model).Error; err != nil {
		return err
	}
	*p = *payroll.FromDataModel(model)
	return nil
}

func (r *PayPeriodRepository) GetByID(id int64) (*payroll.PayPeriod, error) {
	var model payrollDatamodel.PayPeriod
	err := r.db.Where("id = ?", id).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, payroll.ErrPayPeriodNotFound
		}
		return nil, err
	}
	return payroll.FromDataModel(&model), nil
}

// GetByDates returns the period with exactly these bounds, or nil when none
// exists; absence is a normal answer for duplicate checks.
func (r *PayPeriodRepository) GetByDates(start, end time.Time) (*payroll.PayPeriod, error) {
	var model payrollDatamodel.PayPeriod
	err := r.db.Where("start_date = ? AND end_date = ?", start, end).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return payroll.FromDataModel(&model), nil
}

func (r *PayPeriodRepository) List(limit, offset int) ([]*payroll.PayPeriod, error) {
	var models []*payrollDatamodel.PayPeriod
	err := r.db.Order("start_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return payroll.FromDataModelSlice(models), nil
}

func (r *PayPeriodRepository) UpdateStatus(id int64, status payroll.PeriodStatus) error {
	return r.db.Model(&payrollDatamodel.PayPeriod{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		}).Error
}

func (r *PayPeriodRepository) Delete(id int64) error {
	result := r.db.Where("id = ?", id).Delete(&payrollDatamodel.PayPeriod{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return payroll.ErrPayPeriodNotFound
	}
	return nil
}

// TimeEntrySource implements payroll.EntrySource. Entries belong to a
// period by their shift's scheduled start, so a shift that crosses midnight
// into the next period still counts once, in the period it was scheduled in.
type TimeEntrySource struct {
	db *gorm.DB
}

func NewTimeEntrySource(db *gorm.DB) payroll.EntrySource {
	return &TimeEntrySource{db: db}
}

func (s *TimeEntrySource) ClosedEntriesInPeriod(employeeID int64, start, end time.Time) ([]*attendance.TimeEntry, error) {
	var models []*attendanceDatamodel.TimeEntry
	err := s.db.
		Joins("JOIN shifts ON shifts.id = time_entries.shift_id").
		Where("time_entries.employee_id = ?", employeeID).
		Where("time_entries.status IN ?", []string{
			string(attendance.EntryStatusClockedOut),
			string(attendance.EntryStatusAdjusted),
		}).
		Where("shifts.start_time >= ? AND shifts.start_time <= ?", start, end).
		Order("shifts.start_time ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return attendance.FromDataModelSlice(models), nil
}

func (s *TimeEntrySource) OpenEntryEmployeesInPeriod(start, end time.Time) ([]int64, error) {
	var ids []int64
	err := s.db.Model(&attendanceDatamodel.TimeEntry{}).
		Distinct("time_entries.employee_id").
		Joins("JOIN shifts ON shifts.id = time_entries.shift_id").
		Where("time_entries.clock_out_time IS NULL").
		Where("shifts.start_time >= ? AND shifts.start_time <= ?", start, end).
		Pluck("time_entries.employee_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// PayslipRepository implements payroll.PayslipStore using GORM
type PayslipRepository struct {
	db *gorm.DB
}

func NewPayslipRepository(db *gorm.DB) payroll.PayslipStore {
	return &PayslipRepository{db: db}
}

// Upsert writes one employee's figures for one period, replacing any
// earlier run. The (employee_id, pay_period_id) unique index makes the
// conflict target.
func (r *PayslipRepository) Upsert(result *payroll.PayrollCalculationResult) error {
	model := &payrollDatamodel.Payslip{
		EmployeeID:    result.EmployeeID,
		PayPeriodID:   result.PayPeriodID,
		RegularHours:  result.RegularHours,
		OvertimeHours: result.OvertimeHours,
		TotalHours:    result.TotalHours,
		RegularPay:    int64(result.RegularPay),
		OvertimePay:   int64(result.OvertimePay),
		GrossPay:      int64(result.GrossPay),
		Deductions:    int64(result.Deductions),
		NetPay:        int64(result.NetPay),
		EntryCount:    result.EntryCount,
		UsedDefault:   result.UsedDefaultHours,
	}

	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "employee_id"}, {Name: "pay_period_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"regular_hours", "overtime_hours", "total_hours",
			"regular_pay_cents", "overtime_pay_cents", "gross_pay_cents",
			"deductions_cents", "net_pay_cents", "entry_count",
			"used_default_hours", "updated_at",
		}),
	}).Create(model).Error
}
