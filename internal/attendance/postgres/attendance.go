package postgres

import (
	"time"

	"github.com/satriautama/attendance-management/internal/attendance"
	attendanceDatamodel "github.com/satriautama/attendance-management/internal/core/datamodel/attendance"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TimeEntryRepository implements the attendance.Repository interface using GORM
type TimeEntryRepository struct {
	db *gorm.DB
}

func NewTimeEntryRepository(db *gorm.DB) attendance.Repository {
	return &TimeEntryRepository{db: db}
}

// CreateOpenChecked inserts a new open entry only if the employee has none.
// The read takes a row lock and the partial unique index on open entries
// backstops the check, so concurrent clock-ins cannot both commit.
func (r *TimeEntryRepository) CreateOpenChecked(entry *attendance.TimeEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&attendanceDatamodel.TimeEntry{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("employee_id = ? AND clock_out_time IS NULL", entry.EmployeeID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return attendance.ErrAlreadyClockedIn
		}

		model := attendance.ToDataModel(entry)
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		*entry = *attendance.FromDataModel(model)
		return nil
	})
}

func (r *TimeEntryRepository) GetByID(id int64) (*attendance.TimeEntry, error) {
	var model attendanceDatamodel.TimeEntry
	err := r.db.Where("id = ?", id).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, attendance.ErrTimeEntryNotFound
		}
		return nil, err
	}
	return attendance.FromDataModel(&model), nil
}

// GetOpenByEmployee returns the employee's open entry, or nil when there is
// none; absence is not an error here.
func (r *TimeEntryRepository) GetOpenByEmployee(employeeID int64) (*attendance.TimeEntry, error) {
	var model attendanceDatamodel.TimeEntry
	err := r.db.Where("employee_id = ? AND clock_out_time IS NULL", employeeID).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return attendance.FromDataModel(&model), nil
}

func (r *TimeEntryRepository) Update(entry *attendance.TimeEntry) error {
	entry.UpdatedAt = time.Now()
	return r.db.Save(attendance.ToDataModel(entry)).Error
}

func (r *TimeEntryRepository) ListByEmployee(employeeID int64, from, to time.Time) ([]*attendance.TimeEntry, error) {
	var models []*attendanceDatamodel.TimeEntry
	err := r.db.Where("employee_id = ? AND clock_in_time >= ? AND clock_in_time <= ?", employeeID, from, to).
		Order("clock_in_time ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return attendance.FromDataModelSlice(models), nil
}
