package postgres

import (
	"time"

	scheduleDatamodel "github.com/satriautama/attendance-management/internal/core/datamodel/schedule"
	"github.com/satriautama/attendance-management/internal/schedule"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShiftRepository implements the schedule.Repository interface using GORM
type ShiftRepository struct {
	db *gorm.DB
}

func NewShiftRepository(db *gorm.DB) schedule.Repository {
	return &ShiftRepository{db: db}
}

func (r *ShiftRepository) Create(s *schedule.Shift) error {
	model := schedule.ToDataModel(s)
	if err := r.db.Create(model).Error; err != nil {
		return err
	}
	*s = *schedule.FromDataModel(model)
	return nil
}

// CreateChecked loads the employee's active shifts under a row lock, runs the
// conflict check and inserts, all in one transaction. Without the lock two
// concurrent creates could both pass the check.
func (r *ShiftRepository) CreateChecked(s *schedule.Shift, check func(existing []*schedule.Shift) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		existing, err := activeByEmployee(tx.Clauses(clause.Locking{Strength: "UPDATE"}), s.EmployeeID, nil)
		if err != nil {
			return err
		}
		if err := check(existing); err != nil {
			return err
		}

		model := schedule.ToDataModel(s)
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		*s = *schedule.FromDataModel(model)
		return nil
	})
}

// UpdateChecked re-validates a time edit against the employee's other active
// shifts inside the same transaction as the save.
func (r *ShiftRepository) UpdateChecked(s *schedule.Shift, check func(existing []*schedule.Shift) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		existing, err := activeByEmployee(tx.Clauses(clause.Locking{Strength: "UPDATE"}), s.EmployeeID, &s.ID)
		if err != nil {
			return err
		}
		if err := check(existing); err != nil {
			return err
		}
		return tx.Save(schedule.ToDataModel(s)).Error
	})
}

func (r *ShiftRepository) GetByID(id int64) (*schedule.Shift, error) {
	var model scheduleDatamodel.Shift
	err := r.db.Where("id = ?", id).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, schedule.ErrShiftNotFound
		}
		return nil, err
	}
	return schedule.FromDataModel(&model), nil
}

func (r *ShiftRepository) GetActiveByEmployee(employeeID int64, excludeShiftID *int64) ([]*schedule.Shift, error) {
	return activeByEmployee(r.db, employeeID, excludeShiftID)
}

func activeByEmployee(db *gorm.DB, employeeID int64, excludeShiftID *int64) ([]*schedule.Shift, error) {
	var models []*scheduleDatamodel.Shift
	q := db.Where("employee_id = ? AND is_active = ?", employeeID, true)
	if excludeShiftID != nil {
		q = q.Where("id <> ?", *excludeShiftID)
	}
	if err := q.Order("start_time ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return schedule.FromDataModelSlice(models), nil
}

func (r *ShiftRepository) ListByEmployee(employeeID int64, from, to time.Time) ([]*schedule.Shift, error) {
	var models []*scheduleDatamodel.Shift
	err := r.db.Where("employee_id = ? AND start_time >= ? AND start_time <= ?", employeeID, from, to).
		Order("start_time ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return schedule.FromDataModelSlice(models), nil
}

func (r *ShiftRepository) Update(s *schedule.Shift) error {
	s.UpdatedAt = time.Now()
	return r.db.Save(schedule.ToDataModel(s)).Error
}
