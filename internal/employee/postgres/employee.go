package postgres

import (
	employeeDatamodel "github.com/satriautama/attendance-management/internal/core/datamodel/employee"
	"github.com/satriautama/attendance-management/internal/employee"
	"gorm.io/gorm"
)

// EmployeeRepository is the read-side pay-configuration store the payroll
// aggregator selects eligible employees from.
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) GetByID(id int64) (*employee.Employee, error) {
	var model employeeDatamodel.Employee
	err := r.db.Where("id = ?", id).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee.FromDataModel(&model), nil
}

func (r *EmployeeRepository) ListActive() ([]*employee.Employee, error) {
	var models []*employeeDatamodel.Employee
	err := r.db.Where("is_active = ?", true).Order("id ASC").Find(&models).Error
	if err != nil {
		return nil, err
	}
	return employee.FromDataModelSlice(models), nil
}

func (r *EmployeeRepository) ListByIDs(ids []int64) ([]*employee.Employee, error) {
	var models []*employeeDatamodel.Employee
	err := r.db.Where("id IN ?", ids).Order("id ASC").Find(&models).Error
	if err != nil {
		return nil, err
	}
	return employee.FromDataModelSlice(models), nil
}
