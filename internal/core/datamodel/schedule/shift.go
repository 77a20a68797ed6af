package schedule

import "time"

type Shift struct {
	ID            int64     `gorm:"primaryKey"`
	EmployeeID    int64     `gorm:"column:employee_id;not null;index"`
	StartTime     time.Time `gorm:"column:start_time;not null"`
	EndTime       time.Time `gorm:"column:end_time;not null"`
	BreakDuration int       `gorm:"column:break_duration;default:0"`
	Position      *string   `gorm:"column:position"`
	Status        string    `gorm:"column:status;default:SCHEDULED"`
	IsActive      bool      `gorm:"column:is_active;default:true"`
	CreatedBy     int64     `gorm:"column:created_by"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Shift) TableName() string {
	return "shifts"
}
