package employee

import "time"

type Employee struct {
	ID           int64     `gorm:"primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	Position     *string   `gorm:"column:position"`
	PayType      *string   `gorm:"column:pay_type"`
	PayRateCents *int64    `gorm:"column:pay_rate_cents"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}
