package attendance

import "time"

type TimeEntry struct {
	ID                 int64      `gorm:"primaryKey"`
	EmployeeID         int64      `gorm:"column:employee_id;not null;index"`
	ShiftID            *int64     `gorm:"column:shift_id;index"`
	ClockInTime        time.Time  `gorm:"column:clock_in_time;not null"`
	ClockOutTime       *time.Time `gorm:"column:clock_out_time"`
	ClockInLocation    *string    `gorm:"column:clock_in_location"`
	ClockOutLocation   *string    `gorm:"column:clock_out_location"`
	ClockInIP          *string    `gorm:"column:clock_in_ip"`
	ClockOutIP         *string    `gorm:"column:clock_out_ip"`
	ScheduledStartTime time.Time  `gorm:"column:scheduled_start_time"`
	ScheduledEndTime   time.Time  `gorm:"column:scheduled_end_time"`
	AdjustedStartTime  *time.Time `gorm:"column:adjusted_start_time"`
	AdjustedEndTime    *time.Time `gorm:"column:adjusted_end_time"`
	GracePeriodApplied bool       `gorm:"column:grace_period_applied;default:false"`
	TotalHours         float64    `gorm:"column:total_hours;default:0"`
	OvertimeHours      float64    `gorm:"column:overtime_hours;default:0"`
	Status             string     `gorm:"column:status;default:CLOCKED_IN"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (TimeEntry) TableName() string {
	return "time_entries"
}
