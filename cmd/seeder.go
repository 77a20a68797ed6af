package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	attendanceDatamodel "github.com/satriautama/attendance-management/internal/core/datamodel/attendance"
	employeeDatamodel "github.com/satriautama/attendance-management/internal/core/datamodel/employee"
	scheduleDatamodel "github.com/satriautama/attendance-management/internal/core/datamodel/schedule"
	"github.com/satriautama/attendance-management/internal/schedule"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"payslips", "pay_periods", "time_entries", "shifts", "employees"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hourlyRate := int64(2000) // $20.00/hr
		salariedRate := int64(2500)
		hourly := "hourly"
		salaried := "salaried"

		employees := []employeeDatamodel.Employee{
			{Name: "Aisha Khan", Email: "aisha@mail.com", PayType: &hourly, PayRateCents: &hourlyRate, IsActive: true},
			{Name: "Bram Wijaya", Email: "bram@mail.com", PayType: &hourly, PayRateCents: &hourlyRate, IsActive: true},
			{Name: "Clara Santos", Email: "clara@mail.com", PayType: &salaried, PayRateCents: &salariedRate, IsActive: true},
			{Name: "Dewi Lestari", Email: "dewi@mail.com", IsActive: true}, // no pay config on purpose
		}

		for i := range employees {
			var exists int64
			db.Model(&employeeDatamodel.Employee{}).Where("email = ?", employees[i].Email).Count(&exists)
			if exists > 0 {
				fmt.Printf("employee %s already exists, skipping\n", employees[i].Email)
				continue
			}
			if err := db.Create(&employees[i]).Error; err != nil {
				log.Fatalf("failed to seed employee %s: %v", employees[i].Email, err)
			}
			fmt.Printf("Seeded employee: %s\n", employees[i].Email)
		}

		loc, err := cfg.Payroll.Location()
		if err != nil {
			log.Fatalf("invalid payroll timezone: %v", err)
		}

		// a week of day shifts for the first two hourly employees
		monday := nextMonday(time.Now().In(loc))
		for _, emp := range employees[:2] {
			if emp.ID == 0 {
				continue
			}
			for day := 0; day < 5; day++ {
				start := monday.AddDate(0, 0, day).Add(9 * time.Hour)
				end := start.Add(8 * time.Hour)

				var count int64
				db.Model(&scheduleDatamodel.Shift{}).
					Where("employee_id = ? AND start_time = ?", emp.ID, start).
					Count(&count)
				if count > 0 {
					continue
				}

				shift := scheduleDatamodel.Shift{
					EmployeeID: emp.ID,
					StartTime:  start,
					EndTime:    end,
					Status:     string(schedule.ShiftStatusScheduled),
					IsActive:   true,
				}
				if err := db.Create(&shift).Error; err != nil {
					log.Fatalf("failed to seed shift: %v", err)
				}
			}
			fmt.Printf("Seeded weekday shifts for employee %d\n", emp.ID)
		}

		// one completed entry so payroll has something to aggregate
		var firstShift scheduleDatamodel.Shift
		if err := db.Where("employee_id = ?", employees[0].ID).Order("start_time ASC").First(&firstShift).Error; err == nil {
			var count int64
			db.Model(&attendanceDatamodel.TimeEntry{}).Where("shift_id = ?", firstShift.ID).Count(&count)
			if count == 0 {
				clockOut := firstShift.EndTime
				entry := attendanceDatamodel.TimeEntry{
					EmployeeID:         firstShift.EmployeeID,
					ShiftID:            &firstShift.ID,
					ClockInTime:        firstShift.StartTime,
					ClockOutTime:       &clockOut,
					ScheduledStartTime: firstShift.StartTime,
					ScheduledEndTime:   firstShift.EndTime,
					AdjustedStartTime:  &firstShift.StartTime,
					AdjustedEndTime:    &clockOut,
					TotalHours:         8,
					Status:             "CLOCKED_OUT",
				}
				if err := db.Create(&entry).Error; err != nil {
					log.Fatalf("failed to seed time entry: %v", err)
				}
				fmt.Println("Seeded a completed time entry")
			}
		}

		fmt.Println("Seeding finished")
	},
}

func nextMonday(from time.Time) time.Time {
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	offset := (int(time.Monday) - int(day.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	return day.AddDate(0, 0, offset)
}
