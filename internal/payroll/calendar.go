package payroll

import (
	"fmt"
	"time"

	"github.com/satriautama/attendance-management/internal"
)

// PeriodDates are the boundaries of one semi-monthly window, all expressed
// in the organizational time zone. The end carries 23:59:59 so timestamp
// comparisons inside the period are inclusive of the last day.
type PeriodDates struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	PayDate   time.Time `json:"pay_date"`
}

// GeneratePeriodDates is pure date arithmetic: half A runs day 1 through 15,
// half B runs day 16 through the last day of the month. The pay date lands
// five calendar days after the period ends, rolling into the next month or
// year when it overflows.
func GeneratePeriodDates(year int, month time.Month, half PeriodHalf, loc *time.Location) (PeriodDates, error) {
	if year < 1 || month < time.January || month > time.December {
		return PeriodDates{}, internal.NewValidationError(
			fmt.Sprintf("invalid year/month %d-%d", year, month),
			internal.ErrCodeInvalidPeriod)
	}
	if !half.IsValid() {
		return PeriodDates{}, internal.NewValidationError(
			fmt.Sprintf("period half must be A or B, got %q", half),
			internal.ErrCodeInvalidPeriod)
	}

	var start, end time.Time
	switch half {
	case PeriodHalfFirst:
		start = time.Date(year, month, 1, 0, 0, 0, 0, loc)
		end = time.Date(year, month, 15, 23, 59, 59, 0, loc)
	case PeriodHalfSecond:
		start = time.Date(year, month, 16, 0, 0, 0, 0, loc)
		// day 0 of the next month normalizes to this month's last day
		lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
		end = time.Date(year, month, lastDay, 23, 59, 59, 0, loc)
	}

	payDate := time.Date(year, month, end.Day()+5, 0, 0, 0, 0, loc)

	return PeriodDates{StartDate: start, EndDate: end, PayDate: payDate}, nil
}

// GenerationDecision answers "which completed period may be generated
// today, if any". Generation is only allowed the day after a period closes:
// the 16th yields half A of the current month, the 1st yields half B of the
// previous month.
type GenerationDecision struct {
	Allowed bool       `json:"allowed"`
	Year    int        `json:"year,omitempty"`
	Month   time.Month `json:"month,omitempty"`
	Half    PeriodHalf `json:"half,omitempty"`
	Reason  string     `json:"reason,omitempty"`
}

func CanGenerateCompletedPeriod(today time.Time, loc *time.Location) GenerationDecision {
	t := today.In(loc)

	switch t.Day() {
	case 16:
		return GenerationDecision{
			Allowed: true,
			Year:    t.Year(),
			Month:   t.Month(),
			Half:    PeriodHalfFirst,
		}
	case 1:
		year, month := t.Year(), t.Month()-1
		if month < time.January {
			year, month = year-1, time.December
		}
		return GenerationDecision{
			Allowed: true,
			Year:    year,
			Month:   month,
			Half:    PeriodHalfSecond,
		}
	default:
		return GenerationDecision{
			Allowed: false,
			Reason:  fmt.Sprintf("completed periods are generated on day 1 or 16 only, today is day %d", t.Day()),
		}
	}
}
