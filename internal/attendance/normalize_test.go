package attendance_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/satriautama/attendance-management/internal/attendance"
)

func clock(h, m int) time.Time {
	return time.Date(2025, 3, 10, h, m, 0, 0, time.UTC)
}

var _ = Describe("GracePeriod", func() {
	window := 5 * time.Minute
	scheduled := clock(9, 0)

	Context("when the punch is within the window", func() {
		It("should snap a late punch to the scheduled time", func() {
			snapped, applied := attendance.GracePeriod(clock(9, 3), scheduled, window)

			Expect(applied).To(BeTrue())
			Expect(snapped).To(Equal(scheduled))
		})

		It("should snap an early punch to the scheduled time", func() {
			snapped, applied := attendance.GracePeriod(clock(8, 57), scheduled, window)

			Expect(applied).To(BeTrue())
			Expect(snapped).To(Equal(scheduled))
		})

		It("should snap a punch exactly at the window boundary", func() {
			snapped, applied := attendance.GracePeriod(clock(9, 5), scheduled, window)

			Expect(applied).To(BeTrue())
			Expect(snapped).To(Equal(scheduled))
		})

		It("should snap a punch exactly on time", func() {
			snapped, applied := attendance.GracePeriod(scheduled, scheduled, window)

			Expect(applied).To(BeTrue())
			Expect(snapped).To(Equal(scheduled))
		})
	})

	Context("when the punch is outside the window", func() {
		It("should keep a late punch as-is", func() {
			actual := clock(9, 6)

			kept, applied := attendance.GracePeriod(actual, scheduled, window)

			Expect(applied).To(BeFalse())
			Expect(kept).To(Equal(actual))
		})

		It("should keep an early punch as-is", func() {
			actual := clock(8, 50)

			kept, applied := attendance.GracePeriod(actual, scheduled, window)

			Expect(applied).To(BeFalse())
			Expect(kept).To(Equal(actual))
		})

		It("should keep a punch one second past the window", func() {
			actual := scheduled.Add(window + time.Second)

			kept, applied := attendance.GracePeriod(actual, scheduled, window)

			Expect(applied).To(BeFalse())
			Expect(kept).To(Equal(actual))
		})
	})
})

var _ = Describe("PayrollRound", func() {
	DescribeTable("minute breakpoints",
		func(minute, wantHour, wantMinute int) {
			rounded := attendance.PayrollRound(clock(9, minute))
			Expect(rounded.Hour()).To(Equal(wantHour))
			Expect(rounded.Minute()).To(Equal(wantMinute))
		},
		Entry("minute 0 stays at :00", 0, 9, 0),
		Entry("minute 7 rounds down to :00", 7, 9, 0),
		Entry("minute 8 rounds up to :15", 8, 9, 15),
		Entry("minute 15 stays at :15", 15, 9, 15),
		Entry("minute 22 rounds down to :15", 22, 9, 15),
		Entry("minute 23 rounds up to :30", 23, 9, 30),
		Entry("minute 37 rounds down to :30", 37, 9, 30),
		Entry("minute 38 rounds up to :45", 38, 9, 45),
		Entry("minute 52 rounds down to :45", 52, 9, 45),
		Entry("minute 53 rounds up to the next hour", 53, 10, 0),
		Entry("minute 59 rounds up to the next hour", 59, 10, 0),
	)

	It("should truncate seconds before rounding", func() {
		punch := time.Date(2025, 3, 10, 9, 7, 59, 0, time.UTC)

		Expect(attendance.PayrollRound(punch)).To(Equal(clock(9, 0)))
	})

	It("should cross into the next day from the last hour", func() {
		punch := time.Date(2025, 3, 10, 23, 55, 0, 0, time.UTC)

		rounded := attendance.PayrollRound(punch)

		Expect(rounded.Day()).To(Equal(11))
		Expect(rounded.Hour()).To(Equal(0))
		Expect(rounded.Minute()).To(Equal(0))
	})

	It("should be idempotent", func() {
		for _, minute := range []int{3, 11, 29, 44, 58} {
			once := attendance.PayrollRound(clock(9, minute))
			Expect(attendance.PayrollRound(once)).To(Equal(once))
		}
	})
})

var _ = Describe("SplitHours", func() {
	const threshold = 8.0

	It("should put everything under the threshold into regular", func() {
		regular, overtime := attendance.SplitHours(7.5, threshold)

		Expect(regular).To(Equal(7.5))
		Expect(overtime).To(BeZero())
	})

	It("should treat exactly the threshold as all regular", func() {
		regular, overtime := attendance.SplitHours(8, threshold)

		Expect(regular).To(Equal(8.0))
		Expect(overtime).To(BeZero())
	})

	It("should split the excess into overtime", func() {
		regular, overtime := attendance.SplitHours(10.25, threshold)

		Expect(regular).To(Equal(8.0))
		Expect(overtime).To(Equal(2.25))
	})

	It("should return zeros for non-positive hours", func() {
		regular, overtime := attendance.SplitHours(0, threshold)
		Expect(regular).To(BeZero())
		Expect(overtime).To(BeZero())

		regular, overtime = attendance.SplitHours(-1, threshold)
		Expect(regular).To(BeZero())
		Expect(overtime).To(BeZero())
	})
})

var _ = Describe("WorkedHours", func() {
	It("should round both ends independently", func() {
		// 9:03 rounds to 9:00, 17:20 rounds to 17:15
		start, end, hours := attendance.WorkedHours(clock(9, 3), clock(17, 20))

		Expect(start).To(Equal(clock(9, 0)))
		Expect(end).To(Equal(clock(17, 15)))
		Expect(hours).To(Equal(8.25))
	})

	It("should clamp a negative span to zero", func() {
		// both round to 9:00 but raw end precedes raw start
		_, _, hours := attendance.WorkedHours(clock(9, 5), clock(9, 2))

		Expect(hours).To(BeZero())
	})

	It("should produce quarter-hour granular results", func() {
		_, _, hours := attendance.WorkedHours(clock(9, 10), clock(12, 40))

		// 9:15 through 12:45
		Expect(hours).To(Equal(3.5))
	})
})
