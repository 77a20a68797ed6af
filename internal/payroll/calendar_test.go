package payroll_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/satriautama/attendance-management/internal/payroll"
)

var _ = Describe("GeneratePeriodDates", func() {
	var loc *time.Location

	BeforeEach(func() {
		var err error
		loc, err = time.LoadLocation("America/Toronto")
		Expect(err).ToNot(HaveOccurred())
	})

	Context("for the first half of a month", func() {
		It("should run day 1 through day 15 at end of day", func() {
			dates, err := payroll.GeneratePeriodDates(2025, time.March, payroll.PeriodHalfFirst, loc)

			Expect(err).ToNot(HaveOccurred())
			Expect(dates.StartDate).To(Equal(time.Date(2025, time.March, 1, 0, 0, 0, 0, loc)))
			Expect(dates.EndDate).To(Equal(time.Date(2025, time.March, 15, 23, 59, 59, 0, loc)))
			Expect(dates.PayDate).To(Equal(time.Date(2025, time.March, 20, 0, 0, 0, 0, loc)))
		})
	})

	Context("for the second half of a month", func() {
		It("should end on the 31st for a long month", func() {
			dates, err := payroll.GeneratePeriodDates(2025, time.March, payroll.PeriodHalfSecond, loc)

			Expect(err).ToNot(HaveOccurred())
			Expect(dates.StartDate).To(Equal(time.Date(2025, time.March, 16, 0, 0, 0, 0, loc)))
			Expect(dates.EndDate).To(Equal(time.Date(2025, time.March, 31, 23, 59, 59, 0, loc)))
		})

		It("should end on the 30th for a short month", func() {
			dates, err := payroll.GeneratePeriodDates(2025, time.April, payroll.PeriodHalfSecond, loc)

			Expect(err).ToNot(HaveOccurred())
			Expect(dates.EndDate.Day()).To(Equal(30))
		})

		It("should end on the 28th in a non-leap February", func() {
			dates, err := payroll.GeneratePeriodDates(2025, time.February, payroll.PeriodHalfSecond, loc)

			Expect(err).ToNot(HaveOccurred())
			Expect(dates.EndDate.Day()).To(Equal(28))
		})

		It("should end on the 29th in a leap February", func() {
			dates, err := payroll.GeneratePeriodDates(2024, time.February, payroll.PeriodHalfSecond, loc)

			Expect(err).ToNot(HaveOccurred())
			Expect(dates.EndDate.Day()).To(Equal(29))
		})

		It("should roll the pay date into the next month", func() {
			// March 31 + 5 days = April 5
			dates, err := payroll.GeneratePeriodDates(2025, time.March, payroll.PeriodHalfSecond, loc)

			Expect(err).ToNot(HaveOccurred())
			Expect(dates.PayDate).To(Equal(time.Date(2025, time.April, 5, 0, 0, 0, 0, loc)))
		})

		It("should roll a December pay date into the next year", func() {
			// December 31 + 5 days = January 5
			dates, err := payroll.GeneratePeriodDates(2025, time.December, payroll.PeriodHalfSecond, loc)

			Expect(err).ToNot(HaveOccurred())
			Expect(dates.PayDate.Year()).To(Equal(2026))
			Expect(dates.PayDate.Month()).To(Equal(time.January))
			Expect(dates.PayDate.Day()).To(Equal(5))
		})
	})

	Context("with invalid input", func() {
		It("should reject an unknown half", func() {
			_, err := payroll.GeneratePeriodDates(2025, time.March, payroll.PeriodHalf("C"), loc)

			Expect(err).To(HaveOccurred())
		})

		It("should reject a bad month", func() {
			_, err := payroll.GeneratePeriodDates(2025, time.Month(13), payroll.PeriodHalfFirst, loc)

			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("CanGenerateCompletedPeriod", func() {
	var loc *time.Location

	BeforeEach(func() {
		var err error
		loc, err = time.LoadLocation("America/Toronto")
		Expect(err).ToNot(HaveOccurred())
	})

	Context("on the 16th", func() {
		It("should allow half A of the current month", func() {
			today := time.Date(2025, time.March, 16, 10, 0, 0, 0, loc)

			decision := payroll.CanGenerateCompletedPeriod(today, loc)

			Expect(decision.Allowed).To(BeTrue())
			Expect(decision.Year).To(Equal(2025))
			Expect(decision.Month).To(Equal(time.March))
			Expect(decision.Half).To(Equal(payroll.PeriodHalfFirst))
		})
	})

	Context("on the 1st", func() {
		It("should allow half B of the previous month", func() {
			today := time.Date(2025, time.April, 1, 10, 0, 0, 0, loc)

			decision := payroll.CanGenerateCompletedPeriod(today, loc)

			Expect(decision.Allowed).To(BeTrue())
			Expect(decision.Month).To(Equal(time.March))
			Expect(decision.Half).To(Equal(payroll.PeriodHalfSecond))
		})

		It("should roll back to December of the previous year in January", func() {
			today := time.Date(2025, time.January, 1, 10, 0, 0, 0, loc)

			decision := payroll.CanGenerateCompletedPeriod(today, loc)

			Expect(decision.Allowed).To(BeTrue())
			Expect(decision.Year).To(Equal(2024))
			Expect(decision.Month).To(Equal(time.December))
			Expect(decision.Half).To(Equal(payroll.PeriodHalfSecond))
		})
	})

	Context("on any other day", func() {
		It("should not allow generation", func() {
			today := time.Date(2025, time.March, 10, 10, 0, 0, 0, loc)

			decision := payroll.CanGenerateCompletedPeriod(today, loc)

			Expect(decision.Allowed).To(BeFalse())
			Expect(decision.Reason).ToNot(BeEmpty())
		})
	})

	Context("near midnight in another time zone", func() {
		It("should decide by the organizational calendar day", func() {
			// 03:30 UTC on the 16th is still the 15th in Toronto
			today := time.Date(2025, time.March, 16, 3, 30, 0, 0, time.UTC)

			decision := payroll.CanGenerateCompletedPeriod(today, loc)

			Expect(decision.Allowed).To(BeFalse())
		})
	})
})
