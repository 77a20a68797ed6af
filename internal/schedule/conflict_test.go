package schedule_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/satriautama/attendance-management/internal/schedule"
)

var _ = Describe("Overlaps", func() {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return day.Add(time.Duration(h) * time.Hour) }

	Context("when intervals partially overlap", func() {
		It("should detect the overlap", func() {
			Expect(schedule.Overlaps(at(9), at(17), at(16), at(22))).To(BeTrue())
		})

		It("should be symmetric", func() {
			Expect(schedule.Overlaps(at(16), at(22), at(9), at(17))).To(BeTrue())
		})
	})

	Context("when one interval contains the other", func() {
		It("should detect the overlap", func() {
			Expect(schedule.Overlaps(at(9), at(17), at(11), at(13))).To(BeTrue())
			Expect(schedule.Overlaps(at(11), at(13), at(9), at(17))).To(BeTrue())
		})
	})

	Context("when intervals are identical", func() {
		It("should detect the overlap", func() {
			Expect(schedule.Overlaps(at(9), at(17), at(9), at(17))).To(BeTrue())
		})
	})

	Context("when shifts are back to back", func() {
		It("should not flag touching boundaries as a conflict", func() {
			// 09:00-17:00 followed by 17:00-22:00
			Expect(schedule.Overlaps(at(9), at(17), at(17), at(22))).To(BeFalse())
			Expect(schedule.Overlaps(at(17), at(22), at(9), at(17))).To(BeFalse())
		})
	})

	Context("when intervals are disjoint", func() {
		It("should not detect an overlap", func() {
			Expect(schedule.Overlaps(at(9), at(12), at(14), at(18))).To(BeFalse())
		})
	})
})

var _ = Describe("OverlapMinutes", func() {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return day.Add(time.Duration(h) * time.Hour) }

	It("should measure a partial overlap", func() {
		// 09:00-17:00 vs 16:00-22:00 overlap for one hour
		Expect(schedule.OverlapMinutes(at(9), at(17), at(16), at(22))).To(Equal(int64(60)))
	})

	It("should measure containment by the inner interval", func() {
		Expect(schedule.OverlapMinutes(at(9), at(17), at(11), at(13))).To(Equal(int64(120)))
	})

	It("should return zero for touching boundaries", func() {
		Expect(schedule.OverlapMinutes(at(9), at(17), at(17), at(22))).To(Equal(int64(0)))
	})

	It("should return zero for disjoint intervals", func() {
		Expect(schedule.OverlapMinutes(at(9), at(12), at(14), at(18))).To(Equal(int64(0)))
	})

	It("should floor sub-minute overlaps", func() {
		start := at(9)
		Expect(schedule.OverlapMinutes(start, start.Add(90*time.Second), start.Add(30*time.Second), at(12))).To(Equal(int64(1)))
	})
})

var _ = Describe("DetectConflicts", func() {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return day.Add(time.Duration(h) * time.Hour) }

	existing := []*schedule.Shift{
		{ID: 1, StartTime: at(9), EndTime: at(17)},
		{ID: 2, StartTime: at(18), EndTime: at(22)},
	}

	Context("when the requested interval overlaps one shift", func() {
		It("should report exactly that shift with the overlap size", func() {
			result := schedule.DetectConflicts(at(16), at(18), existing)

			Expect(result.HasConflict).To(BeTrue())
			Expect(result.Conflicts).To(HaveLen(1))
			Expect(result.Conflicts[0].ShiftID).To(Equal(int64(1)))
			Expect(result.Conflicts[0].OverlapMinutes).To(Equal(int64(60)))
		})
	})

	Context("when the requested interval overlaps several shifts", func() {
		It("should report all of them", func() {
			result := schedule.DetectConflicts(at(16), at(19), existing)

			Expect(result.HasConflict).To(BeTrue())
			Expect(result.Conflicts).To(HaveLen(2))
		})
	})

	Context("when the requested interval only touches boundaries", func() {
		It("should report no conflicts", func() {
			result := schedule.DetectConflicts(at(17), at(18), existing)

			Expect(result.HasConflict).To(BeFalse())
			Expect(result.Conflicts).To(BeEmpty())
		})
	})

	Context("when there are no existing shifts", func() {
		It("should report no conflicts", func() {
			result := schedule.DetectConflicts(at(9), at(17), nil)

			Expect(result.HasConflict).To(BeFalse())
			Expect(result.Conflicts).To(BeEmpty())
		})
	})
})
