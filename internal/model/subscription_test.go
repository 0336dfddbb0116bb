package model_test

import (
	"time"
	_ "time/tzdata"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"dojo.app/platform/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var _ = Describe("Trial math", func() {
	start := date(2024, time.January, 1)
	end := model.TrialWindow(start)

	It("ends thirty days after the start", func() {
		Expect(end).To(Equal(date(2024, time.January, 31)))
	})

	It("reports remaining days mid-trial", func() {
		status := model.ComputeTrialStatus(&end, date(2024, time.January, 20))
		Expect(status.DaysRemaining).To(Equal(11))
		Expect(status.IsExpired).To(BeFalse())
		Expect(*status.TrialEndDate).To(Equal(end))
	})

	It("rounds partial days up", func() {
		status := model.ComputeTrialStatus(&end, date(2024, time.January, 30).Add(time.Hour))
		Expect(status.DaysRemaining).To(Equal(1))
		Expect(status.IsExpired).To(BeFalse())
	})

	It("clamps to zero after expiry", func() {
		status := model.ComputeTrialStatus(&end, date(2024, time.February, 5))
		Expect(status.DaysRemaining).To(Equal(0))
		Expect(status.IsExpired).To(BeTrue())
	})

	It("is expired exactly at the end instant", func() {
		status := model.ComputeTrialStatus(&end, end)
		Expect(status.IsExpired).To(BeTrue())
	})

	It("treats a missing end date as expired", func() {
		status := model.ComputeTrialStatus(nil, start)
		Expect(status).To(Equal(model.TrialStatus{IsExpired: true, DaysRemaining: 0, TrialEndDate: nil}))
	})

	It("extends cumulatively", func() {
		first := model.ExtendTrialEnd(&end, start, 10)
		Expect(first).To(Equal(date(2024, time.February, 10)))
		second := model.ExtendTrialEnd(&first, start, 5)
		Expect(second).To(Equal(date(2024, time.February, 15)))
	})

	It("extends from now when no end date is set", func() {
		now := date(2024, time.March, 1)
		Expect(model.ExtendTrialEnd(nil, now, 7)).To(Equal(date(2024, time.March, 8)))
	})

	It("counts calendar days across a daylight saving change", func() {
		ny, err := time.LoadLocation("America/New_York")
		Expect(err).NotTo(HaveOccurred())

		end := time.Date(2024, time.March, 9, 9, 0, 0, 0, ny)
		extended := model.ExtendTrialEnd(&end, end, 2)
		Expect(extended).To(BeTemporally("==", time.Date(2024, time.March, 11, 9, 0, 0, 0, ny)))
		Expect(extended.Sub(end)).To(Equal(47 * time.Hour))

		start := time.Date(2024, time.October, 15, 9, 0, 0, 0, ny)
		Expect(model.TrialWindow(start)).To(BeTemporally("==", time.Date(2024, time.November, 14, 9, 0, 0, 0, ny)))
	})
})

var _ = Describe("Tier policies", func() {
	It("seeds trial settings with defaults", func() {
		s := model.NewTrialSettings(0, 0)
		Expect(s.AllowedSchools).To(Equal(1))
		Expect(s.AllowedStudents).To(Equal(100))
		Expect(s.TrialFeatures).To(BeTrue())
		Expect(s.Features.Payments).To(BeFalse())
		Expect(s.Features.CustomBranding).To(BeTrue())
	})

	It("keeps supplied estimates", func() {
		s := model.NewTrialSettings(3, 250)
		Expect(s.AllowedSchools).To(Equal(3))
		Expect(s.AllowedStudents).To(Equal(250))
	})

	It("replaces features wholesale on conversion", func() {
		trial := model.NewTrialSettings(1, 50)
		Expect(trial.Features.CustomBranding).To(BeTrue())

		basic := trial.ApplyTier(model.TierBasic)
		Expect(basic.Features).To(Equal(model.FeatureSet{Attendance: true, Reporting: true, Messaging: true}))
		Expect(basic.AllowedSchools).To(Equal(3))
		Expect(basic.AllowedStudents).To(Equal(200))
		Expect(basic.TrialFeatures).To(BeFalse())
	})

	DescribeTable("applies the policy table",
		func(tier model.Tier, schools, students int, payments, branding bool) {
			s := model.NewTrialSettings(1, 1).ApplyTier(tier)
			Expect(s.AllowedSchools).To(Equal(schools))
			Expect(s.AllowedStudents).To(Equal(students))
			Expect(s.Features.Payments).To(Equal(payments))
			Expect(s.Features.CustomBranding).To(Equal(branding))
			Expect(s.Features.Attendance).To(BeTrue())
		},
		Entry("free", model.TierFree, 1, 50, false, false),
		Entry("basic", model.TierBasic, 3, 200, false, false),
		Entry("premium", model.TierPremium, 10, 1000, true, false),
		Entry("enterprise", model.TierEnterprise, -1, -1, true, true),
	)

	It("sets expiry to now for free and one year out otherwise", func() {
		now := date(2024, time.June, 15)
		Expect(model.SubscriptionExpiry(model.TierFree, now)).To(Equal(now))
		Expect(model.SubscriptionExpiry(model.TierPremium, now)).To(Equal(date(2025, time.June, 15)))
	})

	It("treats -1 as unlimited schools", func() {
		s := model.OrganizationSettings{AllowedSchools: model.Unlimited}
		Expect(s.AllowsSchools(1000)).To(BeTrue())
		Expect(model.OrganizationSettings{AllowedSchools: 3}.AllowsSchools(3)).To(BeFalse())
	})
})

var _ = Describe("Tier transitions", func() {
	It("allows trial to convert to every tier", func() {
		for _, tier := range model.PaidTiers {
			Expect(model.CanTransition(model.TierTrial, tier)).To(BeTrue(), string(tier))
		}
	})

	It("never returns to trial", func() {
		for _, tier := range append(model.PaidTiers, model.TierTrial) {
			Expect(model.CanTransition(tier, model.TierTrial)).To(BeFalse(), string(tier))
		}
	})

	It("allows moves between paid tiers", func() {
		Expect(model.CanTransition(model.TierBasic, model.TierEnterprise)).To(BeTrue())
		Expect(model.CanTransition(model.TierPremium, model.TierFree)).To(BeTrue())
	})

	It("rejects unknown tiers", func() {
		Expect(model.CanTransition(model.TierTrial, model.Tier("gold"))).To(BeFalse())
		Expect(model.Tier("gold").IsConvertible()).To(BeFalse())
	})
})

var _ = Describe("RegistrationInput", func() {
	It("defaults the first school name", func() {
		in := model.RegistrationInput{OrganizationName: "Tiger Dojo"}
		Expect(in.SchoolName()).To(Equal("Tiger Dojo Main School"))
	})

	It("uses the supplied school address and inherits the rest", func() {
		street := "9 Side St"
		in := model.RegistrationInput{
			Address:            model.Address{Street: "1 Main St", City: "Austin", State: "TX"},
			FirstSchoolAddress: &street,
		}
		addr := in.SchoolAddress()
		Expect(addr.Street).To(Equal("9 Side St"))
		Expect(addr.City).To(Equal("Austin"))
	})
})
