package service_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"dojo.app/platform/internal/model"
	"dojo.app/platform/internal/service"
)

var _ = Describe("RegistrationService", func() {
	var (
		ctx    context.Context
		db     *memoryDB
		tx     *fakeTxRunner
		hasher *fakeHasher
		hook   *mockWelcomeHook
		clock  *fixedClock
		svc    service.RegistrationService
		input  model.RegistrationInput
	)

	BeforeEach(func() {
		ctx = context.Background()
		db = newMemoryDB()
		tx = &fakeTxRunner{db: db}
		hasher = &fakeHasher{}
		hook = &mockWelcomeHook{}
		clock = &fixedClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
		svc = service.NewRegistrationService(db.Organizations(), db.Users(), tx, hasher, hook, clock.Now)

		input = model.RegistrationInput{
			OrganizationName:  "Tiger Dojo",
			BusinessType:      "single_location",
			MartialArtTypes:   []string{"karate"},
			NumberOfSchools:   2,
			EstimatedStudents: 150,
			Email:             "Owner@TigerDojo.com",
			Phone:             "+1 555 0100",
			Address: model.Address{
				Street: "1 Main St", City: "Austin", State: "TX", ZipCode: "78701", Country: "USA",
			},
			FirstName: "Ana",
			LastName:  "Silva",
			Password:  "Secret123",
		}
	})

	Describe("RegisterDojo", func() {
		It("creates organization, school and admin user atomically", func() {
			result, err := svc.RegisterDojo(ctx, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(tx.calls).To(Equal(1))

			Expect(db.orgs).To(HaveLen(1))
			Expect(db.schools).To(HaveLen(1))
			Expect(db.users).To(HaveLen(1))

			org := result.Organization
			Expect(org.Slug).To(Equal("tiger-dojo"))
			Expect(org.Subscription).To(Equal(model.TierTrial))
			Expect(org.SubscriptionStatus).To(Equal(model.SubscriptionStatusActive))
			Expect(*org.TrialStartDate).To(Equal(clock.t))
			Expect(*org.TrialEndDate).To(Equal(clock.t.Add(30 * 24 * time.Hour)))
			Expect(*org.SubscriptionExpiry).To(Equal(*org.TrialEndDate))
			Expect(org.Settings.AllowedSchools).To(Equal(2))
			Expect(org.Settings.AllowedStudents).To(Equal(150))
			Expect(org.Settings.TrialFeatures).To(BeTrue())
			Expect(org.Settings.Features.Payments).To(BeFalse())
			Expect(org.Settings.Features.Attendance).To(BeTrue())

			school := result.School
			Expect(school.OrganizationID).To(Equal(org.ID))
			Expect(school.Name).To(Equal("Tiger Dojo Main School"))
			Expect(school.Slug).To(Equal("tiger-dojo-main-school"))
			Expect(school.Address).To(Equal(input.Address))
			Expect(school.Settings.MartialArtTypes).To(ConsistOf("karate"))
			Expect(school.Settings.ClassCapacity).To(Equal(30))
			Expect(school.Settings.AllowOnlineBooking).To(BeTrue())

			user := result.User
			Expect(user.Email).To(Equal("owner@tigerdojo.com"))
			Expect(user.Role).To(Equal(model.RoleOrgAdmin))
			Expect(user.EmailVerified).To(BeFalse())
			Expect(user.IsActive).To(BeTrue())
			Expect(*user.LastLogin).To(Equal(clock.t))
			Expect(*user.OrganizationID).To(Equal(org.ID))
			Expect(*user.SchoolID).To(Equal(school.ID))
			Expect(user.PasswordHash).To(Equal("hashed:Secret123"))

			Expect(result.TrialDays).To(Equal(30))
		})

		It("uses the supplied first school name and street", func() {
			input.FirstSchoolName = strPtr("Downtown")
			input.FirstSchoolAddress = strPtr("9 Side St")

			result, err := svc.RegisterDojo(ctx, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.School.Name).To(Equal("Downtown"))
			Expect(result.School.Slug).To(Equal("downtown"))
			Expect(result.School.Address.Street).To(Equal("9 Side St"))
			Expect(result.School.Address.City).To(Equal("Austin"))
		})

		It("defaults quotas when the estimates are missing", func() {
			input.NumberOfSchools = 0
			input.EstimatedStudents = -3

			result, err := svc.RegisterDojo(ctx, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Organization.Settings.AllowedSchools).To(Equal(1))
			Expect(result.Organization.Settings.AllowedStudents).To(Equal(100))
		})

		It("suffixes the organization slug on collision", func() {
			_, err := svc.RegisterDojo(ctx, input)
			Expect(err).NotTo(HaveOccurred())

			input.Email = "second@tigerdojo.com"
			result, err := svc.RegisterDojo(ctx, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Organization.Slug).To(Equal("tiger-dojo-1"))
			Expect(result.School.Slug).To(Equal("tiger-dojo-main-school"))
		})

		DescribeTable("rejects missing required fields",
			func(mutate func(*model.RegistrationInput)) {
				mutate(&input)
				_, err := svc.RegisterDojo(ctx, input)

				var regErr *service.RegistrationError
				Expect(errors.As(err, &regErr)).To(BeTrue())
				Expect(regErr.Op).To(Equal("validate"))
				Expect(err).To(MatchError(service.ErrValidation))
				Expect(tx.calls).To(BeZero())
			},
			Entry("organization name", func(in *model.RegistrationInput) { in.OrganizationName = " " }),
			Entry("email", func(in *model.RegistrationInput) { in.Email = "" }),
			Entry("password", func(in *model.RegistrationInput) { in.Password = "" }),
			Entry("first name", func(in *model.RegistrationInput) { in.FirstName = "" }),
			Entry("last name", func(in *model.RegistrationInput) { in.LastName = "" }),
			Entry("martial arts", func(in *model.RegistrationInput) { in.MartialArtTypes = []string{" "} }),
		)

		It("rolls back organization and school when the user insert fails", func() {
			db.failures["users.create"] = errors.New("connection reset")

			_, err := svc.RegisterDojo(ctx, input)
			Expect(err).To(MatchError(service.ErrPersistence))

			var regErr *service.RegistrationError
			Expect(errors.As(err, &regErr)).To(BeTrue())
			Expect(regErr.Op).To(Equal("create user"))

			Expect(db.orgs).To(BeEmpty())
			Expect(db.schools).To(BeEmpty())
			Expect(db.users).To(BeEmpty())
			Expect(hook.calls).To(BeZero())
		})

		It("reports a duplicate email as a duplicate constraint", func() {
			_, err := svc.RegisterDojo(ctx, input)
			Expect(err).NotTo(HaveOccurred())

			input.OrganizationName = "Crane Dojo"
			_, err = svc.RegisterDojo(ctx, input)
			Expect(err).To(MatchError(service.ErrDuplicateConstraint))
			Expect(db.orgs).To(HaveLen(1))
		})

		It("fails with slug exhaustion when every candidate is taken", func() {
			for i := 0; i <= service.MaxSlugAttempts; i++ {
				slug := "tiger-dojo"
				if i > 0 {
					slug = fmt.Sprintf("tiger-dojo-%d", i)
				}
				db.orgs[int64(1000+i)] = model.Organization{ID: int64(1000 + i), Slug: slug}
			}

			_, err := svc.RegisterDojo(ctx, input)
			Expect(err).To(MatchError(service.ErrSlugExhausted))
			Expect(tx.calls).To(BeZero())
		})

		It("returns the hashing error as the cause", func() {
			hashErr := errors.New("entropy exhausted")
			hasher.hashErr = hashErr

			_, err := svc.RegisterDojo(ctx, input)
			Expect(err).To(MatchError(hashErr))
			Expect(tx.calls).To(BeZero())
		})

		It("wraps slug lookup failures as persistence errors", func() {
			db.failures["orgs.getBySlug"] = errors.New("timeout")

			_, err := svc.RegisterDojo(ctx, input)
			Expect(err).To(MatchError(service.ErrPersistence))
		})

		It("notifies the welcome hook after commit", func() {
			var seen *model.RegistrationResult
			hook.onRegisteredFn = func(_ context.Context, result *model.RegistrationResult) error {
				Expect(db.users).To(HaveLen(1))
				seen = result
				return nil
			}

			result, err := svc.RegisterDojo(ctx, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(hook.calls).To(Equal(1))
			Expect(seen).To(Equal(result))
		})

		It("ignores welcome hook failures", func() {
			hook.onRegisteredFn = func(context.Context, *model.RegistrationResult) error {
				return errors.New("queue unavailable")
			}

			result, err := svc.RegisterDojo(ctx, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).NotTo(BeNil())
			Expect(db.orgs).To(HaveLen(1))
		})

		It("survives a panicking welcome hook", func() {
			hook.onRegisteredFn = func(context.Context, *model.RegistrationResult) error {
				panic("boom")
			}

			_, err := svc.RegisterDojo(ctx, input)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("IsEmailAvailable", func() {
		It("is case-insensitive", func() {
			_, err := svc.RegisterDojo(ctx, input)
			Expect(err).NotTo(HaveOccurred())

			available, err := svc.IsEmailAvailable(ctx, "OWNER@tigerdojo.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(available).To(BeFalse())

			available, err = svc.IsEmailAvailable(ctx, "new@tigerdojo.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(available).To(BeTrue())
		})

		It("propagates store errors", func() {
			db.failures["users.getByEmail"] = errors.New("timeout")

			_, err := svc.IsEmailAvailable(ctx, "new@tigerdojo.com")
			Expect(err).To(HaveOccurred())
		})
	})
})
