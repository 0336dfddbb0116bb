package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"dojo.app/platform/internal/model"
	"dojo.app/platform/internal/service"
)

var _ = Describe("SchoolService", func() {
	const orgID = int64(7)

	var (
		ctx   context.Context
		db    *memoryDB
		svc   service.SchoolService
		input model.SchoolInput
	)

	BeforeEach(func() {
		ctx = context.Background()
		db = newMemoryDB()
		svc = service.NewSchoolService(db.Schools(), db.Users(), &fakeTxRunner{db: db})

		db.orgs[orgID] = model.Organization{
			ID:       orgID,
			Settings: model.OrganizationSettings{}.ApplyTier(model.TierBasic),
		}

		input = model.SchoolInput{
			Name:        "North Branch",
			Address:     model.Address{Street: "2 Elm St", City: "Austin", State: "TX", ZipCode: "78702"},
			Phone:       "+1 555 0101",
			Email:       "north@tigerdojo.com",
			MartialArts: []string{"judo"},
			MaxStudents: 40,
		}
	})

	Describe("Create", func() {
		It("creates an active school with a per-organization slug", func() {
			school, err := svc.Create(ctx, orgID, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(school.Slug).To(Equal("north-branch"))
			Expect(school.IsActive).To(BeTrue())
			Expect(school.Address.Country).To(Equal("USA"))
			Expect(*school.MaxStudents).To(Equal(40))
			Expect(db.schools).To(HaveKey(school.ID))
		})

		It("rejects a duplicate name in the same organization", func() {
			_, err := svc.Create(ctx, orgID, input)
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.Create(ctx, orgID, input)
			Expect(err).To(MatchError(service.ErrSchoolNameTaken))
		})

		It("suffixes a slug already used in the same organization", func() {
			first, err := svc.Create(ctx, orgID, input)
			Expect(err).NotTo(HaveOccurred())

			input.Name = "North-Branch"
			second, err := svc.Create(ctx, orgID, input)
			Expect(err).NotTo(HaveOccurred())

			Expect(first.Slug).To(Equal("north-branch"))
			Expect(second.Slug).To(Equal("north-branch-1"))
		})

		It("reuses a slug taken only by another organization", func() {
			const otherOrgID = int64(8)
			db.orgs[otherOrgID] = model.Organization{
				ID:       otherOrgID,
				Settings: model.OrganizationSettings{}.ApplyTier(model.TierBasic),
			}

			_, err := svc.Create(ctx, otherOrgID, input)
			Expect(err).NotTo(HaveOccurred())

			school, err := svc.Create(ctx, orgID, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(school.Slug).To(Equal("north-branch"))
		})

		It("enforces the school quota", func() {
			for _, name := range []string{"A", "B", "C"} {
				input.Name = name
				_, err := svc.Create(ctx, orgID, input)
				Expect(err).NotTo(HaveOccurred())
			}

			input.Name = "D"
			_, err := svc.Create(ctx, orgID, input)
			Expect(err).To(MatchError(service.ErrSchoolQuotaExceeded))
			Expect(db.schools).To(HaveLen(3))
		})

		It("ignores the quota for unlimited organizations", func() {
			org := db.orgs[orgID]
			org.Settings = org.Settings.ApplyTier(model.TierEnterprise)
			db.orgs[orgID] = org

			for _, name := range []string{"A", "B", "C", "D", "E"} {
				input.Name = name
				_, err := svc.Create(ctx, orgID, input)
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("requires at least one martial art", func() {
			input.MartialArts = nil
			_, err := svc.Create(ctx, orgID, input)
			Expect(err).To(MatchError(service.ErrValidation))
		})
	})

	Describe("Update", func() {
		It("applies a partial patch", func() {
			school, err := svc.Create(ctx, orgID, input)
			Expect(err).NotTo(HaveOccurred())

			updated, err := svc.Update(ctx, orgID, school.ID, model.SchoolPatch{
				City:        strPtr("Dallas"),
				MaxStudents: intPtr(60),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Address.City).To(Equal("Dallas"))
			Expect(updated.Address.Street).To(Equal("2 Elm St"))
			Expect(*updated.MaxStudents).To(Equal(60))
			Expect(updated.Name).To(Equal("North Branch"))
		})

		It("refuses a rename onto another school", func() {
			_, err := svc.Create(ctx, orgID, input)
			Expect(err).NotTo(HaveOccurred())
			input.Name = "South Branch"
			south, err := svc.Create(ctx, orgID, input)
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.Update(ctx, orgID, south.ID, model.SchoolPatch{Name: strPtr("North Branch")})
			Expect(err).To(MatchError(service.ErrSchoolNameTaken))
		})

		It("does not see schools of other organizations", func() {
			school, err := svc.Create(ctx, orgID, input)
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.Update(ctx, orgID+1, school.ID, model.SchoolPatch{City: strPtr("Dallas")})
			Expect(err).To(MatchError(service.ErrNotFound))
		})
	})

	Describe("Delete and Stats", func() {
		var school *model.School

		BeforeEach(func() {
			var err error
			school, err = svc.Create(ctx, orgID, input)
			Expect(err).NotTo(HaveOccurred())
		})

		addUser := func(id int64, role model.Role) {
			db.users[id] = model.User{ID: id, SchoolID: &school.ID, Role: role, IsActive: true}
		}

		It("refuses to delete a school with students", func() {
			addUser(100, model.RoleStudent)

			err := svc.Delete(ctx, orgID, school.ID)
			Expect(err).To(MatchError(service.ErrSchoolHasStudents))
			Expect(db.schools).To(HaveKey(school.ID))
		})

		It("refuses to delete a school that still holds graduated student profiles", func() {
			db.students[500] = model.Student{
				ID: 500, UserID: 501, OrganizationID: orgID, SchoolID: school.ID,
				StudentCode: "G-1", Status: model.StudentStatusGraduated,
			}

			err := svc.Delete(ctx, orgID, school.ID)
			Expect(err).To(MatchError(service.ErrSchoolHasStudents))
			Expect(db.schools).To(HaveKey(school.ID))
		})

		It("deletes an empty school", func() {
			Expect(svc.Delete(ctx, orgID, school.ID)).To(Succeed())
			Expect(db.schools).NotTo(HaveKey(school.ID))
		})

		It("computes utilization", func() {
			for i := range int64(10) {
				addUser(200+i, model.RoleStudent)
			}
			addUser(300, model.RoleInstructor)

			stats, err := svc.Stats(ctx, orgID, school.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.StudentCount).To(Equal(int64(10)))
			Expect(stats.InstructorCount).To(Equal(int64(1)))
			Expect(stats.MaxStudents).To(Equal(40))
			Expect(stats.Utilization).To(Equal(25))
			Expect(stats.MartialArts).To(ConsistOf("judo"))
		})
	})
})
