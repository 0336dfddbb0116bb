package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"dojo.app/platform/internal/model"
	"dojo.app/platform/internal/service"
)

var _ = Describe("RosterService", func() {
	const (
		orgID        = int64(7)
		otherOrgID   = int64(8)
		schoolID     = int64(70)
		otherSchool  = int64(71)
		instructorID = int64(700)
	)

	var (
		ctx   context.Context
		db    *memoryDB
		tx    *fakeTxRunner
		clock *fixedClock
		svc   service.RosterService
	)

	addUser := func(id, org int64, role model.Role) {
		db.users[id] = model.User{ID: id, OrganizationID: &org, Role: role, IsActive: true}
	}

	enroll := func(userID int64, code string) *model.Student {
		addUser(userID, orgID, model.RoleStudent)
		student, err := svc.EnrollStudent(ctx, orgID, model.StudentInput{
			UserID: userID, SchoolID: schoolID, StudentCode: code,
		})
		Expect(err).NotTo(HaveOccurred())
		return student
	}

	BeforeEach(func() {
		ctx = context.Background()
		db = newMemoryDB()
		tx = &fakeTxRunner{db: db}
		clock = &fixedClock{t: time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)}
		svc = service.NewRosterService(tx, clock.Now)

		settings := model.NewTrialSettings(2, 2)
		db.orgs[orgID] = model.Organization{
			ID:                 orgID,
			Subscription:       model.TierTrial,
			SubscriptionStatus: model.SubscriptionStatusActive,
			Settings:           settings,
			IsActive:           true,
		}
		db.schools[schoolID] = model.School{
			ID: schoolID, OrganizationID: orgID, IsActive: true,
			Settings: model.SchoolSettings{ClassCapacity: 25},
		}
		db.schools[otherSchool] = model.School{ID: otherSchool, OrganizationID: orgID, IsActive: true}
		addUser(instructorID, orgID, model.RoleInstructor)
	})

	Describe("EnrollStudent", func() {
		It("creates an active profile with defaults", func() {
			student := enroll(100, "TD-0001")

			Expect(student.Status).To(Equal(model.StudentStatusActive))
			Expect(student.TuitionStatus).To(Equal(model.TuitionStatusPending))
			Expect(student.BeltRank).To(Equal(model.DefaultBeltRank))
			Expect(student.JoinDate).To(Equal(clock.t))
			Expect(db.students).To(HaveKey(student.ID))
			Expect(db.locks).To(Equal(1))
		})

		It("enforces the active student quota", func() {
			enroll(100, "TD-0001")
			enroll(101, "TD-0002")
			addUser(102, orgID, model.RoleStudent)

			_, err := svc.EnrollStudent(ctx, orgID, model.StudentInput{UserID: 102, SchoolID: schoolID, StudentCode: "TD-0003"})
			Expect(err).To(MatchError(service.ErrStudentQuotaExceeded))
			Expect(db.students).To(HaveLen(2))
		})

		It("does not count graduated students against the quota", func() {
			first := enroll(100, "TD-0001")
			enroll(101, "TD-0002")
			graduated := db.students[first.ID]
			graduated.Status = model.StudentStatusGraduated
			db.students[first.ID] = graduated

			enroll(102, "TD-0003")
			Expect(db.students).To(HaveLen(3))
		})

		It("rejects a student code already in use", func() {
			enroll(100, "TD-0001")
			addUser(101, orgID, model.RoleStudent)

			_, err := svc.EnrollStudent(ctx, orgID, model.StudentInput{UserID: 101, SchoolID: schoolID, StudentCode: "TD-0001"})
			Expect(err).To(MatchError(service.ErrValidation))
			Expect(err.Error()).To(ContainSubstring("TD-0001"))
		})

		It("refuses a second profile for the same user", func() {
			enroll(100, "TD-0001")

			_, err := svc.EnrollStudent(ctx, orgID, model.StudentInput{UserID: 100, SchoolID: schoolID, StudentCode: "TD-0009"})
			Expect(err).To(MatchError(service.ErrAlreadyEnrolled))
		})

		It("rejects users who are not students of the organization", func() {
			addUser(200, orgID, model.RoleParent)
			addUser(201, otherOrgID, model.RoleStudent)

			for _, userID := range []int64{200, 201, 999} {
				_, err := svc.EnrollStudent(ctx, orgID, model.StudentInput{UserID: userID, SchoolID: schoolID, StudentCode: "X"})
				Expect(err).To(MatchError(service.ErrValidation), "user %d", userID)
			}
			Expect(db.students).To(BeEmpty())
		})

		It("requires a student code", func() {
			addUser(100, orgID, model.RoleStudent)

			_, err := svc.EnrollStudent(ctx, orgID, model.StudentInput{UserID: 100, SchoolID: schoolID, StudentCode: "  "})
			Expect(err).To(MatchError(service.ErrValidation))
			Expect(tx.calls).To(BeZero())
		})

		It("refuses organizations whose trial has expired", func() {
			org := db.orgs[orgID]
			org.SubscriptionStatus = model.SubscriptionStatusExpired
			db.orgs[orgID] = org
			addUser(100, orgID, model.RoleStudent)

			_, err := svc.EnrollStudent(ctx, orgID, model.StudentInput{UserID: 100, SchoolID: schoolID, StudentCode: "TD-0001"})
			Expect(err).To(MatchError(service.ErrSubscriptionInactive))
			Expect(db.students).To(BeEmpty())
		})

		It("rejects a school of another organization", func() {
			db.schools[80] = model.School{ID: 80, OrganizationID: otherOrgID, IsActive: true}
			addUser(100, orgID, model.RoleStudent)

			_, err := svc.EnrollStudent(ctx, orgID, model.StudentInput{UserID: 100, SchoolID: 80, StudentCode: "TD-0001"})
			Expect(err).To(MatchError(service.ErrValidation))
		})
	})

	Describe("ScheduleClass", func() {
		var input model.ClassInput

		BeforeEach(func() {
			input = model.ClassInput{
				SchoolID:     schoolID,
				Name:         "Kids Judo",
				InstructorID: instructorID,
				DayOfWeek:    time.Tuesday,
				StartTime:    "17:00",
				EndTime:      "18:15",
				IsRecurring:  true,
			}
		})

		It("derives duration and capacity", func() {
			class, err := svc.ScheduleClass(ctx, orgID, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(class.DurationMinutes).To(Equal(75))
			Expect(class.MaxStudents).To(Equal(25))
			Expect(class.Status).To(Equal(model.ClassStatusActive))
			Expect(class.StartDate).To(Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)))
			Expect(db.classes).To(HaveKey(class.ID))
		})

		It("rejects an end time that is not after the start", func() {
			input.EndTime = "17:00"

			_, err := svc.ScheduleClass(ctx, orgID, input)
			Expect(err).To(MatchError(service.ErrValidation))
			Expect(tx.calls).To(BeZero())
		})

		It("rejects malformed times", func() {
			input.StartTime = "5pm"

			_, err := svc.ScheduleClass(ctx, orgID, input)
			Expect(err).To(MatchError(service.ErrValidation))
		})

		It("requires staff as instructor", func() {
			addUser(701, orgID, model.RoleStudent)
			input.InstructorID = 701

			_, err := svc.ScheduleClass(ctx, orgID, input)
			Expect(err).To(MatchError(service.ErrValidation))
			Expect(db.classes).To(BeEmpty())
		})
	})

	Describe("RecordAttendance", func() {
		var (
			class   *model.Class
			student *model.Student
		)

		BeforeEach(func() {
			var err error
			class, err = svc.ScheduleClass(ctx, orgID, model.ClassInput{
				SchoolID: schoolID, Name: "Adults", InstructorID: instructorID,
				DayOfWeek: time.Monday, StartTime: "19:00", EndTime: "20:30",
			})
			Expect(err).NotTo(HaveOccurred())
			student = enroll(100, "TD-0001")
		})

		mark := func(date time.Time, status model.AttendanceStatus) (*model.Attendance, error) {
			return svc.RecordAttendance(ctx, orgID, model.AttendanceInput{
				ClassID: class.ID, StudentID: student.ID, Date: date, Status: status,
			})
		}

		It("replaces the mark for the same session and refreshes the rate", func() {
			monday := time.Date(2025, 3, 3, 19, 5, 0, 0, time.UTC)
			first, err := mark(monday, model.AttendanceAbsent)
			Expect(err).NotTo(HaveOccurred())

			again, err := mark(monday.Add(time.Hour), model.AttendanceLate)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.ID).To(Equal(first.ID))
			Expect(db.attendance).To(HaveLen(1))

			_, err = mark(monday.AddDate(0, 0, 7), model.AttendanceAbsent)
			Expect(err).NotTo(HaveOccurred())

			updated := db.students[student.ID]
			Expect(updated.AttendanceRate).NotTo(BeNil())
			Expect(*updated.AttendanceRate).To(Equal(50.0))
			Expect(*updated.LastAttendance).To(Equal(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)))
		})

		It("rejects a student from another school", func() {
			db.students[900] = model.Student{ID: 900, OrganizationID: orgID, SchoolID: otherSchool, StudentCode: "TD-0900"}

			_, err := svc.RecordAttendance(ctx, orgID, model.AttendanceInput{
				ClassID: class.ID, StudentID: 900, Date: clock.t, Status: model.AttendancePresent,
			})
			Expect(err).To(MatchError(service.ErrValidation))
			Expect(db.attendance).To(BeEmpty())
		})

		It("rejects unknown statuses", func() {
			_, err := mark(clock.t, model.AttendanceStatus("sick"))
			Expect(err).To(MatchError(service.ErrValidation))
		})

		It("requires the attendance feature", func() {
			org := db.orgs[orgID]
			org.Settings.Features.Attendance = false
			db.orgs[orgID] = org

			_, err := mark(clock.t, model.AttendancePresent)
			Expect(err).To(MatchError(service.ErrFeatureDisabled))
		})

		It("rolls the mark back when the rate update fails", func() {
			db.failures["students.updateAttendance"] = errBoom

			_, err := mark(clock.t, model.AttendancePresent)
			Expect(err).To(MatchError(errBoom))
			Expect(db.attendance).To(BeEmpty())
			Expect(db.students[student.ID].AttendanceRate).To(BeNil())
		})
	})
})
