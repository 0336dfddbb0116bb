package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"dojo.app/platform/common/id"
	"dojo.app/platform/common/logger"
	"dojo.app/platform/internal/model"
	"dojo.app/platform/internal/store"
)

// RosterService manages student enrollment, the class schedule and
// attendance for an organization's schools.
type RosterService interface {
	EnrollStudent(ctx context.Context, orgID int64, input model.StudentInput) (*model.Student, error)
	ScheduleClass(ctx context.Context, orgID int64, input model.ClassInput) (*model.Class, error)
	RecordAttendance(ctx context.Context, orgID int64, input model.AttendanceInput) (*model.Attendance, error)
}

type rosterService struct {
	txRunner TxRunner
	now      func() time.Time
}

func NewRosterService(txRunner TxRunner, now func() time.Time) RosterService {
	if now == nil {
		now = time.Now
	}
	return &rosterService{txRunner: txRunner, now: now}
}

// EnrollStudent creates the student profile for a user with the student role.
// The active-student quota is checked under the organization row lock.
func (s *rosterService) EnrollStudent(ctx context.Context, orgID int64, input model.StudentInput) (student *model.Student, err error) {
	sc := logger.StartSpan(ctx, "roster.enroll_student",
		trace.WithAttributes(logger.AttrOrganizationID.Int64(orgID), logger.AttrSchoolID.Int64(input.SchoolID)))
	defer func() {
		sc.RecordError(err)
		sc.End()
	}()
	ctx = logger.WithLogFields(sc.Context(), logger.LogFields{
		OrganizationID: logger.Ptr(orgID),
		SchoolID:       logger.Ptr(input.SchoolID),
		Component:      "dojo.service.roster",
	})

	code := strings.TrimSpace(input.StudentCode)
	if code == "" {
		return nil, validationError("student code is required")
	}
	belt := input.BeltRank
	if belt == "" {
		belt = model.DefaultBeltRank
	}
	joined := input.JoinDate
	if joined.IsZero() {
		joined = s.now()
	}

	student = &model.Student{
		ID:              id.New(),
		UserID:          input.UserID,
		OrganizationID:  orgID,
		SchoolID:        input.SchoolID,
		StudentCode:     code,
		BeltRank:        belt,
		JoinDate:        joined,
		Status:          model.StudentStatusActive,
		ParentIDs:       input.ParentIDs,
		Notes:           input.Notes,
		NextGradingDate: input.NextGradingDate,
		TuitionStatus:   model.TuitionStatusPending,
		TuitionDueDate:  input.TuitionDueDate,
	}

	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		org, err := lockOperatingOrganization(ctx, stores, orgID)
		if err != nil {
			return err
		}
		if _, err := schoolInOrganization(ctx, stores, orgID, input.SchoolID); err != nil {
			return err
		}

		user, err := stores.Users().GetByID(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return validationError("user %d does not exist", input.UserID)
			}
			return fmt.Errorf("getting user: %w", err)
		}
		if !belongsTo(user, orgID) || user.Role != model.RoleStudent {
			return validationError("user %d is not a student of this organization", input.UserID)
		}

		count, err := stores.Students().CountActiveByOrganization(ctx, orgID)
		if err != nil {
			return fmt.Errorf("counting students: %w", err)
		}
		if !org.Settings.AllowsStudents(count) {
			return fmt.Errorf("%w: %d of %d", ErrStudentQuotaExceeded, count, org.Settings.AllowedStudents)
		}

		if err := stores.Students().Create(ctx, student); err != nil {
			switch store.DuplicateConstraint(err) {
			case store.ConstraintStudentUser:
				return ErrAlreadyEnrolled
			case store.ConstraintStudentCode:
				return validationError("student code %q is already in use", code)
			}
			return fmt.Errorf("creating student: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "student enrolled",
		"student_id", student.ID,
		"user_id", student.UserID)
	return student, nil
}

// ScheduleClass adds a weekly class to a school. The instructor must be staff
// of the same organization.
func (s *rosterService) ScheduleClass(ctx context.Context, orgID int64, input model.ClassInput) (class *model.Class, err error) {
	sc := logger.StartSpan(ctx, "roster.schedule_class",
		trace.WithAttributes(logger.AttrOrganizationID.Int64(orgID), logger.AttrSchoolID.Int64(input.SchoolID)))
	defer func() {
		sc.RecordError(err)
		sc.End()
	}()
	ctx = logger.WithLogFields(sc.Context(), logger.LogFields{
		OrganizationID: logger.Ptr(orgID),
		SchoolID:       logger.Ptr(input.SchoolID),
		Component:      "dojo.service.roster",
	})

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationError("class name is required")
	}
	if input.DayOfWeek < time.Sunday || input.DayOfWeek > time.Saturday {
		return nil, validationError("day of week must be between 0 and 6")
	}
	duration, err := model.ClassDuration(input.StartTime, input.EndTime)
	if err != nil {
		return nil, validationError("%v", err)
	}
	if input.MaxStudents < 0 {
		return nil, validationError("maximum students must be positive")
	}
	startDate := input.StartDate
	if startDate.IsZero() {
		startDate = s.now()
	}
	startDate = model.SessionDate(startDate)
	if input.EndDate != nil && input.EndDate.Before(startDate) {
		return nil, validationError("end date must not be before start date")
	}

	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if _, err := lockOperatingOrganization(ctx, stores, orgID); err != nil {
			return err
		}
		school, err := schoolInOrganization(ctx, stores, orgID, input.SchoolID)
		if err != nil {
			return err
		}

		instructor, err := stores.Users().GetByID(ctx, input.InstructorID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return validationError("instructor %d does not exist", input.InstructorID)
			}
			return fmt.Errorf("getting instructor: %w", err)
		}
		if !belongsTo(instructor, orgID) || !canInstruct(instructor.Role) {
			return validationError("user %d cannot instruct classes in this organization", input.InstructorID)
		}

		capacity := input.MaxStudents
		if capacity == 0 {
			capacity = school.Settings.ClassCapacity
		}
		if capacity == 0 {
			capacity = model.DefaultClassCapacity
		}

		class = &model.Class{
			ID:                     id.New(),
			OrganizationID:         orgID,
			SchoolID:               school.ID,
			Name:                   name,
			Description:            input.Description,
			InstructorID:           instructor.ID,
			AssistantInstructorIDs: input.AssistantInstructorIDs,
			DayOfWeek:              input.DayOfWeek,
			StartTime:              input.StartTime,
			EndTime:                input.EndTime,
			DurationMinutes:        duration,
			MaxStudents:            capacity,
			BeltLevels:             input.BeltLevels,
			AgeGroups:              input.AgeGroups,
			Location:               input.Location,
			IsRecurring:            input.IsRecurring,
			StartDate:              startDate,
			EndDate:                input.EndDate,
			Status:                 model.ClassStatusActive,
		}
		if err := stores.Classes().Create(ctx, class); err != nil {
			return fmt.Errorf("creating class: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "class scheduled",
		"class_id", class.ID,
		"day_of_week", class.DayOfWeek.String(),
		"start_time", class.StartTime)
	return class, nil
}

// RecordAttendance marks a student for one class session and refreshes the
// student's attendance rate in the same transaction. Marking the same session
// again replaces the earlier mark.
func (s *rosterService) RecordAttendance(ctx context.Context, orgID int64, input model.AttendanceInput) (record *model.Attendance, err error) {
	sc := logger.StartSpan(ctx, "roster.record_attendance",
		trace.WithAttributes(logger.AttrOrganizationID.Int64(orgID)))
	defer func() {
		sc.RecordError(err)
		sc.End()
	}()
	ctx = logger.WithLogFields(sc.Context(), logger.LogFields{
		OrganizationID: logger.Ptr(orgID),
		Component:      "dojo.service.roster",
	})

	if !input.Status.IsValid() {
		return nil, validationError("unknown attendance status %q", input.Status)
	}
	date := input.Date
	if date.IsZero() {
		date = s.now()
	}
	if input.CheckInTime != nil && input.CheckOutTime != nil && input.CheckOutTime.Before(*input.CheckInTime) {
		return nil, validationError("check-out must not be before check-in")
	}

	var summary model.AttendanceSummary
	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		org, err := lockOperatingOrganization(ctx, stores, orgID)
		if err != nil {
			return err
		}
		if !org.Settings.Features.Attendance {
			return fmt.Errorf("%w: attendance", ErrFeatureDisabled)
		}

		class, err := stores.Classes().GetByID(ctx, orgID, input.ClassID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return validationError("class %d does not exist", input.ClassID)
			}
			return fmt.Errorf("getting class: %w", err)
		}
		if class.Status != model.ClassStatusActive {
			return validationError("class %d is %s", class.ID, class.Status)
		}
		student, err := stores.Students().GetByID(ctx, orgID, input.StudentID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return validationError("student %d does not exist", input.StudentID)
			}
			return fmt.Errorf("getting student: %w", err)
		}
		if student.SchoolID != class.SchoolID {
			return validationError("student %d is not enrolled at the class's school", student.ID)
		}

		record = &model.Attendance{
			ID:             id.New(),
			OrganizationID: orgID,
			SchoolID:       class.SchoolID,
			ClassID:        class.ID,
			StudentID:      student.ID,
			Date:           model.SessionDate(date),
			Status:         input.Status,
			CheckInTime:    input.CheckInTime,
			CheckOutTime:   input.CheckOutTime,
			Notes:          input.Notes,
			MarkedBy:       input.MarkedBy,
		}
		if err := stores.Attendance().Upsert(ctx, record); err != nil {
			return fmt.Errorf("recording attendance: %w", err)
		}

		summary, err = stores.Attendance().SummarizeStudent(ctx, student.ID)
		if err != nil {
			return fmt.Errorf("summarizing attendance: %w", err)
		}
		if err := stores.Students().UpdateAttendance(ctx, student.ID, summary); err != nil {
			return fmt.Errorf("updating attendance rate: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "attendance recorded",
		"class_id", record.ClassID,
		"student_id", record.StudentID,
		"status", string(record.Status),
		"attendance_rate", summary.Rate())
	return record, nil
}

// lockOperatingOrganization takes the organization row lock and refuses
// organizations whose trial or subscription has lapsed.
func lockOperatingOrganization(ctx context.Context, stores StoreProvider, orgID int64) (*model.Organization, error) {
	org, err := stores.Organizations().GetByIDForUpdate(ctx, orgID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("locking organization: %w", err)
	}
	if !org.CanOperate() {
		return nil, fmt.Errorf("%w: %s", ErrSubscriptionInactive, org.SubscriptionStatus)
	}
	return org, nil
}

func schoolInOrganization(ctx context.Context, stores StoreProvider, orgID, schoolID int64) (*model.School, error) {
	school, err := stores.Schools().GetByID(ctx, orgID, schoolID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, validationError("school %d does not exist", schoolID)
		}
		return nil, fmt.Errorf("getting school: %w", err)
	}
	if !school.IsActive {
		return nil, validationError("school %d is inactive", schoolID)
	}
	return school, nil
}

func belongsTo(user *model.User, orgID int64) bool {
	return user.IsActive && user.OrganizationID != nil && *user.OrganizationID == orgID
}

func canInstruct(role model.Role) bool {
	switch role {
	case model.RoleInstructor, model.RoleSchoolAdmin, model.RoleOrgAdmin:
		return true
	}
	return false
}
