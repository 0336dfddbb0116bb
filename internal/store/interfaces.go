package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dojo.app/platform/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a write violates a unique constraint
var ErrDuplicate = errors.New("duplicate")

// Unique constraint names, as declared in the migrations.
const (
	ConstraintOrganizationSlug = "organizations_slug_key"
	ConstraintSchoolSlug       = "schools_organization_slug_key"
	ConstraintUserEmail        = "users_email_key"
	ConstraintStudentUser      = "students_user_id_key"
	ConstraintStudentCode      = "students_student_code_key"
)

// DuplicateError names the unique constraint a write violated. It matches
// ErrDuplicate under errors.Is.
type DuplicateError struct {
	Constraint string
	Err        error
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate: %s: %v", e.Constraint, e.Err)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

func (e *DuplicateError) Unwrap() error {
	return e.Err
}

// DuplicateConstraint returns the violated constraint name, or "" when err is
// not a duplicate.
func DuplicateConstraint(err error) string {
	var dup *DuplicateError
	if errors.As(err, &dup) {
		return dup.Constraint
	}
	return ""
}

// OrganizationStore defines the contract for organization data access
type OrganizationStore interface {
	GetByID(ctx context.Context, id int64) (*model.Organization, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Organization, error) // row lock, tx only
	GetBySlug(ctx context.Context, slug string) (*model.Organization, error)
	Create(ctx context.Context, org *model.Organization) error
	UpdateSubscription(ctx context.Context, org *model.Organization) error
	UpdateSettings(ctx context.Context, org *model.Organization) error
	ExpireTrials(ctx context.Context, now time.Time) (int64, error)
}

// SchoolStore defines the contract for school data access, always scoped to an organization
type SchoolStore interface {
	GetByID(ctx context.Context, orgID, id int64) (*model.School, error)
	GetByOrgAndSlug(ctx context.Context, orgID int64, slug string) (*model.School, error)
	GetByOrgAndName(ctx context.Context, orgID int64, name string, excludeID int64) (*model.School, error)
	CountByOrganization(ctx context.Context, orgID int64) (int64, error)
	List(ctx context.Context, orgID int64, filter model.SchoolFilter) ([]model.School, error)
	Create(ctx context.Context, school *model.School) error
	Update(ctx context.Context, school *model.School) error
	Delete(ctx context.Context, orgID, id int64) error
}

// UserStore defines the contract for user data access
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	CountBySchoolAndRole(ctx context.Context, schoolID int64, role model.Role) (int64, error)
}

// StudentStore defines the contract for student enrollment profiles
type StudentStore interface {
	GetByID(ctx context.Context, orgID, id int64) (*model.Student, error)
	GetByUser(ctx context.Context, userID int64) (*model.Student, error)
	ListBySchool(ctx context.Context, orgID, schoolID int64) ([]model.Student, error)
	CountActiveByOrganization(ctx context.Context, orgID int64) (int64, error)
	CountBySchool(ctx context.Context, schoolID int64) (int64, error)
	Create(ctx context.Context, student *model.Student) error
	UpdateAttendance(ctx context.Context, id int64, summary model.AttendanceSummary) error
}

// ClassStore defines the contract for scheduled classes
type ClassStore interface {
	GetByID(ctx context.Context, orgID, id int64) (*model.Class, error)
	ListBySchool(ctx context.Context, orgID, schoolID int64) ([]model.Class, error)
	Create(ctx context.Context, class *model.Class) error
}

// AttendanceStore defines the contract for per-session attendance marks
type AttendanceStore interface {
	Upsert(ctx context.Context, record *model.Attendance) error
	ListByClassAndDate(ctx context.Context, orgID, classID int64, date time.Time) ([]model.Attendance, error)
	SummarizeStudent(ctx context.Context, studentID int64) (model.AttendanceSummary, error)
}
