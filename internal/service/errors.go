package service

import (
	"errors"
	"fmt"

	"dojo.app/platform/internal/store"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrSlugExhausted       = errors.New("no available slug")
	ErrDuplicateConstraint = store.ErrDuplicate
	ErrPersistence         = errors.New("persistence failure")
	ErrNotFound            = store.ErrNotFound
	ErrInvalidTransition   = errors.New("invalid subscription transition")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountInactive     = errors.New("account is deactivated")
	ErrSchoolNameTaken     = errors.New("a school with this name already exists in your organization")
	ErrSchoolHasStudents   = errors.New("cannot delete school with active students")
	ErrSchoolQuotaExceeded = errors.New("school limit reached for current subscription")

	ErrStudentQuotaExceeded = errors.New("student limit reached for current subscription")
	ErrAlreadyEnrolled      = errors.New("user already has a student profile")
	ErrSubscriptionInactive = errors.New("organization subscription is not active")
	ErrFeatureDisabled      = errors.New("feature not included in current subscription")
)

// RegistrationError reports which registration step failed. Err wraps one of
// ErrValidation, ErrSlugExhausted, ErrDuplicateConstraint or ErrPersistence,
// or the raw cause for password hashing failures.
type RegistrationError struct {
	Op  string
	Err error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registration %s: %v", e.Op, e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// IsEmailTaken reports whether err is a unique violation on the user email.
// Other duplicates are slug races that a retry resolves.
func IsEmailTaken(err error) bool {
	return store.DuplicateConstraint(err) == store.ConstraintUserEmail
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// registrationFailure classifies err for op. Known kinds pass through;
// anything else from the store is a persistence failure.
func registrationFailure(op string, err error) *RegistrationError {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrSlugExhausted),
		errors.Is(err, ErrDuplicateConstraint),
		errors.Is(err, ErrPersistence):
		return &RegistrationError{Op: op, Err: err}
	default:
		return &RegistrationError{Op: op, Err: fmt.Errorf("%w: %w", ErrPersistence, err)}
	}
}
