package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"dojo.app/platform/common/id"
	"dojo.app/platform/common/logger"
	"dojo.app/platform/internal/model"
	"dojo.app/platform/internal/store"
)

const defaultSchoolCountry = "USA"

type SchoolService interface {
	List(ctx context.Context, orgID int64, filter model.SchoolFilter) ([]model.School, error)
	Get(ctx context.Context, orgID, schoolID int64) (*model.School, error)
	Create(ctx context.Context, orgID int64, input model.SchoolInput) (*model.School, error)
	Update(ctx context.Context, orgID, schoolID int64, patch model.SchoolPatch) (*model.School, error)
	Delete(ctx context.Context, orgID, schoolID int64) error
	Stats(ctx context.Context, orgID, schoolID int64) (*model.SchoolStats, error)
}

type schoolService struct {
	schools  store.SchoolStore
	users    store.UserStore
	txRunner TxRunner
}

func NewSchoolService(schools store.SchoolStore, users store.UserStore, txRunner TxRunner) SchoolService {
	return &schoolService{schools: schools, users: users, txRunner: txRunner}
}

func (s *schoolService) List(ctx context.Context, orgID int64, filter model.SchoolFilter) ([]model.School, error) {
	schools, err := s.schools.List(ctx, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("listing schools: %w", err)
	}
	return schools, nil
}

func (s *schoolService) Get(ctx context.Context, orgID, schoolID int64) (*model.School, error) {
	school, err := s.schools.GetByID(ctx, orgID, schoolID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting school: %w", err)
	}

	students, err := s.users.CountBySchoolAndRole(ctx, school.ID, model.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("counting students: %w", err)
	}
	school.CurrentStudents = students
	return school, nil
}

// Create enforces the organization's school quota, then name and slug
// uniqueness, all under the organization row lock.
func (s *schoolService) Create(ctx context.Context, orgID int64, input model.SchoolInput) (*model.School, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		OrganizationID: logger.Ptr(orgID),
		Component:      "dojo.service.school",
	})

	if len(input.MartialArts) == 0 {
		return nil, validationError("at least one martial art is required")
	}
	if input.MaxStudents < 1 {
		return nil, validationError("maximum students must be at least 1")
	}

	addr := input.Address
	if addr.Country == "" {
		addr.Country = defaultSchoolCountry
	}
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	maxStudents := input.MaxStudents

	school := &model.School{
		ID:             id.New(),
		OrganizationID: orgID,
		Name:           input.Name,
		Address:        addr,
		Phone:          input.Phone,
		Email:          input.Email,
		Website:        input.Website,
		Description:    input.Description,
		MaxStudents:    &maxStudents,
		Settings: model.SchoolSettings{
			MartialArtTypes:    input.MartialArts,
			ClassCapacity:      model.DefaultClassCapacity,
			AllowOnlineBooking: true,
		},
		IsActive: isActive,
	}

	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		org, err := stores.Organizations().GetByIDForUpdate(ctx, orgID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("locking organization: %w", err)
		}

		count, err := stores.Schools().CountByOrganization(ctx, orgID)
		if err != nil {
			return fmt.Errorf("counting schools: %w", err)
		}
		if !org.Settings.AllowsSchools(count) {
			return fmt.Errorf("%w: %d of %d", ErrSchoolQuotaExceeded, count, org.Settings.AllowedSchools)
		}

		if err := ensureSchoolNameFree(ctx, stores.Schools(), orgID, input.Name, 0); err != nil {
			return err
		}

		slug, err := NewSlugGenerator(stores.Organizations(), stores.Schools()).SchoolSlug(ctx, orgID, input.Name)
		if err != nil {
			return err
		}
		school.Slug = slug

		if err := stores.Schools().Create(ctx, school); err != nil {
			return fmt.Errorf("creating school: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "school created", "school_id", school.ID, "slug", school.Slug)
	return school, nil
}

func (s *schoolService) Update(ctx context.Context, orgID, schoolID int64, patch model.SchoolPatch) (*model.School, error) {
	if patch.MartialArts != nil && len(patch.MartialArts) == 0 {
		return nil, validationError("at least one martial art is required")
	}
	if patch.MaxStudents != nil && *patch.MaxStudents < 1 {
		return nil, validationError("maximum students must be at least 1")
	}

	var updated *model.School
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		school, err := stores.Schools().GetByID(ctx, orgID, schoolID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("getting school: %w", err)
		}

		if patch.Name != nil && *patch.Name != school.Name {
			if err := ensureSchoolNameFree(ctx, stores.Schools(), orgID, *patch.Name, school.ID); err != nil {
				return err
			}
		}

		patch.Apply(school)
		if err := stores.Schools().Update(ctx, school); err != nil {
			return fmt.Errorf("updating school: %w", err)
		}

		students, err := stores.Users().CountBySchoolAndRole(ctx, school.ID, model.RoleStudent)
		if err != nil {
			return fmt.Errorf("counting students: %w", err)
		}
		school.CurrentStudents = students
		updated = school
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *schoolService) Delete(ctx context.Context, orgID, schoolID int64) error {
	return s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		school, err := stores.Schools().GetByID(ctx, orgID, schoolID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("getting school: %w", err)
		}

		students, err := stores.Users().CountBySchoolAndRole(ctx, school.ID, model.RoleStudent)
		if err != nil {
			return fmt.Errorf("counting students: %w", err)
		}
		if students > 0 {
			return ErrSchoolHasStudents
		}
		// Inactive and graduated profiles still reference the school.
		profiles, err := stores.Students().CountBySchool(ctx, school.ID)
		if err != nil {
			return fmt.Errorf("counting student profiles: %w", err)
		}
		if profiles > 0 {
			return ErrSchoolHasStudents
		}

		if err := stores.Schools().Delete(ctx, orgID, schoolID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("deleting school: %w", err)
		}
		return nil
	})
}

func (s *schoolService) Stats(ctx context.Context, orgID, schoolID int64) (*model.SchoolStats, error) {
	school, err := s.schools.GetByID(ctx, orgID, schoolID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting school: %w", err)
	}

	students, err := s.users.CountBySchoolAndRole(ctx, school.ID, model.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("counting students: %w", err)
	}
	instructors, err := s.users.CountBySchoolAndRole(ctx, school.ID, model.RoleInstructor)
	if err != nil {
		return nil, fmt.Errorf("counting instructors: %w", err)
	}

	maxStudents := 0
	if school.MaxStudents != nil {
		maxStudents = *school.MaxStudents
	}
	utilization := 0
	if maxStudents > 0 {
		utilization = int(math.Round(float64(students) / float64(maxStudents) * 100))
	}

	martialArts := school.Settings.MartialArtTypes
	if martialArts == nil {
		martialArts = []string{}
	}

	return &model.SchoolStats{
		SchoolID:        school.ID,
		SchoolName:      school.Name,
		StudentCount:    students,
		InstructorCount: instructors,
		MaxStudents:     maxStudents,
		Utilization:     utilization,
		MartialArts:     martialArts,
		IsActive:        school.IsActive,
	}, nil
}

func ensureSchoolNameFree(ctx context.Context, schools store.SchoolStore, orgID int64, name string, excludeID int64) error {
	_, err := schools.GetByOrgAndName(ctx, orgID, name, excludeID)
	if err == nil {
		return ErrSchoolNameTaken
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("checking school name: %w", err)
}
