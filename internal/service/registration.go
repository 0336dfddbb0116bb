package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dojo.app/platform/common/id"
	"dojo.app/platform/common/logger"
	"dojo.app/platform/internal/auth"
	"dojo.app/platform/internal/model"
	"dojo.app/platform/internal/store"
)

// WelcomeHook is notified after a registration commits. Failures are logged only.
type WelcomeHook interface {
	OnRegistered(ctx context.Context, result *model.RegistrationResult) error
}

type RegistrationService interface {
	RegisterDojo(ctx context.Context, input model.RegistrationInput) (*model.RegistrationResult, error)
	IsEmailAvailable(ctx context.Context, email string) (bool, error)
}

type registrationService struct {
	orgs     store.OrganizationStore
	users    store.UserStore
	txRunner TxRunner
	hasher   auth.PasswordHasher
	hook     WelcomeHook
	now      func() time.Time
}

func NewRegistrationService(
	orgs store.OrganizationStore,
	users store.UserStore,
	txRunner TxRunner,
	hasher auth.PasswordHasher,
	hook WelcomeHook,
	now func() time.Time,
) RegistrationService {
	if now == nil {
		now = time.Now
	}
	return &registrationService{
		orgs:     orgs,
		users:    users,
		txRunner: txRunner,
		hasher:   hasher,
		hook:     hook,
		now:      now,
	}
}

func (s *registrationService) RegisterDojo(ctx context.Context, input model.RegistrationInput) (*model.RegistrationResult, error) {
	sc := logger.StartSpan(ctx, "registration.register_dojo")
	defer sc.End()

	result, err := s.registerDojo(sc.Context(), input)
	if err != nil {
		sc.RecordError(err)
		return nil, err
	}
	sc.SetAttributes(
		logger.AttrOrganizationID.Int64(result.Organization.ID),
		logger.AttrOrganizationSlug.String(result.Organization.Slug),
		logger.AttrSchoolID.Int64(result.School.ID),
		logger.AttrSchoolSlug.String(result.School.Slug),
		logger.AttrTrialDays.Int(result.TrialDays),
	)
	return result, nil
}

func (s *registrationService) registerDojo(ctx context.Context, input model.RegistrationInput) (*model.RegistrationResult, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "dojo.service.registration"})

	input.Email = normalizeEmail(input.Email)
	if err := validateRegistration(input); err != nil {
		return nil, &RegistrationError{Op: "validate", Err: err}
	}

	orgSlug, err := NewSlugGenerator(s.orgs, nil).OrganizationSlug(ctx, input.OrganizationName)
	if err != nil {
		return nil, registrationFailure("organization slug", err)
	}

	trialStart := s.now()
	trialEnd := model.TrialWindow(trialStart)

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, &RegistrationError{Op: "hash password", Err: err}
	}

	org := &model.Organization{
		ID:                 id.New(),
		Name:               input.OrganizationName,
		Slug:               orgSlug,
		BusinessType:       input.BusinessType,
		Email:              input.Email,
		Phone:              input.Phone,
		Website:            input.Website,
		Address:            input.Address,
		Subscription:       model.TierTrial,
		SubscriptionStatus: model.SubscriptionStatusActive,
		TrialStartDate:     &trialStart,
		TrialEndDate:       &trialEnd,
		SubscriptionExpiry: &trialEnd,
		Settings:           model.NewTrialSettings(input.NumberOfSchools, input.EstimatedStudents),
		IsActive:           true,
	}

	school := &model.School{
		ID:             id.New(),
		OrganizationID: org.ID,
		Name:           input.SchoolName(),
		Address:        input.SchoolAddress(),
		Phone:          input.Phone,
		Email:          input.Email,
		Website:        input.Website,
		Settings: model.SchoolSettings{
			MartialArtTypes:    input.MartialArtTypes,
			ClassCapacity:      model.DefaultClassCapacity,
			AllowOnlineBooking: true,
		},
		IsActive: true,
	}

	lastLogin := trialStart
	phone := input.Phone
	user := &model.User{
		ID:             id.New(),
		OrganizationID: &org.ID,
		SchoolID:       &school.ID,
		Email:          input.Email,
		PasswordHash:   passwordHash,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Phone:          &phone,
		Role:           model.RoleOrgAdmin,
		IsActive:       true,
		EmailVerified:  false,
		LastLogin:      &lastLogin,
	}

	op := "begin"
	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		op = "create organization"
		if err := stores.Organizations().Create(ctx, org); err != nil {
			return err
		}

		op = "school slug"
		schoolSlug, err := NewSlugGenerator(stores.Organizations(), stores.Schools()).SchoolSlug(ctx, org.ID, school.Name)
		if err != nil {
			return err
		}
		school.Slug = schoolSlug

		op = "create school"
		if err := stores.Schools().Create(ctx, school); err != nil {
			return err
		}

		op = "create user"
		return stores.Users().Create(ctx, user)
	})
	if err != nil {
		slog.ErrorContext(ctx, "registration rolled back",
			"error", err,
			"step", op,
			"email", logger.MaskEmail(input.Email),
		)
		return nil, registrationFailure(op, err)
	}

	result := &model.RegistrationResult{
		Organization: org,
		School:       school,
		User:         user,
		TrialDays:    model.TrialDays,
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		OrganizationID: logger.Ptr(org.ID),
		SchoolID:       logger.Ptr(school.ID),
		UserID:         logger.Ptr(user.ID),
	})
	slog.InfoContext(ctx, "dojo registered",
		"slug", org.Slug,
		"school_slug", school.Slug,
		"trial_end_date", trialEnd,
	)

	s.notifyRegistered(ctx, result)

	return result, nil
}

func (s *registrationService) notifyRegistered(ctx context.Context, result *model.RegistrationResult) {
	if s.hook == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.WarnContext(ctx, "welcome hook panicked", "panic", r)
		}
	}()
	if err := s.hook.OnRegistered(ctx, result); err != nil {
		slog.WarnContext(ctx, "welcome hook failed", "error", err)
	}
}

func (s *registrationService) IsEmailAvailable(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, validationError("email is required")
	}

	_, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking email availability: %w", err)
	}
	return false, nil
}

func validateRegistration(in model.RegistrationInput) error {
	required := []struct {
		field string
		value string
	}{
		{"organizationName", in.OrganizationName},
		{"email", in.Email},
		{"password", in.Password},
		{"firstName", in.FirstName},
		{"lastName", in.LastName},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return validationError("%s is required", r.field)
		}
	}

	for _, art := range in.MartialArtTypes {
		if strings.TrimSpace(art) != "" {
			return nil
		}
	}
	return validationError("at least one martial art type is required")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
