package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dojo.app/platform/internal/model"
	"dojo.app/platform/internal/store"
)

// WelcomeTask is the payload the worker receives after a registration.
type WelcomeTask struct {
	OrganizationID int64
	SchoolID       int64
	UserID         int64
	Email          string
}

// OnboardingService runs the post-registration work that does not belong in
// the registration transaction.
type OnboardingService interface {
	Welcome(ctx context.Context, task WelcomeTask) error
}

type onboardingService struct {
	txRunner TxRunner
	now      func() time.Time
}

func NewOnboardingService(txRunner TxRunner, now func() time.Time) OnboardingService {
	if now == nil {
		now = time.Now
	}
	return &onboardingService{txRunner: txRunner, now: now}
}

// Welcome stamps onboarding_started_at once. Redelivered tasks are no-ops.
func (s *onboardingService) Welcome(ctx context.Context, task WelcomeTask) error {
	var (
		user    *model.User
		started bool
	)

	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		org, err := stores.Organizations().GetByIDForUpdate(ctx, task.OrganizationID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("locking organization: %w", err)
		}

		user, err = stores.Users().GetByID(ctx, task.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("getting user: %w", err)
		}

		if org.Settings.OnboardingStartedAt != nil {
			return nil
		}

		now := s.now()
		org.Settings.OnboardingStartedAt = &now
		if err := stores.Organizations().UpdateSettings(ctx, org); err != nil {
			return fmt.Errorf("updating settings: %w", err)
		}
		started = true
		return nil
	})
	if err != nil {
		return err
	}

	if !started {
		slog.DebugContext(ctx, "onboarding already started, skipping")
		return nil
	}

	slog.InfoContext(ctx, "welcome sent",
		"recipient", user.FullName(),
		"school_id", task.SchoolID,
	)
	return nil
}
