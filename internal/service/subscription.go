package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"dojo.app/platform/common/logger"
	"dojo.app/platform/internal/model"
	"dojo.app/platform/internal/store"
)

// SubscriptionService manages the trial window and tier conversions of an organization.
type SubscriptionService interface {
	CheckTrialStatus(ctx context.Context, orgID int64) (model.TrialStatus, error)
	ExtendTrial(ctx context.Context, orgID int64, days int) (*model.Organization, error)
	ConvertToSubscription(ctx context.Context, orgID int64, tier model.Tier) (*model.Organization, error)
	ExpireTrials(ctx context.Context, now time.Time) (int64, error)
}

type subscriptionService struct {
	orgs     store.OrganizationStore
	txRunner TxRunner
	now      func() time.Time
}

func NewSubscriptionService(orgs store.OrganizationStore, txRunner TxRunner, now func() time.Time) SubscriptionService {
	if now == nil {
		now = time.Now
	}
	return &subscriptionService{orgs: orgs, txRunner: txRunner, now: now}
}

func (s *subscriptionService) CheckTrialStatus(ctx context.Context, orgID int64) (model.TrialStatus, error) {
	org, err := s.orgs.GetByID(ctx, orgID)
	if errors.Is(err, store.ErrNotFound) {
		return model.ExpiredTrial, nil
	}
	if err != nil {
		return model.TrialStatus{}, fmt.Errorf("getting organization: %w", err)
	}
	return model.ComputeTrialStatus(org.TrialEndDate, s.now()), nil
}

func (s *subscriptionService) ExtendTrial(ctx context.Context, orgID int64, days int) (org *model.Organization, err error) {
	sc := logger.StartSpan(ctx, "subscription.extend_trial", trace.WithAttributes(
		logger.AttrOrganizationID.Int64(orgID),
		logger.AttrTrialDays.Int(days),
	))
	defer func() {
		sc.RecordError(err)
		sc.End()
	}()
	ctx = sc.Context()

	if days < model.MinTrialExtend || days > model.MaxTrialExtend {
		return nil, validationError("days must be between %d and %d", model.MinTrialExtend, model.MaxTrialExtend)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		OrganizationID: logger.Ptr(orgID),
		Component:      "dojo.service.subscription",
	})

	org, err = s.updateLocked(ctx, orgID, func(org *model.Organization) error {
		now := s.now()
		end := model.ExtendTrialEnd(org.TrialEndDate, now, days)
		org.TrialEndDate = &end
		org.SubscriptionExpiry = &end
		// The sweeper may already have expired the trial; a live window reopens it.
		if org.Subscription == model.TierTrial && end.After(now) {
			org.SubscriptionStatus = model.SubscriptionStatusActive
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "trial extended",
		"days", days,
		"trial_end_date", org.TrialEndDate,
		"subscription_status", org.SubscriptionStatus,
	)
	return org, nil
}

func (s *subscriptionService) ConvertToSubscription(ctx context.Context, orgID int64, tier model.Tier) (org *model.Organization, err error) {
	sc := logger.StartSpan(ctx, "subscription.convert", trace.WithAttributes(
		logger.AttrOrganizationID.Int64(orgID),
		logger.AttrSubscription.String(string(tier)),
	))
	defer func() {
		sc.RecordError(err)
		sc.End()
	}()
	ctx = sc.Context()

	if !tier.IsConvertible() {
		return nil, validationError("invalid subscription type %q", tier)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		OrganizationID: logger.Ptr(orgID),
		Component:      "dojo.service.subscription",
	})

	var from model.Tier
	org, err = s.updateLocked(ctx, orgID, func(org *model.Organization) error {
		from = org.Subscription
		if !model.CanTransition(from, tier) {
			return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, tier)
		}
		expiry := model.SubscriptionExpiry(tier, s.now())
		org.Subscription = tier
		org.SubscriptionStatus = model.SubscriptionStatusActive
		org.SubscriptionExpiry = &expiry
		org.Settings = org.Settings.ApplyTier(tier)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "subscription converted",
		"from", from,
		"to", tier,
		"subscription_expiry", org.SubscriptionExpiry,
	)
	return org, nil
}

func (s *subscriptionService) ExpireTrials(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.orgs.ExpireTrials(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("expiring trials: %w", err)
	}
	return n, nil
}

// updateLocked reads the organization under a row lock, applies mutate and
// persists the result in the same transaction.
func (s *subscriptionService) updateLocked(ctx context.Context, orgID int64, mutate func(*model.Organization) error) (*model.Organization, error) {
	var updated *model.Organization
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		org, err := stores.Organizations().GetByIDForUpdate(ctx, orgID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("locking organization: %w", err)
		}

		if err := mutate(org); err != nil {
			return err
		}

		if err := stores.Organizations().UpdateSubscription(ctx, org); err != nil {
			return fmt.Errorf("updating subscription: %w", err)
		}
		updated = org
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
