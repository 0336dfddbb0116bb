package store

import (
	"context"
	"time"

	"dojo.app/platform/core/db/queries"
	"dojo.app/platform/internal/model"
)

type organizationStore struct {
	queries *queries.Queries
}

func newOrganizationStore(q *queries.Queries) OrganizationStore {
	return &organizationStore{queries: q}
}

func (s *organizationStore) GetByID(ctx context.Context, id int64) (*model.Organization, error) {
	row, err := s.queries.GetOrganization(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return toOrganizationModel(row)
}

func (s *organizationStore) GetByIDForUpdate(ctx context.Context, id int64) (*model.Organization, error) {
	row, err := s.queries.GetOrganizationForUpdate(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return toOrganizationModel(row)
}

func (s *organizationStore) GetBySlug(ctx context.Context, slug string) (*model.Organization, error) {
	row, err := s.queries.GetOrganizationBySlug(ctx, slug)
	if err != nil {
		return nil, translate(err)
	}
	return toOrganizationModel(row)
}

func (s *organizationStore) Create(ctx context.Context, org *model.Organization) error {
	settings, err := encodeDocument(org.Settings)
	if err != nil {
		return err
	}

	row, err := s.queries.CreateOrganization(ctx, queries.CreateOrganizationParams{
		ID:                 org.ID,
		Name:               org.Name,
		Slug:               org.Slug,
		BusinessType:       org.BusinessType,
		Email:              org.Email,
		Phone:              org.Phone,
		Website:            org.Website,
		Address:            org.Address.Street,
		City:               org.Address.City,
		State:              org.Address.State,
		ZipCode:            org.Address.ZipCode,
		Country:            org.Address.Country,
		Subscription:       string(org.Subscription),
		SubscriptionStatus: string(org.SubscriptionStatus),
		TrialStartDate:     org.TrialStartDate,
		TrialEndDate:       org.TrialEndDate,
		SubscriptionExpiry: org.SubscriptionExpiry,
		Settings:           settings,
	})
	if err != nil {
		return translate(err)
	}
	return assignOrganization(org, row)
}

func (s *organizationStore) UpdateSubscription(ctx context.Context, org *model.Organization) error {
	settings, err := encodeDocument(org.Settings)
	if err != nil {
		return err
	}

	row, err := s.queries.UpdateOrganizationSubscription(ctx, queries.UpdateOrganizationSubscriptionParams{
		ID:                 org.ID,
		Subscription:       string(org.Subscription),
		SubscriptionStatus: string(org.SubscriptionStatus),
		TrialStartDate:     org.TrialStartDate,
		TrialEndDate:       org.TrialEndDate,
		SubscriptionExpiry: org.SubscriptionExpiry,
		Settings:           settings,
	})
	if err != nil {
		return translate(err)
	}
	return assignOrganization(org, row)
}

func (s *organizationStore) UpdateSettings(ctx context.Context, org *model.Organization) error {
	settings, err := encodeDocument(org.Settings)
	if err != nil {
		return err
	}

	row, err := s.queries.UpdateOrganizationSettings(ctx, org.ID, settings)
	if err != nil {
		return translate(err)
	}
	return assignOrganization(org, row)
}

func (s *organizationStore) ExpireTrials(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.queries.ExpireTrials(ctx, now)
	if err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func assignOrganization(dst *model.Organization, row queries.Organization) error {
	org, err := toOrganizationModel(row)
	if err != nil {
		return err
	}
	*dst = *org
	return nil
}

func toOrganizationModel(row queries.Organization) (*model.Organization, error) {
	org := &model.Organization{
		ID:           row.ID,
		Name:         row.Name,
		Slug:         row.Slug,
		BusinessType: row.BusinessType,
		Email:        row.Email,
		Phone:        row.Phone,
		Website:      row.Website,
		Address: model.Address{
			Street:  row.Address,
			City:    row.City,
			State:   row.State,
			ZipCode: row.ZipCode,
			Country: row.Country,
		},
		Subscription:       model.Tier(row.Subscription),
		SubscriptionStatus: model.SubscriptionStatus(row.SubscriptionStatus),
		TrialStartDate:     row.TrialStartDate,
		TrialEndDate:       row.TrialEndDate,
		SubscriptionExpiry: row.SubscriptionExpiry,
		IsActive:           row.IsActive,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
	if err := decodeDocument(row.Settings, &org.Settings); err != nil {
		return nil, err
	}
	return org, nil
}
