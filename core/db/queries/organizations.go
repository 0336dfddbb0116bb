package queries

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

type Organization struct {
	ID                 int64
	Name               string
	Slug               string
	BusinessType       string
	Email              string
	Phone              string
	Website            *string
	Address            string
	City               string
	State              string
	ZipCode            string
	Country            string
	Subscription       string
	SubscriptionStatus string
	TrialStartDate     *time.Time
	TrialEndDate       *time.Time
	SubscriptionExpiry *time.Time
	Settings           []byte
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

const organizationColumns = `id, name, slug, business_type, email, phone, website, address, city, state, zip_code, country,
	subscription, subscription_status, trial_start_date, trial_end_date, subscription_expiry, settings, is_active,
	created_at, updated_at`

func scanOrganization(row pgx.Row) (Organization, error) {
	var o Organization
	err := row.Scan(
		&o.ID, &o.Name, &o.Slug, &o.BusinessType, &o.Email, &o.Phone, &o.Website,
		&o.Address, &o.City, &o.State, &o.ZipCode, &o.Country,
		&o.Subscription, &o.SubscriptionStatus, &o.TrialStartDate, &o.TrialEndDate, &o.SubscriptionExpiry,
		&o.Settings, &o.IsActive, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

type CreateOrganizationParams struct {
	ID                 int64
	Name               string
	Slug               string
	BusinessType       string
	Email              string
	Phone              string
	Website            *string
	Address            string
	City               string
	State              string
	ZipCode            string
	Country            string
	Subscription       string
	SubscriptionStatus string
	TrialStartDate     *time.Time
	TrialEndDate       *time.Time
	SubscriptionExpiry *time.Time
	Settings           []byte
}

const createOrganization = `INSERT INTO organizations (
	id, name, slug, business_type, email, phone, website, address, city, state, zip_code, country,
	subscription, subscription_status, trial_start_date, trial_end_date, subscription_expiry, settings
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
RETURNING ` + organizationColumns

func (q *Queries) CreateOrganization(ctx context.Context, arg CreateOrganizationParams) (Organization, error) {
	return scanOrganization(q.db.QueryRow(ctx, createOrganization,
		arg.ID, arg.Name, arg.Slug, arg.BusinessType, arg.Email, arg.Phone, arg.Website,
		arg.Address, arg.City, arg.State, arg.ZipCode, arg.Country,
		arg.Subscription, arg.SubscriptionStatus, arg.TrialStartDate, arg.TrialEndDate, arg.SubscriptionExpiry,
		arg.Settings,
	))
}

const getOrganization = `SELECT ` + organizationColumns + ` FROM organizations WHERE id = $1`

func (q *Queries) GetOrganization(ctx context.Context, id int64) (Organization, error) {
	return scanOrganization(q.db.QueryRow(ctx, getOrganization, id))
}

const getOrganizationForUpdate = getOrganization + ` FOR UPDATE`

// GetOrganizationForUpdate locks the row until the surrounding transaction ends.
func (q *Queries) GetOrganizationForUpdate(ctx context.Context, id int64) (Organization, error) {
	return scanOrganization(q.db.QueryRow(ctx, getOrganizationForUpdate, id))
}

const getOrganizationBySlug = `SELECT ` + organizationColumns + ` FROM organizations WHERE slug = $1`

func (q *Queries) GetOrganizationBySlug(ctx context.Context, slug string) (Organization, error) {
	return scanOrganization(q.db.QueryRow(ctx, getOrganizationBySlug, slug))
}

type UpdateOrganizationSubscriptionParams struct {
	ID                 int64
	Subscription       string
	SubscriptionStatus string
	TrialStartDate     *time.Time
	TrialEndDate       *time.Time
	SubscriptionExpiry *time.Time
	Settings           []byte
}

const updateOrganizationSubscription = `UPDATE organizations SET
	subscription = $2,
	subscription_status = $3,
	trial_start_date = $4,
	trial_end_date = $5,
	subscription_expiry = $6,
	settings = $7,
	updated_at = now()
WHERE id = $1
RETURNING ` + organizationColumns

func (q *Queries) UpdateOrganizationSubscription(ctx context.Context, arg UpdateOrganizationSubscriptionParams) (Organization, error) {
	return scanOrganization(q.db.QueryRow(ctx, updateOrganizationSubscription,
		arg.ID, arg.Subscription, arg.SubscriptionStatus,
		arg.TrialStartDate, arg.TrialEndDate, arg.SubscriptionExpiry, arg.Settings,
	))
}

const updateOrganizationSettings = `UPDATE organizations SET settings = $2, updated_at = now()
WHERE id = $1
RETURNING ` + organizationColumns

func (q *Queries) UpdateOrganizationSettings(ctx context.Context, id int64, settings []byte) (Organization, error) {
	return scanOrganization(q.db.QueryRow(ctx, updateOrganizationSettings, id, settings))
}

const expireTrials = `UPDATE organizations SET subscription_status = 'expired', updated_at = now()
WHERE subscription = 'trial'
  AND subscription_status = 'active'
  AND trial_end_date IS NOT NULL
  AND trial_end_date <= $1`

// ExpireTrials returns the number of organizations moved to expired.
func (q *Queries) ExpireTrials(ctx context.Context, now time.Time) (int64, error) {
	tag, err := q.db.Exec(ctx, expireTrials, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
