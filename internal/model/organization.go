package model

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

type Organization struct {
	ID                 int64                `json:"id"`
	Name               string               `json:"name"`
	Slug               string               `json:"slug"`
	BusinessType       string               `json:"business_type"`
	Email              string               `json:"email"`
	Phone              string               `json:"phone"`
	Website            *string              `json:"website,omitempty"`
	Address            Address              `json:"address"`
	Subscription       Tier                 `json:"subscription"`
	SubscriptionStatus SubscriptionStatus   `json:"subscription_status"`
	TrialStartDate     *time.Time           `json:"trial_start_date,omitempty"`
	TrialEndDate       *time.Time           `json:"trial_end_date,omitempty"`
	SubscriptionExpiry *time.Time           `json:"subscription_expiry,omitempty"`
	Settings           OrganizationSettings `json:"settings"`
	IsActive           bool                 `json:"is_active"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

// OrganizationSettings is persisted as a JSON document. Quotas of -1 mean unlimited.
type OrganizationSettings struct {
	AllowedSchools      int        `json:"allowedSchools"`
	AllowedStudents     int        `json:"allowedStudents"`
	Features            FeatureSet `json:"features"`
	TrialFeatures       bool       `json:"trialFeatures"`
	OnboardingStartedAt *time.Time `json:"onboardingStartedAt,omitempty"`
}

// FeatureSet always carries every feature key; there are no partial maps.
type FeatureSet struct {
	Attendance        bool `json:"attendance"`
	Reporting         bool `json:"reporting"`
	Messaging         bool `json:"messaging"`
	Payments          bool `json:"payments"`
	AdvancedAnalytics bool `json:"advancedAnalytics"`
	CustomBranding    bool `json:"customBranding"`
}

// Unlimited is the quota sentinel used by the enterprise tier.
const Unlimited = -1

// AllowsSchools reports whether an organization with current schools may add one more.
func (s OrganizationSettings) AllowsSchools(current int64) bool {
	if s.AllowedSchools == Unlimited {
		return true
	}
	return current < int64(s.AllowedSchools)
}
