package model

import (
	"math"
	"slices"
	"time"
)

type Tier string

const (
	TierTrial      Tier = "trial"
	TierFree       Tier = "free"
	TierBasic      Tier = "basic"
	TierPremium    Tier = "premium"
	TierEnterprise Tier = "enterprise"
)

const (
	TrialDays       = 30
	MinTrialExtend  = 1
	MaxTrialExtend  = 90
	day             = 24 * time.Hour
	paidTermYears   = 1
	defaultSchools  = 1
	defaultStudents = 100
)

// PaidTiers lists the tiers an organization can convert to.
var PaidTiers = []Tier{TierFree, TierBasic, TierPremium, TierEnterprise}

func (t Tier) IsConvertible() bool {
	return slices.Contains(PaidTiers, t)
}

// TierPolicy is the fixed quota and feature grant of a tier.
type TierPolicy struct {
	AllowedSchools  int
	AllowedStudents int
	Features        FeatureSet
}

// TierPolicies is applied wholesale on conversion; prior custom settings are discarded.
var TierPolicies = map[Tier]TierPolicy{
	TierFree: {
		AllowedSchools:  1,
		AllowedStudents: 50,
		Features:        FeatureSet{Attendance: true},
	},
	TierBasic: {
		AllowedSchools:  3,
		AllowedStudents: 200,
		Features:        FeatureSet{Attendance: true, Reporting: true, Messaging: true},
	},
	TierPremium: {
		AllowedSchools:  10,
		AllowedStudents: 1000,
		Features: FeatureSet{
			Attendance: true, Reporting: true, Messaging: true, Payments: true, AdvancedAnalytics: true,
		},
	},
	TierEnterprise: {
		AllowedSchools:  Unlimited,
		AllowedStudents: Unlimited,
		Features: FeatureSet{
			Attendance: true, Reporting: true, Messaging: true, Payments: true, AdvancedAnalytics: true,
			CustomBranding: true,
		},
	},
}

// TrialFeatures grants everything except payments.
var TrialFeatures = FeatureSet{
	Attendance:        true,
	Reporting:         true,
	Messaging:         true,
	Payments:          false,
	AdvancedAnalytics: true,
	CustomBranding:    true,
}

// NewTrialSettings seeds settings from the registration estimates.
func NewTrialSettings(numberOfSchools, estimatedStudents int) OrganizationSettings {
	schools := numberOfSchools
	if schools <= 0 {
		schools = defaultSchools
	}
	students := estimatedStudents
	if students <= 0 {
		students = defaultStudents
	}
	return OrganizationSettings{
		AllowedSchools:  schools,
		AllowedStudents: students,
		Features:        TrialFeatures,
		TrialFeatures:   true,
	}
}

// ApplyTier overwrites quotas and features with the tier policy.
func (s OrganizationSettings) ApplyTier(tier Tier) OrganizationSettings {
	policy := TierPolicies[tier]
	s.AllowedSchools = policy.AllowedSchools
	s.AllowedStudents = policy.AllowedStudents
	s.Features = policy.Features
	s.TrialFeatures = false
	return s
}

// SubscriptionExpiry is now for free and one year out for paid tiers.
func SubscriptionExpiry(tier Tier, now time.Time) time.Time {
	if tier == TierFree {
		return now
	}
	return now.AddDate(paidTermYears, 0, 0)
}

type tierTransition struct {
	From Tier
	To   Tier
}

var validTierTransitions = func() map[tierTransition]bool {
	m := make(map[tierTransition]bool)
	for _, to := range PaidTiers {
		m[tierTransition{TierTrial, to}] = true
		for _, from := range PaidTiers {
			m[tierTransition{from, to}] = true
		}
	}
	return m
}()

// CanTransition reports whether an organization on from may convert to to.
// Nothing converts back to trial.
func CanTransition(from, to Tier) bool {
	return validTierTransitions[tierTransition{from, to}]
}

// TrialWindow returns the end of a trial starting at start.
func TrialWindow(start time.Time) time.Time {
	return start.AddDate(0, 0, TrialDays)
}

// ExtendTrialEnd adds calendar days to the current end, or to now when unset.
func ExtendTrialEnd(current *time.Time, now time.Time, days int) time.Time {
	base := now
	if current != nil {
		base = *current
	}
	return base.AddDate(0, 0, days)
}

type TrialStatus struct {
	IsExpired     bool       `json:"isExpired"`
	DaysRemaining int        `json:"daysRemaining"`
	TrialEndDate  *time.Time `json:"trialEndDate"`
}

// ExpiredTrial is reported for missing organizations or ones without a trial window.
var ExpiredTrial = TrialStatus{IsExpired: true}

// ComputeTrialStatus rounds partial days up and clamps at zero.
func ComputeTrialStatus(end *time.Time, now time.Time) TrialStatus {
	if end == nil {
		return ExpiredTrial
	}
	remaining := int(math.Ceil(float64(end.Sub(now)) / float64(day)))
	if remaining < 0 {
		remaining = 0
	}
	endCopy := *end
	return TrialStatus{
		IsExpired:     remaining <= 0,
		DaysRemaining: remaining,
		TrialEndDate:  &endCopy,
	}
}
