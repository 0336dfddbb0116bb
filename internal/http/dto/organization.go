package dto

import (
	"time"

	"dojo.app/platform/internal/model"
)

type AddressResponse struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

func toAddressResponse(a model.Address) AddressResponse {
	return AddressResponse{Street: a.Street, City: a.City, State: a.State, ZipCode: a.ZipCode, Country: a.Country}
}

type OrganizationResponse struct {
	ID                 int64                      `json:"id,string"`
	Name               string                     `json:"name"`
	Slug               string                     `json:"slug"`
	BusinessType       string                     `json:"businessType"`
	Email              string                     `json:"email"`
	Phone              string                     `json:"phone"`
	Website            *string                    `json:"website,omitempty"`
	Address            AddressResponse            `json:"address"`
	Subscription       model.Tier                 `json:"subscription"`
	SubscriptionStatus model.SubscriptionStatus   `json:"subscriptionStatus"`
	TrialStartDate     *time.Time                 `json:"trialStartDate,omitempty"`
	TrialEndDate       *time.Time                 `json:"trialEndDate,omitempty"`
	SubscriptionExpiry *time.Time                 `json:"subscriptionExpiry,omitempty"`
	Settings           model.OrganizationSettings `json:"settings"`
	IsActive           bool                       `json:"isActive"`
	CreatedAt          time.Time                  `json:"createdAt"`
}

func ToOrganizationResponse(org *model.Organization) *OrganizationResponse {
	if org == nil {
		return nil
	}
	return &OrganizationResponse{
		ID:                 org.ID,
		Name:               org.Name,
		Slug:               org.Slug,
		BusinessType:       org.BusinessType,
		Email:              org.Email,
		Phone:              org.Phone,
		Website:            org.Website,
		Address:            toAddressResponse(org.Address),
		Subscription:       org.Subscription,
		SubscriptionStatus: org.SubscriptionStatus,
		TrialStartDate:     org.TrialStartDate,
		TrialEndDate:       org.TrialEndDate,
		SubscriptionExpiry: org.SubscriptionExpiry,
		Settings:           org.Settings,
		IsActive:           org.IsActive,
		CreatedAt:          org.CreatedAt,
	}
}
