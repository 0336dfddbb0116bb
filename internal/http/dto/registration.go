package dto

import (
	"time"

	"dojo.app/platform/internal/model"
)

// RegisterRequest is the public sign-up form. Its JSON schema is served to clients.
type RegisterRequest struct {
	OrganizationName   Text    `json:"organizationName" binding:"required,min=2,max=100" jsonschema:"minLength=2,maxLength=100"`
	BusinessType       Text    `json:"businessType" binding:"required" jsonschema:"minLength=1"`
	MartialArtTypes    []Text  `json:"martialArtTypes" binding:"required,min=1,dive,required" jsonschema:"minItems=1"`
	NumberOfSchools    int     `json:"numberOfSchools" binding:"required,min=1,max=100" jsonschema:"minimum=1,maximum=100"`
	EstimatedStudents  int     `json:"estimatedStudents" binding:"required,min=1,max=10000" jsonschema:"minimum=1,maximum=10000"`
	Email              Text    `json:"email" binding:"required,email" jsonschema:"format=email"`
	Phone              Text    `json:"phone" binding:"required,phone" jsonschema:"pattern=^[0-9\\s\\-+()]+$"`
	Address            Text    `json:"address" binding:"required" jsonschema:"minLength=1"`
	City               Text    `json:"city" binding:"required" jsonschema:"minLength=1"`
	State              Text    `json:"state" binding:"required" jsonschema:"minLength=1"`
	ZipCode            Text    `json:"zipCode" binding:"required" jsonschema:"minLength=1"`
	Country            Text    `json:"country" binding:"required" jsonschema:"minLength=1"`
	FirstName          Text    `json:"firstName" binding:"required,min=2,max=50" jsonschema:"minLength=2,maxLength=50"`
	LastName           Text    `json:"lastName" binding:"required,min=2,max=50" jsonschema:"minLength=2,maxLength=50"`
	Password           string  `json:"password" binding:"required,min=8,strongpassword" jsonschema:"minLength=8"`
	Website            *Text   `json:"website,omitempty" binding:"omitempty,url" jsonschema:"format=uri"`
	FirstSchoolName    *Text   `json:"firstSchoolName,omitempty" binding:"omitempty,min=2,max=100" jsonschema:"minLength=2,maxLength=100"`
	FirstSchoolAddress *Text   `json:"firstSchoolAddress,omitempty"`
}

func (r *RegisterRequest) ToModel() model.RegistrationInput {
	return model.RegistrationInput{
		OrganizationName:  r.OrganizationName.String(),
		BusinessType:      r.BusinessType.String(),
		MartialArtTypes:   textSlice(r.MartialArtTypes),
		NumberOfSchools:   r.NumberOfSchools,
		EstimatedStudents: r.EstimatedStudents,
		Email:             r.Email.String(),
		Phone:             r.Phone.String(),
		Address: model.Address{
			Street:  r.Address.String(),
			City:    r.City.String(),
			State:   r.State.String(),
			ZipCode: r.ZipCode.String(),
			Country: r.Country.String(),
		},
		FirstName:          r.FirstName.String(),
		LastName:           r.LastName.String(),
		Password:           r.Password,
		Website:            optionalText(r.Website),
		FirstSchoolName:    optionalText(r.FirstSchoolName),
		FirstSchoolAddress: optionalText(r.FirstSchoolAddress),
	}
}

type CheckEmailRequest struct {
	Email Text `json:"email" binding:"required,email"`
}

type CheckEmailResponse struct {
	Success   bool `json:"success"`
	Available bool `json:"available"`
}

type ExtendTrialRequest struct {
	Days int `json:"days" binding:"required,min=1,max=90"`
}

type ConvertSubscriptionRequest struct {
	SubscriptionType model.Tier `json:"subscriptionType" binding:"required,oneof=free basic premium enterprise"`
}

type RegisteredOrganization struct {
	ID           int64      `json:"id,string"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	Subscription model.Tier `json:"subscription"`
	TrialEndDate *time.Time `json:"trialEndDate"`
}

type RegisteredSchool struct {
	ID   int64  `json:"id,string"`
	Name string `json:"name"`
}

type TrialResponse struct {
	Days    int        `json:"days"`
	EndDate *time.Time `json:"endDate"`
}

type RegisterResponse struct {
	Organization RegisteredOrganization `json:"organization"`
	School       RegisteredSchool       `json:"school"`
	User         UserResponse           `json:"user"`
	Trial        TrialResponse          `json:"trial"`
	Token        string                 `json:"token"`
}

func ToRegisterResponse(result *model.RegistrationResult, token string) RegisterResponse {
	org := result.Organization
	return RegisterResponse{
		Organization: RegisteredOrganization{
			ID:           org.ID,
			Name:         org.Name,
			Slug:         org.Slug,
			Subscription: org.Subscription,
			TrialEndDate: org.TrialEndDate,
		},
		School: RegisteredSchool{ID: result.School.ID, Name: result.School.Name},
		User:   ToUserResponse(result.User),
		Trial:  TrialResponse{Days: result.TrialDays, EndDate: org.TrialEndDate},
		Token:  token,
	}
}

type TrialExtendedResponse struct {
	TrialEndDate *time.Time `json:"trialEndDate"`
}

type SubscriptionResponse struct {
	Subscription       model.Tier                 `json:"subscription"`
	SubscriptionStatus model.SubscriptionStatus   `json:"subscriptionStatus"`
	SubscriptionExpiry *time.Time                 `json:"subscriptionExpiry"`
	Settings           model.OrganizationSettings `json:"settings"`
}

func ToSubscriptionResponse(org *model.Organization) SubscriptionResponse {
	return SubscriptionResponse{
		Subscription:       org.Subscription,
		SubscriptionStatus: org.SubscriptionStatus,
		SubscriptionExpiry: org.SubscriptionExpiry,
		Settings:           org.Settings,
	}
}
