package dto

import (
	"time"

	"dojo.app/platform/internal/model"
)

type CreateSchoolRequest struct {
	Name        Text   `json:"name" binding:"required,min=2,max=100"`
	Address     Text   `json:"address" binding:"required"`
	City        Text   `json:"city" binding:"required"`
	State       Text   `json:"state" binding:"required"`
	ZipCode     Text   `json:"zipCode" binding:"required"`
	Country     Text   `json:"country"`
	Phone       Text   `json:"phone" binding:"required,phone"`
	Email       Text   `json:"email" binding:"required,email"`
	Website     *Text  `json:"website,omitempty" binding:"omitempty,url"`
	Description *Text  `json:"description,omitempty"`
	MartialArts []Text `json:"martialArts" binding:"required,min=1,dive,required"`
	MaxStudents int    `json:"maxStudents" binding:"required,min=1"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

func (r *CreateSchoolRequest) ToModel() model.SchoolInput {
	return model.SchoolInput{
		Name: r.Name.String(),
		Address: model.Address{
			Street:  r.Address.String(),
			City:    r.City.String(),
			State:   r.State.String(),
			ZipCode: r.ZipCode.String(),
			Country: r.Country.String(),
		},
		Phone:       r.Phone.String(),
		Email:       r.Email.String(),
		Website:     optionalText(r.Website),
		Description: optionalText(r.Description),
		MartialArts: textSlice(r.MartialArts),
		MaxStudents: r.MaxStudents,
		IsActive:    r.IsActive,
	}
}

// UpdateSchoolRequest only changes the fields present in the body.
type UpdateSchoolRequest struct {
	Name        *Text  `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	Address     *Text  `json:"address,omitempty" binding:"omitempty,min=1"`
	City        *Text  `json:"city,omitempty" binding:"omitempty,min=1"`
	State       *Text  `json:"state,omitempty" binding:"omitempty,min=1"`
	ZipCode     *Text  `json:"zipCode,omitempty" binding:"omitempty,min=1"`
	Country     *Text  `json:"country,omitempty" binding:"omitempty,min=1"`
	Phone       *Text  `json:"phone,omitempty" binding:"omitempty,phone"`
	Email       *Text  `json:"email,omitempty" binding:"omitempty,email"`
	Website     *Text  `json:"website,omitempty" binding:"omitempty,url"`
	Description *Text  `json:"description,omitempty"`
	MartialArts []Text `json:"martialArts,omitempty" binding:"omitempty,min=1,dive,required"`
	MaxStudents *int   `json:"maxStudents,omitempty" binding:"omitempty,min=1"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

func (r *UpdateSchoolRequest) ToPatch() model.SchoolPatch {
	patch := model.SchoolPatch{
		Name:        optionalText(r.Name),
		Street:      optionalText(r.Address),
		City:        optionalText(r.City),
		State:       optionalText(r.State),
		ZipCode:     optionalText(r.ZipCode),
		Country:     optionalText(r.Country),
		Phone:       optionalText(r.Phone),
		Email:       optionalText(r.Email),
		Website:     optionalText(r.Website),
		Description: optionalText(r.Description),
		MaxStudents: r.MaxStudents,
		IsActive:    r.IsActive,
	}
	if r.MartialArts != nil {
		patch.MartialArts = textSlice(r.MartialArts)
	}
	return patch
}

type SchoolResponse struct {
	ID              int64                `json:"id,string"`
	OrganizationID  int64                `json:"organizationId,string"`
	Name            string               `json:"name"`
	Slug            string               `json:"slug"`
	Address         AddressResponse      `json:"address"`
	Phone           string               `json:"phone"`
	Email           string               `json:"email"`
	Website         *string              `json:"website,omitempty"`
	Description     *string              `json:"description,omitempty"`
	MaxStudents     *int                 `json:"maxStudents,omitempty"`
	Timezone        *string              `json:"timezone,omitempty"`
	Settings        model.SchoolSettings `json:"settings"`
	IsActive        bool                 `json:"isActive"`
	CurrentStudents int64                `json:"currentStudents"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

func ToSchoolResponse(s *model.School) SchoolResponse {
	return SchoolResponse{
		ID:              s.ID,
		OrganizationID:  s.OrganizationID,
		Name:            s.Name,
		Slug:            s.Slug,
		Address:         toAddressResponse(s.Address),
		Phone:           s.Phone,
		Email:           s.Email,
		Website:         s.Website,
		Description:     s.Description,
		MaxStudents:     s.MaxStudents,
		Timezone:        s.Timezone,
		Settings:        s.Settings,
		IsActive:        s.IsActive,
		CurrentStudents: s.CurrentStudents,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func ToSchoolResponses(schools []model.School) []SchoolResponse {
	out := make([]SchoolResponse, 0, len(schools))
	for i := range schools {
		out = append(out, ToSchoolResponse(&schools[i]))
	}
	return out
}

type SchoolStatsResponse struct {
	SchoolID        int64    `json:"schoolId,string"`
	SchoolName      string   `json:"schoolName"`
	StudentCount    int64    `json:"studentCount"`
	InstructorCount int64    `json:"instructorCount"`
	MaxStudents     int      `json:"maxStudents"`
	Utilization     int      `json:"utilization"`
	MartialArts     []string `json:"martialArts"`
	IsActive        bool     `json:"isActive"`
}

func ToSchoolStatsResponse(s *model.SchoolStats) SchoolStatsResponse {
	return SchoolStatsResponse{
		SchoolID:        s.SchoolID,
		SchoolName:      s.SchoolName,
		StudentCount:    s.StudentCount,
		InstructorCount: s.InstructorCount,
		MaxStudents:     s.MaxStudents,
		Utilization:     s.Utilization,
		MartialArts:     s.MartialArts,
		IsActive:        s.IsActive,
	}
}
