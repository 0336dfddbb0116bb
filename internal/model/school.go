package model

import "time"

const (
	DefaultClassCapacity = 30
	mainSchoolSuffix     = " Main School"
)

type School struct {
	ID             int64          `json:"id"`
	OrganizationID int64          `json:"organization_id"`
	Name           string         `json:"name"`
	Slug           string         `json:"slug"`
	Address        Address        `json:"address"`
	Phone          string         `json:"phone"`
	Email          string         `json:"email"`
	Website        *string        `json:"website,omitempty"`
	Description    *string        `json:"description,omitempty"`
	MaxStudents    *int           `json:"max_students,omitempty"`
	Timezone       *string        `json:"timezone,omitempty"`
	Settings       SchoolSettings `json:"settings"`
	IsActive       bool           `json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	// CurrentStudents is populated by list queries only.
	CurrentStudents int64 `json:"current_students"`
}

type SchoolSettings struct {
	MartialArtTypes    []string `json:"martialArtTypes"`
	ClassCapacity      int      `json:"classCapacity"`
	AllowOnlineBooking bool     `json:"allowOnlineBooking"`
}

// MainSchoolName is the default name of the school created at registration.
func MainSchoolName(orgName string) string {
	return orgName + mainSchoolSuffix
}

type SchoolStats struct {
	SchoolID        int64    `json:"schoolId"`
	SchoolName      string   `json:"schoolName"`
	StudentCount    int64    `json:"studentCount"`
	InstructorCount int64    `json:"instructorCount"`
	MaxStudents     int      `json:"maxStudents"`
	Utilization     int      `json:"utilization"`
	MartialArts     []string `json:"martialArts"`
	IsActive        bool     `json:"isActive"`
}

type SchoolFilter struct {
	Search     *string
	IsActive   *bool
	MartialArt *string
}

type SchoolInput struct {
	Name        string
	Address     Address
	Phone       string
	Email       string
	Website     *string
	Description *string
	MartialArts []string
	MaxStudents int
	IsActive    *bool
}

// SchoolPatch carries only the fields a caller wants to change.
type SchoolPatch struct {
	Name        *string
	Street      *string
	City        *string
	State       *string
	ZipCode     *string
	Country     *string
	Phone       *string
	Email       *string
	Website     *string
	Description *string
	MartialArts []string
	MaxStudents *int
	IsActive    *bool
}

// Apply writes the set fields of p onto s.
func (p SchoolPatch) Apply(s *School) {
	setString(&s.Name, p.Name)
	setString(&s.Address.Street, p.Street)
	setString(&s.Address.City, p.City)
	setString(&s.Address.State, p.State)
	setString(&s.Address.ZipCode, p.ZipCode)
	setString(&s.Address.Country, p.Country)
	setString(&s.Phone, p.Phone)
	setString(&s.Email, p.Email)
	if p.Website != nil {
		s.Website = p.Website
	}
	if p.Description != nil {
		s.Description = p.Description
	}
	if p.MartialArts != nil {
		s.Settings.MartialArtTypes = p.MartialArts
	}
	if p.MaxStudents != nil {
		s.MaxStudents = p.MaxStudents
	}
	if p.IsActive != nil {
		s.IsActive = *p.IsActive
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
