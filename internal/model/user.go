package model

import "time"

type Role string

const (
	RoleSuperAdmin  Role = "super_admin"
	RoleOrgAdmin    Role = "org_admin"
	RoleSchoolAdmin Role = "school_admin"
	RoleInstructor  Role = "instructor"
	RoleStudent     Role = "student"
	RoleParent      Role = "parent"
)

type User struct {
	ID             int64      `json:"id"`
	OrganizationID *int64     `json:"organization_id,omitempty"`
	SchoolID       *int64     `json:"school_id,omitempty"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Phone          *string    `json:"phone,omitempty"`
	Role           Role       `json:"role"`
	IsActive       bool       `json:"is_active"`
	EmailVerified  bool       `json:"email_verified"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
