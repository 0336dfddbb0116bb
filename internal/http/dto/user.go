package dto

import (
	"time"

	"dojo.app/platform/internal/model"
)

type LoginRequest struct {
	Email    Text   `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID             int64      `json:"id,string"`
	Email          string     `json:"email"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Role           model.Role `json:"role"`
	OrganizationID *int64     `json:"organizationId,string,omitempty"`
	SchoolID       *int64     `json:"schoolId,string,omitempty"`
	IsActive       bool       `json:"isActive"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
}

func ToUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Role:           u.Role,
		OrganizationID: u.OrganizationID,
		SchoolID:       u.SchoolID,
		IsActive:       u.IsActive,
		LastLogin:      u.LastLogin,
	}
}

type LoginResponse struct {
	Token        string                `json:"token"`
	User         UserResponse          `json:"user"`
	Organization *OrganizationResponse `json:"organization,omitempty"`
}

type MeResponse struct {
	User         UserResponse          `json:"user"`
	Organization *OrganizationResponse `json:"organization,omitempty"`
}
