package store

import (
	"context"
	"time"

	"dojo.app/platform/core/db/queries"
	"dojo.app/platform/internal/model"
)

type userStore struct {
	queries *queries.Queries
}

func newUserStore(q *queries.Queries) UserStore {
	return &userStore{queries: q}
}

func (s *userStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row, err := s.queries.GetUser(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return toUserModel(row), nil
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, translate(err)
	}
	return toUserModel(row), nil
}

func (s *userStore) Create(ctx context.Context, user *model.User) error {
	row, err := s.queries.CreateUser(ctx, queries.CreateUserParams{
		ID:             user.ID,
		OrganizationID: user.OrganizationID,
		SchoolID:       user.SchoolID,
		Email:          user.Email,
		PasswordHash:   user.PasswordHash,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Phone:          user.Phone,
		Role:           string(user.Role),
		IsActive:       user.IsActive,
		EmailVerified:  user.EmailVerified,
		LastLogin:      user.LastLogin,
	})
	if err != nil {
		return translate(err)
	}
	*user = *toUserModel(row)
	return nil
}

func (s *userStore) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return translate(s.queries.UpdateUserLastLogin(ctx, id, at))
}

func (s *userStore) CountBySchoolAndRole(ctx context.Context, schoolID int64, role model.Role) (int64, error) {
	n, err := s.queries.CountUsersBySchoolAndRole(ctx, schoolID, string(role))
	if err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func toUserModel(row queries.User) *model.User {
	return &model.User{
		ID:             row.ID,
		OrganizationID: row.OrganizationID,
		SchoolID:       row.SchoolID,
		Email:          row.Email,
		PasswordHash:   row.PasswordHash,
		FirstName:      row.FirstName,
		LastName:       row.LastName,
		Phone:          row.Phone,
		Role:           model.Role(row.Role),
		IsActive:       row.IsActive,
		EmailVerified:  row.EmailVerified,
		LastLogin:      row.LastLogin,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
