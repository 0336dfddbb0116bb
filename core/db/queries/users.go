package queries

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

type User struct {
	ID             int64
	OrganizationID *int64
	SchoolID       *int64
	Email          string
	PasswordHash   string
	FirstName      string
	LastName       string
	Phone          *string
	Role           string
	IsActive       bool
	EmailVerified  bool
	LastLogin      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const userColumns = `id, organization_id, school_id, email, password_hash, first_name, last_name, phone, role,
	is_active, email_verified, last_login, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.OrganizationID, &u.SchoolID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Phone, &u.Role, &u.IsActive, &u.EmailVerified, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

type CreateUserParams struct {
	ID             int64
	OrganizationID *int64
	SchoolID       *int64
	Email          string
	PasswordHash   string
	FirstName      string
	LastName       string
	Phone          *string
	Role           string
	IsActive       bool
	EmailVerified  bool
	LastLogin      *time.Time
}

const createUser = `INSERT INTO users (
	id, organization_id, school_id, email, password_hash, first_name, last_name, phone, role,
	is_active, email_verified, last_login
) VALUES ($1, $2, $3, lower($4), $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + userColumns

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	return scanUser(q.db.QueryRow(ctx, createUser,
		arg.ID, arg.OrganizationID, arg.SchoolID, arg.Email, arg.PasswordHash, arg.FirstName, arg.LastName,
		arg.Phone, arg.Role, arg.IsActive, arg.EmailVerified, arg.LastLogin,
	))
}

const getUser = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

func (q *Queries) GetUser(ctx context.Context, id int64) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUser, id))
}

const getUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByEmail, email))
}

const updateUserLastLogin = `UPDATE users SET last_login = $2, updated_at = now() WHERE id = $1`

func (q *Queries) UpdateUserLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := q.db.Exec(ctx, updateUserLastLogin, id, at)
	return err
}

const countUsersBySchoolAndRole = `SELECT count(*) FROM users WHERE school_id = $1 AND role = $2 AND is_active`

func (q *Queries) CountUsersBySchoolAndRole(ctx context.Context, schoolID int64, role string) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countUsersBySchoolAndRole, schoolID, role).Scan(&n)
	return n, err
}
