package queries

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

type School struct {
	ID             int64
	OrganizationID int64
	Name           string
	Slug           string
	Address        string
	City           string
	State          string
	ZipCode        string
	Country        string
	Phone          string
	Email          string
	Website        *string
	Description    *string
	MaxStudents    *int32
	Timezone       *string
	Settings       []byte
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SchoolWithCount carries the number of active student users bound to the school.
type SchoolWithCount struct {
	School
	CurrentStudents int64
}

const schoolColumns = `id, organization_id, name, slug, address, city, state, zip_code, country, phone, email,
	website, description, max_students, timezone, settings, is_active, created_at, updated_at`

func schoolScanTargets(s *School) []any {
	return []any{
		&s.ID, &s.OrganizationID, &s.Name, &s.Slug, &s.Address, &s.City, &s.State, &s.ZipCode, &s.Country,
		&s.Phone, &s.Email, &s.Website, &s.Description, &s.MaxStudents, &s.Timezone, &s.Settings,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	}
}

func scanSchool(row pgx.Row) (School, error) {
	var s School
	err := row.Scan(schoolScanTargets(&s)...)
	return s, err
}

type CreateSchoolParams struct {
	ID             int64
	OrganizationID int64
	Name           string
	Slug           string
	Address        string
	City           string
	State          string
	ZipCode        string
	Country        string
	Phone          string
	Email          string
	Website        *string
	Description    *string
	MaxStudents    *int32
	Timezone       *string
	Settings       []byte
	IsActive       bool
}

const createSchool = `INSERT INTO schools (
	id, organization_id, name, slug, address, city, state, zip_code, country, phone, email,
	website, description, max_students, timezone, settings, is_active
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
RETURNING ` + schoolColumns

func (q *Queries) CreateSchool(ctx context.Context, arg CreateSchoolParams) (School, error) {
	return scanSchool(q.db.QueryRow(ctx, createSchool,
		arg.ID, arg.OrganizationID, arg.Name, arg.Slug, arg.Address, arg.City, arg.State, arg.ZipCode,
		arg.Country, arg.Phone, arg.Email, arg.Website, arg.Description, arg.MaxStudents, arg.Timezone,
		arg.Settings, arg.IsActive,
	))
}

const getSchool = `SELECT ` + schoolColumns + ` FROM schools WHERE organization_id = $1 AND id = $2`

func (q *Queries) GetSchool(ctx context.Context, orgID, id int64) (School, error) {
	return scanSchool(q.db.QueryRow(ctx, getSchool, orgID, id))
}

const getSchoolByOrgAndSlug = `SELECT ` + schoolColumns + ` FROM schools WHERE organization_id = $1 AND slug = $2`

func (q *Queries) GetSchoolByOrgAndSlug(ctx context.Context, orgID int64, slug string) (School, error) {
	return scanSchool(q.db.QueryRow(ctx, getSchoolByOrgAndSlug, orgID, slug))
}

const getSchoolByOrgAndName = `SELECT ` + schoolColumns + ` FROM schools
WHERE organization_id = $1 AND lower(name) = lower($2) AND id <> $3
LIMIT 1`

// GetSchoolByOrgAndName finds a same-named school, ignoring excludeID (0 excludes nothing).
func (q *Queries) GetSchoolByOrgAndName(ctx context.Context, orgID int64, name string, excludeID int64) (School, error) {
	return scanSchool(q.db.QueryRow(ctx, getSchoolByOrgAndName, orgID, name, excludeID))
}

const countSchoolsByOrganization = `SELECT count(*) FROM schools WHERE organization_id = $1`

func (q *Queries) CountSchoolsByOrganization(ctx context.Context, orgID int64) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countSchoolsByOrganization, orgID).Scan(&n)
	return n, err
}

type ListSchoolsParams struct {
	OrganizationID int64
	Search         *string
	IsActive       *bool
	MartialArt     *string
}

// ListSchools builds its WHERE clause from the optional filters; values are always bound.
func (q *Queries) ListSchools(ctx context.Context, arg ListSchoolsParams) ([]SchoolWithCount, error) {
	conds := []string{"s.organization_id = $1"}
	args := []any{arg.OrganizationID}

	if arg.Search != nil && *arg.Search != "" {
		args = append(args, "%"+*arg.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(s.name ILIKE $%d OR s.city ILIKE $%d OR s.address ILIKE $%d)", n, n, n))
	}
	if arg.IsActive != nil {
		args = append(args, *arg.IsActive)
		conds = append(conds, fmt.Sprintf("s.is_active = $%d", len(args)))
	}
	if arg.MartialArt != nil && *arg.MartialArt != "" {
		args = append(args, *arg.MartialArt)
		conds = append(conds, fmt.Sprintf("s.settings->'martialArtTypes' ? $%d", len(args)))
	}

	sql := `SELECT ` + prefixColumns("s", schoolColumns) + `,
	(SELECT count(*) FROM users u WHERE u.school_id = s.id AND u.role = 'student' AND u.is_active) AS current_students
FROM schools s
WHERE ` + strings.Join(conds, " AND ") + `
ORDER BY s.created_at DESC`

	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []SchoolWithCount
	for rows.Next() {
		var s SchoolWithCount
		targets := append(schoolScanTargets(&s.School), &s.CurrentStudents)
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

type UpdateSchoolParams struct {
	ID             int64
	OrganizationID int64
	Name           string
	Address        string
	City           string
	State          string
	ZipCode        string
	Country        string
	Phone          string
	Email          string
	Website        *string
	Description    *string
	MaxStudents    *int32
	Timezone       *string
	Settings       []byte
	IsActive       bool
}

const updateSchool = `UPDATE schools SET
	name = $3, address = $4, city = $5, state = $6, zip_code = $7, country = $8, phone = $9, email = $10,
	website = $11, description = $12, max_students = $13, timezone = $14, settings = $15, is_active = $16,
	updated_at = now()
WHERE organization_id = $1 AND id = $2
RETURNING ` + schoolColumns

func (q *Queries) UpdateSchool(ctx context.Context, arg UpdateSchoolParams) (School, error) {
	return scanSchool(q.db.QueryRow(ctx, updateSchool,
		arg.OrganizationID, arg.ID, arg.Name, arg.Address, arg.City, arg.State, arg.ZipCode, arg.Country,
		arg.Phone, arg.Email, arg.Website, arg.Description, arg.MaxStudents, arg.Timezone, arg.Settings,
		arg.IsActive,
	))
}

const deleteSchool = `DELETE FROM schools WHERE organization_id = $1 AND id = $2`

// DeleteSchool reports whether a row was removed.
func (q *Queries) DeleteSchool(ctx context.Context, orgID, id int64) (bool, error) {
	tag, err := q.db.Exec(ctx, deleteSchool, orgID, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
