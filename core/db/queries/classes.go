package queries

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

type Class struct {
	ID                     int64
	OrganizationID         int64
	SchoolID               int64
	Name                   string
	Description            *string
	InstructorID           int64
	AssistantInstructorIDs []int64
	DayOfWeek              int16
	StartTime              string
	EndTime                string
	Duration               int32
	MaxStudents            int32
	CurrentStudents        int32
	BeltLevels             []string
	AgeGroups              []string
	Location               *string
	IsRecurring            bool
	StartDate              time.Time
	EndDate                *time.Time
	Status                 string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

const classColumns = `id, organization_id, school_id, name, description, instructor_id, assistant_instructor_ids,
	day_of_week, start_time, end_time, duration, max_students, current_students, belt_levels, age_groups,
	location, is_recurring, start_date, end_date, status, created_at, updated_at`

func scanClass(row pgx.Row) (Class, error) {
	var c Class
	err := row.Scan(
		&c.ID, &c.OrganizationID, &c.SchoolID, &c.Name, &c.Description, &c.InstructorID,
		&c.AssistantInstructorIDs, &c.DayOfWeek, &c.StartTime, &c.EndTime, &c.Duration, &c.MaxStudents,
		&c.CurrentStudents, &c.BeltLevels, &c.AgeGroups, &c.Location, &c.IsRecurring, &c.StartDate,
		&c.EndDate, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

type CreateClassParams struct {
	ID                     int64
	OrganizationID         int64
	SchoolID               int64
	Name                   string
	Description            *string
	InstructorID           int64
	AssistantInstructorIDs []int64
	DayOfWeek              int16
	StartTime              string
	EndTime                string
	Duration               int32
	MaxStudents            int32
	BeltLevels             []string
	AgeGroups              []string
	Location               *string
	IsRecurring            bool
	StartDate              time.Time
	EndDate                *time.Time
	Status                 string
}

const createClass = `INSERT INTO classes (
	id, organization_id, school_id, name, description, instructor_id, assistant_instructor_ids,
	day_of_week, start_time, end_time, duration, max_students, belt_levels, age_groups, location,
	is_recurring, start_date, end_date, status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
RETURNING ` + classColumns

func (q *Queries) CreateClass(ctx context.Context, arg CreateClassParams) (Class, error) {
	return scanClass(q.db.QueryRow(ctx, createClass,
		arg.ID, arg.OrganizationID, arg.SchoolID, arg.Name, arg.Description, arg.InstructorID,
		arg.AssistantInstructorIDs, arg.DayOfWeek, arg.StartTime, arg.EndTime, arg.Duration, arg.MaxStudents,
		arg.BeltLevels, arg.AgeGroups, arg.Location, arg.IsRecurring, arg.StartDate, arg.EndDate, arg.Status,
	))
}

const getClass = `SELECT ` + classColumns + ` FROM classes WHERE organization_id = $1 AND id = $2`

func (q *Queries) GetClass(ctx context.Context, orgID, id int64) (Class, error) {
	return scanClass(q.db.QueryRow(ctx, getClass, orgID, id))
}

const listClassesBySchool = `SELECT ` + classColumns + ` FROM classes
WHERE organization_id = $1 AND school_id = $2
ORDER BY day_of_week, start_time, id`

func (q *Queries) ListClassesBySchool(ctx context.Context, orgID, schoolID int64) ([]Class, error) {
	rows, err := q.db.Query(ctx, listClassesBySchool, orgID, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
