package queries

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

type Student struct {
	ID              int64
	UserID          int64
	OrganizationID  int64
	SchoolID        int64
	StudentCode     string
	BeltRank        string
	RankDate        *time.Time
	JoinDate        time.Time
	Status          string
	ParentIDs       []int64
	Notes           *string
	Achievements    []byte
	AttendanceRate  *float64
	LastAttendance  *time.Time
	NextGradingDate *time.Time
	TuitionStatus   string
	TuitionDueDate  *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const studentColumns = `id, user_id, organization_id, school_id, student_code, belt_rank, rank_date, join_date,
	status, parent_ids, notes, achievements, attendance_rate, last_attendance, next_grading_date,
	tuition_status, tuition_due_date, created_at, updated_at`

func scanStudent(row pgx.Row) (Student, error) {
	var s Student
	err := row.Scan(
		&s.ID, &s.UserID, &s.OrganizationID, &s.SchoolID, &s.StudentCode, &s.BeltRank, &s.RankDate,
		&s.JoinDate, &s.Status, &s.ParentIDs, &s.Notes, &s.Achievements, &s.AttendanceRate,
		&s.LastAttendance, &s.NextGradingDate, &s.TuitionStatus, &s.TuitionDueDate, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

type CreateStudentParams struct {
	ID              int64
	UserID          int64
	OrganizationID  int64
	SchoolID        int64
	StudentCode     string
	BeltRank        string
	RankDate        *time.Time
	JoinDate        time.Time
	Status          string
	ParentIDs       []int64
	Notes           *string
	Achievements    []byte
	NextGradingDate *time.Time
	TuitionStatus   string
	TuitionDueDate  *time.Time
}

const createStudent = `INSERT INTO students (
	id, user_id, organization_id, school_id, student_code, belt_rank, rank_date, join_date, status,
	parent_ids, notes, achievements, next_grading_date, tuition_status, tuition_due_date
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING ` + studentColumns

func (q *Queries) CreateStudent(ctx context.Context, arg CreateStudentParams) (Student, error) {
	return scanStudent(q.db.QueryRow(ctx, createStudent,
		arg.ID, arg.UserID, arg.OrganizationID, arg.SchoolID, arg.StudentCode, arg.BeltRank, arg.RankDate,
		arg.JoinDate, arg.Status, arg.ParentIDs, arg.Notes, arg.Achievements, arg.NextGradingDate,
		arg.TuitionStatus, arg.TuitionDueDate,
	))
}

const getStudent = `SELECT ` + studentColumns + ` FROM students WHERE organization_id = $1 AND id = $2`

func (q *Queries) GetStudent(ctx context.Context, orgID, id int64) (Student, error) {
	return scanStudent(q.db.QueryRow(ctx, getStudent, orgID, id))
}

const getStudentByUser = `SELECT ` + studentColumns + ` FROM students WHERE user_id = $1`

func (q *Queries) GetStudentByUser(ctx context.Context, userID int64) (Student, error) {
	return scanStudent(q.db.QueryRow(ctx, getStudentByUser, userID))
}

const listStudentsBySchool = `SELECT ` + studentColumns + ` FROM students
WHERE organization_id = $1 AND school_id = $2
ORDER BY join_date, id`

func (q *Queries) ListStudentsBySchool(ctx context.Context, orgID, schoolID int64) ([]Student, error) {
	rows, err := q.db.Query(ctx, listStudentsBySchool, orgID, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const countActiveStudentsByOrganization = `SELECT count(*) FROM students
WHERE organization_id = $1 AND status = 'active'`

func (q *Queries) CountActiveStudentsByOrganization(ctx context.Context, orgID int64) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countActiveStudentsByOrganization, orgID).Scan(&n)
	return n, err
}

const countStudentsBySchool = `SELECT count(*) FROM students WHERE school_id = $1`

func (q *Queries) CountStudentsBySchool(ctx context.Context, schoolID int64) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countStudentsBySchool, schoolID).Scan(&n)
	return n, err
}

const updateStudentAttendance = `UPDATE students SET
	attendance_rate = $2, last_attendance = $3, updated_at = now()
WHERE id = $1`

func (q *Queries) UpdateStudentAttendance(ctx context.Context, id int64, rate float64, last *time.Time) error {
	tag, err := q.db.Exec(ctx, updateStudentAttendance, id, rate, last)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
