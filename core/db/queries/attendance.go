package queries

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

type Attendance struct {
	ID             int64
	OrganizationID int64
	SchoolID       int64
	ClassID        int64
	StudentID      int64
	Date           time.Time
	Status         string
	CheckInTime    *time.Time
	CheckOutTime   *time.Time
	Notes          *string
	MarkedBy       *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const attendanceColumns = `id, organization_id, school_id, class_id, student_id, date, status,
	check_in_time, check_out_time, notes, marked_by, created_at, updated_at`

func scanAttendance(row pgx.Row) (Attendance, error) {
	var a Attendance
	err := row.Scan(
		&a.ID, &a.OrganizationID, &a.SchoolID, &a.ClassID, &a.StudentID, &a.Date, &a.Status,
		&a.CheckInTime, &a.CheckOutTime, &a.Notes, &a.MarkedBy, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

type UpsertAttendanceParams struct {
	ID             int64
	OrganizationID int64
	SchoolID       int64
	ClassID        int64
	StudentID      int64
	Date           time.Time
	Status         string
	CheckInTime    *time.Time
	CheckOutTime   *time.Time
	Notes          *string
	MarkedBy       *int64
}

// upsertAttendance keeps the first record's id when a session is re-marked.
const upsertAttendance = `INSERT INTO attendance (
	id, organization_id, school_id, class_id, student_id, date, status,
	check_in_time, check_out_time, notes, marked_by
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (class_id, student_id, date) DO UPDATE SET
	status = EXCLUDED.status,
	check_in_time = EXCLUDED.check_in_time,
	check_out_time = EXCLUDED.check_out_time,
	notes = EXCLUDED.notes,
	marked_by = EXCLUDED.marked_by,
	updated_at = now()
RETURNING ` + attendanceColumns

func (q *Queries) UpsertAttendance(ctx context.Context, arg UpsertAttendanceParams) (Attendance, error) {
	return scanAttendance(q.db.QueryRow(ctx, upsertAttendance,
		arg.ID, arg.OrganizationID, arg.SchoolID, arg.ClassID, arg.StudentID, arg.Date, arg.Status,
		arg.CheckInTime, arg.CheckOutTime, arg.Notes, arg.MarkedBy,
	))
}

const listAttendanceByClassAndDate = `SELECT ` + attendanceColumns + ` FROM attendance
WHERE organization_id = $1 AND class_id = $2 AND date = $3
ORDER BY student_id`

func (q *Queries) ListAttendanceByClassAndDate(ctx context.Context, orgID, classID int64, date time.Time) ([]Attendance, error) {
	rows, err := q.db.Query(ctx, listAttendanceByClassAndDate, orgID, classID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

type AttendanceSummaryRow struct {
	Total          int64
	Attended       int64
	LastAttendance *time.Time
}

const summarizeStudentAttendance = `SELECT
	count(*),
	count(*) FILTER (WHERE status IN ('present', 'late')),
	(max(date) FILTER (WHERE status IN ('present', 'late')))::timestamptz
FROM attendance
WHERE student_id = $1`

func (q *Queries) SummarizeStudentAttendance(ctx context.Context, studentID int64) (AttendanceSummaryRow, error) {
	var s AttendanceSummaryRow
	err := q.db.QueryRow(ctx, summarizeStudentAttendance, studentID).Scan(&s.Total, &s.Attended, &s.LastAttendance)
	return s, err
}
