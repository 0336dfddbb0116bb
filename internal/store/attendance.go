package store

import (
	"context"
	"time"

	"dojo.app/platform/core/db/queries"
	"dojo.app/platform/internal/model"
)

type attendanceStore struct {
	queries *queries.Queries
}

func newAttendanceStore(q *queries.Queries) AttendanceStore {
	return &attendanceStore{queries: q}
}

// Upsert writes the mark for (class, student, date), replacing an earlier one.
// record receives the stored row, including the original id on a re-mark.
func (s *attendanceStore) Upsert(ctx context.Context, record *model.Attendance) error {
	row, err := s.queries.UpsertAttendance(ctx, queries.UpsertAttendanceParams{
		ID:             record.ID,
		OrganizationID: record.OrganizationID,
		SchoolID:       record.SchoolID,
		ClassID:        record.ClassID,
		StudentID:      record.StudentID,
		Date:           model.SessionDate(record.Date),
		Status:         string(record.Status),
		CheckInTime:    record.CheckInTime,
		CheckOutTime:   record.CheckOutTime,
		Notes:          record.Notes,
		MarkedBy:       record.MarkedBy,
	})
	if err != nil {
		return translate(err)
	}
	*record = toAttendanceModel(row)
	return nil
}

func (s *attendanceStore) ListByClassAndDate(ctx context.Context, orgID, classID int64, date time.Time) ([]model.Attendance, error) {
	rows, err := s.queries.ListAttendanceByClassAndDate(ctx, orgID, classID, model.SessionDate(date))
	if err != nil {
		return nil, translate(err)
	}

	records := make([]model.Attendance, 0, len(rows))
	for _, row := range rows {
		records = append(records, toAttendanceModel(row))
	}
	return records, nil
}

func (s *attendanceStore) SummarizeStudent(ctx context.Context, studentID int64) (model.AttendanceSummary, error) {
	row, err := s.queries.SummarizeStudentAttendance(ctx, studentID)
	if err != nil {
		return model.AttendanceSummary{}, translate(err)
	}
	return model.AttendanceSummary{
		Total:          row.Total,
		Attended:       row.Attended,
		LastAttendance: row.LastAttendance,
	}, nil
}

func toAttendanceModel(row queries.Attendance) model.Attendance {
	return model.Attendance{
		ID:             row.ID,
		OrganizationID: row.OrganizationID,
		SchoolID:       row.SchoolID,
		ClassID:        row.ClassID,
		StudentID:      row.StudentID,
		Date:           row.Date,
		Status:         model.AttendanceStatus(row.Status),
		CheckInTime:    row.CheckInTime,
		CheckOutTime:   row.CheckOutTime,
		Notes:          row.Notes,
		MarkedBy:       row.MarkedBy,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
