package store

import (
	"context"

	"dojo.app/platform/core/db/queries"
	"dojo.app/platform/internal/model"
)

type studentStore struct {
	queries *queries.Queries
}

func newStudentStore(q *queries.Queries) StudentStore {
	return &studentStore{queries: q}
}

func (s *studentStore) GetByID(ctx context.Context, orgID, id int64) (*model.Student, error) {
	row, err := s.queries.GetStudent(ctx, orgID, id)
	if err != nil {
		return nil, translate(err)
	}
	return toStudentModel(row)
}

func (s *studentStore) GetByUser(ctx context.Context, userID int64) (*model.Student, error) {
	row, err := s.queries.GetStudentByUser(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	return toStudentModel(row)
}

func (s *studentStore) ListBySchool(ctx context.Context, orgID, schoolID int64) ([]model.Student, error) {
	rows, err := s.queries.ListStudentsBySchool(ctx, orgID, schoolID)
	if err != nil {
		return nil, translate(err)
	}

	students := make([]model.Student, 0, len(rows))
	for _, row := range rows {
		student, err := toStudentModel(row)
		if err != nil {
			return nil, err
		}
		students = append(students, *student)
	}
	return students, nil
}

func (s *studentStore) CountActiveByOrganization(ctx context.Context, orgID int64) (int64, error) {
	n, err := s.queries.CountActiveStudentsByOrganization(ctx, orgID)
	if err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func (s *studentStore) CountBySchool(ctx context.Context, schoolID int64) (int64, error) {
	n, err := s.queries.CountStudentsBySchool(ctx, schoolID)
	if err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func (s *studentStore) Create(ctx context.Context, student *model.Student) error {
	achievements, err := encodeDocument(achievementsOrEmpty(student.Achievements))
	if err != nil {
		return err
	}

	row, err := s.queries.CreateStudent(ctx, queries.CreateStudentParams{
		ID:              student.ID,
		UserID:          student.UserID,
		OrganizationID:  student.OrganizationID,
		SchoolID:        student.SchoolID,
		StudentCode:     student.StudentCode,
		BeltRank:        student.BeltRank,
		RankDate:        student.RankDate,
		JoinDate:        student.JoinDate,
		Status:          string(student.Status),
		ParentIDs:       idsOrEmpty(student.ParentIDs),
		Notes:           student.Notes,
		Achievements:    achievements,
		NextGradingDate: student.NextGradingDate,
		TuitionStatus:   string(student.TuitionStatus),
		TuitionDueDate:  student.TuitionDueDate,
	})
	if err != nil {
		return translate(err)
	}

	created, err := toStudentModel(row)
	if err != nil {
		return err
	}
	*student = *created
	return nil
}

func (s *studentStore) UpdateAttendance(ctx context.Context, id int64, summary model.AttendanceSummary) error {
	return translate(s.queries.UpdateStudentAttendance(ctx, id, summary.Rate(), summary.LastAttendance))
}

func toStudentModel(row queries.Student) (*model.Student, error) {
	student := &model.Student{
		ID:              row.ID,
		UserID:          row.UserID,
		OrganizationID:  row.OrganizationID,
		SchoolID:        row.SchoolID,
		StudentCode:     row.StudentCode,
		BeltRank:        row.BeltRank,
		RankDate:        row.RankDate,
		JoinDate:        row.JoinDate,
		Status:          model.StudentStatus(row.Status),
		ParentIDs:       row.ParentIDs,
		Notes:           row.Notes,
		AttendanceRate:  row.AttendanceRate,
		LastAttendance:  row.LastAttendance,
		NextGradingDate: row.NextGradingDate,
		TuitionStatus:   model.TuitionStatus(row.TuitionStatus),
		TuitionDueDate:  row.TuitionDueDate,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if err := decodeDocument(row.Achievements, &student.Achievements); err != nil {
		return nil, err
	}
	return student, nil
}

func achievementsOrEmpty(a []model.Achievement) []model.Achievement {
	if a == nil {
		return []model.Achievement{}
	}
	return a
}

// idsOrEmpty keeps NOT NULL array columns from receiving a SQL NULL.
func idsOrEmpty(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
