package store

import (
	"context"
	"time"

	"dojo.app/platform/core/db/queries"
	"dojo.app/platform/internal/model"
)

type classStore struct {
	queries *queries.Queries
}

func newClassStore(q *queries.Queries) ClassStore {
	return &classStore{queries: q}
}

func (s *classStore) GetByID(ctx context.Context, orgID, id int64) (*model.Class, error) {
	row, err := s.queries.GetClass(ctx, orgID, id)
	if err != nil {
		return nil, translate(err)
	}
	return toClassModel(row), nil
}

func (s *classStore) ListBySchool(ctx context.Context, orgID, schoolID int64) ([]model.Class, error) {
	rows, err := s.queries.ListClassesBySchool(ctx, orgID, schoolID)
	if err != nil {
		return nil, translate(err)
	}

	classes := make([]model.Class, 0, len(rows))
	for _, row := range rows {
		classes = append(classes, *toClassModel(row))
	}
	return classes, nil
}

func (s *classStore) Create(ctx context.Context, class *model.Class) error {
	row, err := s.queries.CreateClass(ctx, queries.CreateClassParams{
		ID:                     class.ID,
		OrganizationID:         class.OrganizationID,
		SchoolID:               class.SchoolID,
		Name:                   class.Name,
		Description:            class.Description,
		InstructorID:           class.InstructorID,
		AssistantInstructorIDs: idsOrEmpty(class.AssistantInstructorIDs),
		DayOfWeek:              int16(class.DayOfWeek),
		StartTime:              class.StartTime,
		EndTime:                class.EndTime,
		Duration:               int32(class.DurationMinutes),
		MaxStudents:            int32(class.MaxStudents),
		BeltLevels:             stringsOrEmpty(class.BeltLevels),
		AgeGroups:              stringsOrEmpty(class.AgeGroups),
		Location:               class.Location,
		IsRecurring:            class.IsRecurring,
		StartDate:              class.StartDate,
		EndDate:                class.EndDate,
		Status:                 string(class.Status),
	})
	if err != nil {
		return translate(err)
	}
	*class = *toClassModel(row)
	return nil
}

func toClassModel(row queries.Class) *model.Class {
	return &model.Class{
		ID:                     row.ID,
		OrganizationID:         row.OrganizationID,
		SchoolID:               row.SchoolID,
		Name:                   row.Name,
		Description:            row.Description,
		InstructorID:           row.InstructorID,
		AssistantInstructorIDs: row.AssistantInstructorIDs,
		DayOfWeek:              time.Weekday(row.DayOfWeek),
		StartTime:              row.StartTime,
		EndTime:                row.EndTime,
		DurationMinutes:        int(row.Duration),
		MaxStudents:            int(row.MaxStudents),
		CurrentStudents:        int(row.CurrentStudents),
		BeltLevels:             row.BeltLevels,
		AgeGroups:              row.AgeGroups,
		Location:               row.Location,
		IsRecurring:            row.IsRecurring,
		StartDate:              row.StartDate,
		EndDate:                row.EndDate,
		Status:                 model.ClassStatus(row.Status),
		CreatedAt:              row.CreatedAt,
		UpdatedAt:              row.UpdatedAt,
	}
}

func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
