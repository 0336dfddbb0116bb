package store

import (
	"context"

	"dojo.app/platform/core/db/queries"
	"dojo.app/platform/internal/model"
)

type schoolStore struct {
	queries *queries.Queries
}

func newSchoolStore(q *queries.Queries) SchoolStore {
	return &schoolStore{queries: q}
}

func (s *schoolStore) GetByID(ctx context.Context, orgID, id int64) (*model.School, error) {
	row, err := s.queries.GetSchool(ctx, orgID, id)
	if err != nil {
		return nil, translate(err)
	}
	return toSchoolModel(row)
}

func (s *schoolStore) GetByOrgAndSlug(ctx context.Context, orgID int64, slug string) (*model.School, error) {
	row, err := s.queries.GetSchoolByOrgAndSlug(ctx, orgID, slug)
	if err != nil {
		return nil, translate(err)
	}
	return toSchoolModel(row)
}

func (s *schoolStore) GetByOrgAndName(ctx context.Context, orgID int64, name string, excludeID int64) (*model.School, error) {
	row, err := s.queries.GetSchoolByOrgAndName(ctx, orgID, name, excludeID)
	if err != nil {
		return nil, translate(err)
	}
	return toSchoolModel(row)
}

func (s *schoolStore) CountByOrganization(ctx context.Context, orgID int64) (int64, error) {
	n, err := s.queries.CountSchoolsByOrganization(ctx, orgID)
	if err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func (s *schoolStore) List(ctx context.Context, orgID int64, filter model.SchoolFilter) ([]model.School, error) {
	rows, err := s.queries.ListSchools(ctx, queries.ListSchoolsParams{
		OrganizationID: orgID,
		Search:         filter.Search,
		IsActive:       filter.IsActive,
		MartialArt:     filter.MartialArt,
	})
	if err != nil {
		return nil, translate(err)
	}

	schools := make([]model.School, 0, len(rows))
	for _, row := range rows {
		school, err := toSchoolModel(row.School)
		if err != nil {
			return nil, err
		}
		school.CurrentStudents = row.CurrentStudents
		schools = append(schools, *school)
	}
	return schools, nil
}

func (s *schoolStore) Create(ctx context.Context, school *model.School) error {
	settings, err := encodeDocument(school.Settings)
	if err != nil {
		return err
	}

	row, err := s.queries.CreateSchool(ctx, queries.CreateSchoolParams{
		ID:             school.ID,
		OrganizationID: school.OrganizationID,
		Name:           school.Name,
		Slug:           school.Slug,
		Address:        school.Address.Street,
		City:           school.Address.City,
		State:          school.Address.State,
		ZipCode:        school.Address.ZipCode,
		Country:        school.Address.Country,
		Phone:          school.Phone,
		Email:          school.Email,
		Website:        school.Website,
		Description:    school.Description,
		MaxStudents:    toInt32Ptr(school.MaxStudents),
		Timezone:       school.Timezone,
		Settings:       settings,
		IsActive:       school.IsActive,
	})
	if err != nil {
		return translate(err)
	}
	return assignSchool(school, row)
}

func (s *schoolStore) Update(ctx context.Context, school *model.School) error {
	settings, err := encodeDocument(school.Settings)
	if err != nil {
		return err
	}

	row, err := s.queries.UpdateSchool(ctx, queries.UpdateSchoolParams{
		ID:             school.ID,
		OrganizationID: school.OrganizationID,
		Name:           school.Name,
		Address:        school.Address.Street,
		City:           school.Address.City,
		State:          school.Address.State,
		ZipCode:        school.Address.ZipCode,
		Country:        school.Address.Country,
		Phone:          school.Phone,
		Email:          school.Email,
		Website:        school.Website,
		Description:    school.Description,
		MaxStudents:    toInt32Ptr(school.MaxStudents),
		Timezone:       school.Timezone,
		Settings:       settings,
		IsActive:       school.IsActive,
	})
	if err != nil {
		return translate(err)
	}
	return assignSchool(school, row)
}

func (s *schoolStore) Delete(ctx context.Context, orgID, id int64) error {
	deleted, err := s.queries.DeleteSchool(ctx, orgID, id)
	if err != nil {
		return translate(err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func assignSchool(dst *model.School, row queries.School) error {
	school, err := toSchoolModel(row)
	if err != nil {
		return err
	}
	*dst = *school
	return nil
}

func toSchoolModel(row queries.School) (*model.School, error) {
	school := &model.School{
		ID:             row.ID,
		OrganizationID: row.OrganizationID,
		Name:           row.Name,
		Slug:           row.Slug,
		Address: model.Address{
			Street:  row.Address,
			City:    row.City,
			State:   row.State,
			ZipCode: row.ZipCode,
			Country: row.Country,
		},
		Phone:       row.Phone,
		Email:       row.Email,
		Website:     row.Website,
		Description: row.Description,
		Timezone:    row.Timezone,
		IsActive:    row.IsActive,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if row.MaxStudents != nil {
		n := int(*row.MaxStudents)
		school.MaxStudents = &n
	}
	if err := decodeDocument(row.Settings, &school.Settings); err != nil {
		return nil, err
	}
	return school, nil
}

func toInt32Ptr(v *int) *int32 {
	if v == nil {
		return nil
	}
	n := int32(*v)
	return &n
}
