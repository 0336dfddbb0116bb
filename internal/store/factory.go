package store

import (
	"dojo.app/platform/core/db/queries"
)

type Stores struct {
	queries *queries.Queries
}

func NewStores(q *queries.Queries) *Stores {
	return &Stores{queries: q}
}

func (s *Stores) Organizations() OrganizationStore {
	return newOrganizationStore(s.queries)
}

func (s *Stores) Schools() SchoolStore {
	return newSchoolStore(s.queries)
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.queries)
}

func (s *Stores) Students() StudentStore {
	return newStudentStore(s.queries)
}

func (s *Stores) Classes() ClassStore {
	return newClassStore(s.queries)
}

func (s *Stores) Attendance() AttendanceStore {
	return newAttendanceStore(s.queries)
}
