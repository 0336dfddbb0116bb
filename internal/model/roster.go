package model

import (
	"fmt"
	"math"
	"time"
)

// DefaultBeltRank is assigned to students enrolled without a rank.
const DefaultBeltRank = "white"

type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "active"
	StudentStatusInactive  StudentStatus = "inactive"
	StudentStatusSuspended StudentStatus = "suspended"
	StudentStatusGraduated StudentStatus = "graduated"
)

type TuitionStatus string

const (
	TuitionStatusPaid    TuitionStatus = "paid"
	TuitionStatusPending TuitionStatus = "pending"
	TuitionStatusOverdue TuitionStatus = "overdue"
)

type ClassStatus string

const (
	ClassStatusActive    ClassStatus = "active"
	ClassStatusCancelled ClassStatus = "cancelled"
	ClassStatusCompleted ClassStatus = "completed"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

func (s AttendanceStatus) IsValid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

// Attended counts late arrivals as attendance.
func (s AttendanceStatus) Attended() bool {
	return s == AttendancePresent || s == AttendanceLate
}

// Student is the enrollment profile of a user with the student role.
// StudentCode is the dojo-issued membership number, unique across the platform.
type Student struct {
	ID              int64         `json:"id"`
	UserID          int64         `json:"user_id"`
	OrganizationID  int64         `json:"organization_id"`
	SchoolID        int64         `json:"school_id"`
	StudentCode     string        `json:"student_code"`
	BeltRank        string        `json:"belt_rank"`
	RankDate        *time.Time    `json:"rank_date,omitempty"`
	JoinDate        time.Time     `json:"join_date"`
	Status          StudentStatus `json:"status"`
	ParentIDs       []int64       `json:"parent_ids,omitempty"`
	Notes           *string       `json:"notes,omitempty"`
	Achievements    []Achievement `json:"achievements,omitempty"`
	AttendanceRate  *float64      `json:"attendance_rate,omitempty"`
	LastAttendance  *time.Time    `json:"last_attendance,omitempty"`
	NextGradingDate *time.Time    `json:"next_grading_date,omitempty"`
	TuitionStatus   TuitionStatus `json:"tuition_status"`
	TuitionDueDate  *time.Time    `json:"tuition_due_date,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type Achievement struct {
	Title     string    `json:"title"`
	AwardedAt time.Time `json:"awardedAt"`
}

type StudentInput struct {
	UserID          int64
	SchoolID        int64
	StudentCode     string
	BeltRank        string
	JoinDate        time.Time
	ParentIDs       []int64
	Notes           *string
	NextGradingDate *time.Time
	TuitionDueDate  *time.Time
}

type Class struct {
	ID                     int64        `json:"id"`
	OrganizationID         int64        `json:"organization_id"`
	SchoolID               int64        `json:"school_id"`
	Name                   string       `json:"name"`
	Description            *string      `json:"description,omitempty"`
	InstructorID           int64        `json:"instructor_id"`
	AssistantInstructorIDs []int64      `json:"assistant_instructor_ids,omitempty"`
	DayOfWeek              time.Weekday `json:"day_of_week"`
	StartTime              string       `json:"start_time"`
	EndTime                string       `json:"end_time"`
	DurationMinutes        int          `json:"duration"`
	MaxStudents            int          `json:"max_students"`
	CurrentStudents        int          `json:"current_students"`
	BeltLevels             []string     `json:"belt_levels,omitempty"`
	AgeGroups              []string     `json:"age_groups,omitempty"`
	Location               *string      `json:"location,omitempty"`
	IsRecurring            bool         `json:"is_recurring"`
	StartDate              time.Time    `json:"start_date"`
	EndDate                *time.Time   `json:"end_date,omitempty"`
	Status                 ClassStatus  `json:"status"`
	CreatedAt              time.Time    `json:"created_at"`
	UpdatedAt              time.Time    `json:"updated_at"`
}

type ClassInput struct {
	SchoolID               int64
	Name                   string
	Description            *string
	InstructorID           int64
	AssistantInstructorIDs []int64
	DayOfWeek              time.Weekday
	StartTime              string
	EndTime                string
	MaxStudents            int
	BeltLevels             []string
	AgeGroups              []string
	Location               *string
	IsRecurring            bool
	StartDate              time.Time
	EndDate                *time.Time
}

// Attendance is one student's mark for one class session. A (class, student,
// date) triple has at most one record; re-marking replaces it.
type Attendance struct {
	ID             int64            `json:"id"`
	OrganizationID int64            `json:"organization_id"`
	SchoolID       int64            `json:"school_id"`
	ClassID        int64            `json:"class_id"`
	StudentID      int64            `json:"student_id"`
	Date           time.Time        `json:"date"`
	Status         AttendanceStatus `json:"status"`
	CheckInTime    *time.Time       `json:"check_in_time,omitempty"`
	CheckOutTime   *time.Time       `json:"check_out_time,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
	MarkedBy       *int64           `json:"marked_by,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

type AttendanceInput struct {
	ClassID      int64
	StudentID    int64
	Date         time.Time
	Status       AttendanceStatus
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	Notes        *string
	MarkedBy     *int64
}

// AttendanceSummary aggregates a student's attendance records.
type AttendanceSummary struct {
	Total          int64
	Attended       int64
	LastAttendance *time.Time
}

// Rate is the attended share in percent, rounded to one decimal.
func (s AttendanceSummary) Rate() float64 {
	if s.Total == 0 {
		return 0
	}
	return math.Round(float64(s.Attended)/float64(s.Total)*1000) / 10
}

// SessionDate drops the time of day so one session maps to one calendar date.
func SessionDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ClassDuration parses "HH:MM" start and end times and returns the length in
// minutes. Classes never span midnight.
func ClassDuration(start, end string) (int, error) {
	s, err := time.Parse("15:04", start)
	if err != nil {
		return 0, fmt.Errorf("start time %q: want HH:MM", start)
	}
	e, err := time.Parse("15:04", end)
	if err != nil {
		return 0, fmt.Errorf("end time %q: want HH:MM", end)
	}
	if !e.After(s) {
		return 0, fmt.Errorf("end time %s must be after start time %s", end, start)
	}
	return int(e.Sub(s) / time.Minute), nil
}

// AllowsStudents reports whether an organization with current active students
// may enroll one more.
func (s OrganizationSettings) AllowsStudents(current int64) bool {
	if s.AllowedStudents == Unlimited {
		return true
	}
	return current < int64(s.AllowedStudents)
}

// CanOperate reports whether the organization may record day-to-day activity.
func (o *Organization) CanOperate() bool {
	return o.IsActive && o.SubscriptionStatus == SubscriptionStatusActive
}
