package queue

type TaskType string

const (
	TaskTypeWelcome TaskType = "welcome"
)

// Task is the payload of one stream entry.
type Task struct {
	TaskType       TaskType
	OrganizationID int64
	SchoolID       int64
	UserID         int64
	Email          string
	TraceID        *string
	Attempt        int
}
