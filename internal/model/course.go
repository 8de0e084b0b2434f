package model

type CourseStatus string

const (
	CourseStatusActive  CourseStatus = "active"
	CourseStatusRemoved CourseStatus = "removed"
)

// Course describes a course that classes are scheduled for.
type Course struct {
	CourseID string       `json:"courseId" validate:"required"`
	Name     string       `json:"name" validate:"required"`
	Language string       `json:"language"`
	Campus   string       `json:"campus"`
	Status   CourseStatus `json:"status"`
}

// IsActive checks if the course can receive new classes and registrations
func (c *Course) IsActive() bool {
	return c.Status == CourseStatusActive
}
