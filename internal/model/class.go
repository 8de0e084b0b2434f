package model

type ClassStatus string

const (
	ClassStatusActive  ClassStatus = "active"  // Открыт для записи
	ClassStatusLocked  ClassStatus = "locked"  // Закрыт для записи, занятия идут
	ClassStatusRemoved ClassStatus = "removed" // Мягко удалён, хранится для аудита
)

// ClassRecord is a scheduled offering of a course by a tutor.
type ClassRecord struct {
	ClassID          string      `json:"classId" validate:"required"`
	CourseID         string      `json:"courseId" validate:"required"`
	CourseName       string      `json:"courseName"`
	TutorName        string      `json:"tutorName" validate:"required"`
	Language         string      `json:"language"`
	Campus           string      `json:"campus"`
	MaxStudents      int         `json:"maxStudents" validate:"gte=0"`
	EnrolledStudents int         `json:"enrolledStudents" validate:"gte=0"`
	Sessions         []Session   `json:"sessions" validate:"required,min=1,dive"`
	Status           ClassStatus `json:"status"`
}

// IsActive checks if the class accepts new registrations
func (c *ClassRecord) IsActive() bool {
	return c.Status == ClassStatusActive
}

// IsRemoved checks if the class was soft-deleted
func (c *ClassRecord) IsRemoved() bool {
	return c.Status == ClassStatusRemoved
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (c *ClassRecord) Clone() *ClassRecord {
	cp := *c
	cp.Sessions = append([]Session(nil), c.Sessions...)
	return &cp
}

// ClassPatch holds the fields to overwrite on update; nil fields are kept.
type ClassPatch struct {
	CourseID         *string
	CourseName       *string
	TutorName        *string
	Language         *string
	Campus           *string
	MaxStudents      *int
	EnrolledStudents *int
	Sessions         []Session
	Status           *ClassStatus
}

// Apply shallow-merges the patch over a copy of c.
func (p ClassPatch) Apply(c *ClassRecord) *ClassRecord {
	out := c.Clone()
	if p.CourseID != nil {
		out.CourseID = *p.CourseID
	}
	if p.CourseName != nil {
		out.CourseName = *p.CourseName
	}
	if p.TutorName != nil {
		out.TutorName = *p.TutorName
	}
	if p.Language != nil {
		out.Language = *p.Language
	}
	if p.Campus != nil {
		out.Campus = *p.Campus
	}
	if p.MaxStudents != nil {
		out.MaxStudents = *p.MaxStudents
	}
	if p.EnrolledStudents != nil {
		out.EnrolledStudents = *p.EnrolledStudents
	}
	if p.Sessions != nil {
		out.Sessions = append([]Session(nil), p.Sessions...)
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	return out
}
