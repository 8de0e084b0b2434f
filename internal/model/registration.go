package model

import "time"

// PendingRegistration binds a student to a class of a course before the
// registration is finalized. A student has at most one per course.
type PendingRegistration struct {
	Key        string    `json:"key"`
	StudentID  string    `json:"studentId"`
	CourseID   string    `json:"courseId"`
	CourseName string    `json:"courseName"`
	ClassID    string    `json:"classId"`
	TutorName  string    `json:"tutorName"`
	Sessions   []Session `json:"sessions"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Clone returns a deep copy of the registration.
func (r *PendingRegistration) Clone() *PendingRegistration {
	cp := *r
	cp.Sessions = append([]Session(nil), r.Sessions...)
	return &cp
}
