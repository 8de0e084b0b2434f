package repository

import (
	"context"
	"sync"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/base"
	"github.com/Freeeeeet/tutor_scheduler/internal/storage"
)

// CoursesKey ключ списка курсов
const CoursesKey = "courses"

type CourseRepository struct {
	base *base.Repository

	mu      sync.RWMutex
	courses []model.Course
	version int64
	dirty   bool
}

func NewCourseRepository(store storage.Store) *CourseRepository {
	return &CourseRepository{base: base.NewRepository(store)}
}

// Load перечитывает список курсов, предварительно дописав несохранённые изменения
func (r *CourseRepository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.dirty {
		if err := r.flushLocked(ctx); err != nil {
			return err
		}
	}

	var stored []model.Course
	version, err := r.base.LoadJSON(ctx, CoursesKey, &stored)
	if err != nil {
		return persistenceError("load", CoursesKey, err)
	}

	r.courses = stored
	r.version = version

	return nil
}

// Discard отбрасывает несохранённые изменения
func (r *CourseRepository) Discard() {
	r.mu.Lock()
	r.dirty = false
	r.mu.Unlock()
}

// Flush сохраняет список курсов
func (r *CourseRepository) Flush(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.flushLocked(ctx)
}

func (r *CourseRepository) flushLocked(ctx context.Context) error {
	courses := r.courses
	if courses == nil {
		courses = []model.Course{}
	}

	version, err := r.base.SaveJSON(ctx, CoursesKey, courses, r.version)
	if err != nil {
		r.dirty = true
		return persistenceError("save", CoursesKey, err)
	}
	r.version = version
	r.dirty = false
	return nil
}

// Create добавляет курс
func (r *CourseRepository) Create(ctx context.Context, course model.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexLocked(course.CourseID) >= 0 {
		return ErrAlreadyExists
	}

	r.courses = append(r.courses, course)

	return r.flushLocked(ctx)
}

// GetByID получает курс по ID, nil если не найден
func (r *CourseRepository) GetByID(courseID string) *model.Course {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexLocked(courseID); i >= 0 {
		course := r.courses[i]
		return &course
	}
	return nil
}

// UpdateStatus меняет статус курса
func (r *CourseRepository) UpdateStatus(ctx context.Context, courseID string, status model.CourseStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(courseID)
	if i < 0 {
		return ErrNotFound
	}

	r.courses[i].Status = status

	return r.flushLocked(ctx)
}

// List возвращает копию всех курсов
func (r *CourseRepository) List() []model.Course {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]model.Course(nil), r.courses...)
}

func (r *CourseRepository) indexLocked(courseID string) int {
	for i, c := range r.courses {
		if c.CourseID == courseID {
			return i
		}
	}
	return -1
}
