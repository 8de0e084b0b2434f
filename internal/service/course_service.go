package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
	"go.uber.org/zap"
)

type CourseService struct {
	courseRepo *repository.CourseRepository
	logger     *zap.Logger
}

func NewCourseService(courseRepo *repository.CourseRepository, logger *zap.Logger) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		logger:     logger,
	}
}

// AddCourse создаёт курс
func (s *CourseService) AddCourse(ctx context.Context, course model.Course) (*model.Course, error) {
	if course.Status == "" {
		course.Status = model.CourseStatusActive
	}

	if err := validateStruct(course); err != nil {
		return nil, err
	}

	err := s.courseRepo.Create(ctx, course)
	if errors.Is(err, repository.ErrAlreadyExists) {
		return nil, newValidationError("courseId", "course %s already exists", course.CourseID)
	}
	if err != nil {
		s.logger.Warn("Failed to persist course, keeping in-memory copy",
			zap.String("course_id", course.CourseID),
			zap.Error(err))
		return &course, err
	}

	s.logger.Info("Course created",
		zap.String("course_id", course.CourseID),
		zap.String("name", course.Name))

	return &course, nil
}

// GetCourse получает курс по ID
func (s *CourseService) GetCourse(courseID string) (*model.Course, error) {
	course := s.courseRepo.GetByID(courseID)
	if course == nil {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

// ListCourses возвращает все курсы
func (s *CourseService) ListCourses() []model.Course {
	return s.courseRepo.List()
}

// RemoveCourse помечает курс удалённым; заявки на его классы становятся недействительными
func (s *CourseService) RemoveCourse(ctx context.Context, courseID string) error {
	err := s.courseRepo.UpdateStatus(ctx, courseID, model.CourseStatusRemoved)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("Course to remove not found", zap.String("course_id", courseID))
		return ErrCourseNotFound
	}
	if err != nil {
		s.logger.Warn("Failed to persist course removal, keeping in-memory copy",
			zap.String("course_id", courseID),
			zap.Error(err))
		return err
	}

	s.logger.Info("Course removed", zap.String("course_id", courseID))
	return nil
}

// Reload перечитывает курсы из хранилища
func (s *CourseService) Reload(ctx context.Context) error {
	if err := s.courseRepo.Load(ctx); err != nil {
		return fmt.Errorf("reload courses: %w", err)
	}
	return nil
}
