package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
	"github.com/Freeeeeet/tutor_scheduler/internal/schedule"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegistrationService собирает незавершённые заявки студента на классы курсов
type RegistrationService struct {
	registrationRepo *repository.RegistrationRepository
	classRepo        *repository.ClassRepository
	courseRepo       *repository.CourseRepository
	logger           *zap.Logger
	now              func() time.Time
}

func NewRegistrationService(
	registrationRepo *repository.RegistrationRepository,
	classRepo *repository.ClassRepository,
	courseRepo *repository.CourseRepository,
	logger *zap.Logger,
) *RegistrationService {
	return &RegistrationService{
		registrationRepo: registrationRepo,
		classRepo:        classRepo,
		courseRepo:       courseRepo,
		logger:           logger,
		now:              time.Now,
	}
}

// CheckConflict проверяет кандидатские сессии против заявок студента.
// Недействительные заявки не учитываются. excludeKey - ключ редактируемой заявки,
// чтобы она не конфликтовала сама с собой.
func (s *RegistrationService) CheckConflict(studentID string, candidate []model.Session, excludeKey string) *schedule.Conflict {
	var commitments []schedule.Commitment
	for _, item := range s.ListRegistrations(studentID) {
		commitments = append(commitments, schedule.Commitment{
			Key:      item.Key,
			Label:    item.CourseName,
			Sessions: item.Sessions,
		})
	}

	return schedule.CheckConflict(candidate, commitments, excludeKey)
}

// AddRegistration добавляет выбор класса студентом. На курс допускается одна заявка.
func (s *RegistrationService) AddRegistration(ctx context.Context, studentID, classID string) (*model.PendingRegistration, error) {
	if studentID == "" {
		return nil, newValidationError("studentId", "is required")
	}

	class, course, err := s.selectableClass(classID)
	if err != nil {
		return nil, err
	}

	for _, item := range s.ListRegistrations(studentID) {
		if item.CourseID == class.CourseID {
			return nil, newValidationError("courseId", "course %s is already selected, change its class instead", class.CourseID)
		}
	}

	if conflict := s.CheckConflict(studentID, class.Sessions, ""); conflict != nil {
		s.logger.Info("Registration rejected by conflict",
			zap.String("student_id", studentID),
			zap.String("class_id", classID),
			zap.String("conflict_key", conflict.Key),
			zap.String("slot", conflict.Slot.String()))
		return nil, &ConflictError{Conflict: *conflict}
	}

	reg := &model.PendingRegistration{
		Key:        uuid.NewString(),
		StudentID:  studentID,
		CourseID:   course.CourseID,
		CourseName: course.Name,
		ClassID:    class.ClassID,
		TutorName:  class.TutorName,
		Sessions:   class.Sessions,
		CreatedAt:  s.now(),
	}

	err = s.registrationRepo.Create(ctx, reg)
	if err != nil {
		s.logger.Warn("Failed to persist registration, keeping in-memory copy",
			zap.String("student_id", studentID),
			zap.String("key", reg.Key),
			zap.Error(err))
		return reg, err
	}

	s.logger.Info("Registration added",
		zap.String("student_id", studentID),
		zap.String("key", reg.Key),
		zap.String("class_id", classID))

	return reg, nil
}

// ChangeClass переводит заявку на другой класс того же курса
func (s *RegistrationService) ChangeClass(ctx context.Context, studentID, key, classID string) (*model.PendingRegistration, error) {
	reg := s.registrationRepo.Get(studentID, key)
	if reg == nil {
		s.logger.Warn("Registration to change not found",
			zap.String("student_id", studentID),
			zap.String("key", key))
		return nil, ErrRegistrationNotFound
	}

	class, _, err := s.selectableClass(classID)
	if err != nil {
		return nil, err
	}

	if class.CourseID != reg.CourseID {
		return nil, newValidationError("classId", "class %s belongs to course %s, not %s", classID, class.CourseID, reg.CourseID)
	}

	if conflict := s.CheckConflict(studentID, class.Sessions, key); conflict != nil {
		return nil, &ConflictError{Conflict: *conflict}
	}

	reg.ClassID = class.ClassID
	reg.TutorName = class.TutorName
	reg.Sessions = class.Sessions

	err = s.registrationRepo.Replace(ctx, reg)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		s.logger.Warn("Failed to persist registration change, keeping in-memory copy",
			zap.String("student_id", studentID),
			zap.String("key", key),
			zap.Error(err))
		return reg, err
	}

	s.logger.Info("Registration class changed",
		zap.String("student_id", studentID),
		zap.String("key", key),
		zap.String("class_id", classID))

	return reg, nil
}

// RemoveRegistration удаляет заявку
func (s *RegistrationService) RemoveRegistration(ctx context.Context, studentID, key string) error {
	err := s.registrationRepo.Delete(ctx, studentID, key)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("Registration to remove not found",
			zap.String("student_id", studentID),
			zap.String("key", key))
		return ErrRegistrationNotFound
	}
	if err != nil {
		s.logger.Warn("Failed to persist registration removal, keeping in-memory copy",
			zap.String("student_id", studentID),
			zap.Error(err))
		return err
	}

	return nil
}

// ListRegistrations возвращает действующие заявки; заявки на удалённые классы или курсы отбрасываются.
// Сессии и учитель берутся из текущего класса, а не из копии на момент подачи заявки.
func (s *RegistrationService) ListRegistrations(studentID string) []*model.PendingRegistration {
	items := s.registrationRepo.ListByStudent(studentID)
	valid := make([]*model.PendingRegistration, 0, len(items))
	for _, item := range items {
		if current, ok := s.resolve(item); ok {
			valid = append(valid, current)
		}
	}
	return valid
}

// PruneRegistrations удаляет из хранилища недействительные заявки студента
func (s *RegistrationService) PruneRegistrations(ctx context.Context, studentID string) (int, error) {
	var stale []string
	for _, item := range s.registrationRepo.ListByStudent(studentID) {
		if !s.isValid(item) {
			stale = append(stale, item.Key)
		}
	}

	if len(stale) == 0 {
		return 0, nil
	}

	if err := s.registrationRepo.Delete(ctx, studentID, stale...); err != nil {
		s.logger.Warn("Failed to persist pruned registrations, keeping in-memory copy",
			zap.String("student_id", studentID),
			zap.Error(err))
		return len(stale), err
	}

	s.logger.Info("Stale registrations pruned",
		zap.String("student_id", studentID),
		zap.Int("count", len(stale)))

	return len(stale), nil
}

// ClassOptions возвращает классы, на которые можно перевести заявку
func (s *RegistrationService) ClassOptions(studentID, key string) ([]*model.ClassRecord, error) {
	reg := s.registrationRepo.Get(studentID, key)
	if reg == nil {
		return nil, ErrRegistrationNotFound
	}
	if current, ok := s.resolve(reg); ok {
		reg = current
	}
	return s.classRepo.FindByCourseAndTutor(reg.CourseID, reg.TutorName), nil
}

// Students возвращает студентов, у которых есть заявки
func (s *RegistrationService) Students() []string {
	return s.registrationRepo.Students()
}

// Reload перечитывает заявки из хранилища
func (s *RegistrationService) Reload(ctx context.Context) error {
	if err := s.registrationRepo.Load(ctx); err != nil {
		return fmt.Errorf("reload registrations: %w", err)
	}
	return nil
}

// selectableClass возвращает активный класс активного курса
func (s *RegistrationService) selectableClass(classID string) (*model.ClassRecord, *model.Course, error) {
	if classID == "" {
		return nil, nil, newValidationError("classId", "is required")
	}

	class := s.classRepo.GetByID(classID)
	if class == nil {
		return nil, nil, ErrClassNotFound
	}

	if !class.IsActive() {
		return nil, nil, newValidationError("classId", "class %s is %s", classID, class.Status)
	}

	course := s.courseRepo.GetByID(class.CourseID)
	if course == nil || !course.IsActive() {
		return nil, nil, ErrCourseNotFound
	}

	return class, course, nil
}

func (s *RegistrationService) isValid(item *model.PendingRegistration) bool {
	_, ok := s.resolve(item)
	return ok
}

// resolve накладывает на заявку актуальное расписание её класса; false для недействительной заявки
func (s *RegistrationService) resolve(item *model.PendingRegistration) (*model.PendingRegistration, bool) {
	class := s.classRepo.GetByID(item.ClassID)
	if class == nil || class.IsRemoved() {
		return nil, false
	}

	course := s.courseRepo.GetByID(item.CourseID)
	if course == nil || !course.IsActive() {
		return nil, false
	}

	current := item.Clone()
	current.TutorName = class.TutorName
	current.Sessions = class.Sessions
	return current, true
}
