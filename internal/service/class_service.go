package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
	"github.com/Freeeeeet/tutor_scheduler/internal/schedule"
	"go.uber.org/zap"
)

type ClassService struct {
	classRepo           *repository.ClassRepository
	courseRepo          *repository.CourseRepository
	availabilityService *AvailabilityService
	logger              *zap.Logger
}

func NewClassService(
	classRepo *repository.ClassRepository,
	courseRepo *repository.CourseRepository,
	availabilityService *AvailabilityService,
	logger *zap.Logger,
) *ClassService {
	return &ClassService{
		classRepo:           classRepo,
		courseRepo:          courseRepo,
		availabilityService: availabilityService,
		logger:              logger,
	}
}

// CreateClass создаёт класс. Сессии проверяются на доступность учителя и
// пересечения с его другими классами, затем склеиваются.
func (s *ClassService) CreateClass(ctx context.Context, record model.ClassRecord) (*model.ClassRecord, error) {
	record.ClassID = strings.TrimSpace(record.ClassID)
	if record.Status == "" {
		record.Status = model.ClassStatusActive
	}

	if err := s.validateClass(&record, true); err != nil {
		return nil, err
	}

	if s.classRepo.GetByID(record.ClassID) != nil {
		return nil, newValidationError("classId", "class %s already exists", record.ClassID)
	}

	if err := s.checkSchedule(&record, ""); err != nil {
		s.logger.Info("Class rejected",
			zap.String("class_id", record.ClassID),
			zap.String("tutor", record.TutorName),
			zap.Error(err))
		return nil, err
	}

	record.Sessions = schedule.MergeSessions(record.Sessions)

	err := s.classRepo.Create(ctx, &record)
	if errors.Is(err, repository.ErrAlreadyExists) {
		return nil, newValidationError("classId", "class %s already exists", record.ClassID)
	}
	if err != nil {
		s.logger.Warn("Failed to persist class, keeping in-memory copy",
			zap.String("class_id", record.ClassID),
			zap.Error(err))
		return record.Clone(), err
	}

	s.logger.Info("Class created",
		zap.String("class_id", record.ClassID),
		zap.String("course_id", record.CourseID),
		zap.String("tutor", record.TutorName),
		zap.Int("sessions", len(record.Sessions)))

	return record.Clone(), nil
}

// UpdateClass накладывает patch на класс. Неизвестный ID - ErrClassNotFound без изменений.
func (s *ClassService) UpdateClass(ctx context.Context, classID string, patch model.ClassPatch) (*model.ClassRecord, error) {
	existing := s.classRepo.GetByID(classID)
	if existing == nil {
		s.logger.Warn("Class to update not found", zap.String("class_id", classID))
		return nil, ErrClassNotFound
	}

	candidate := patch.Apply(existing)
	if err := s.validateClass(candidate, patch.CourseID != nil); err != nil {
		return nil, err
	}

	// Название курса следует за сменой курса, если его не задали явно
	if patch.CourseID != nil && patch.CourseName == nil && candidate.CourseID != existing.CourseID {
		course := s.courseRepo.GetByID(candidate.CourseID)
		candidate.CourseName = course.Name
		patch.CourseName = &course.Name
	}

	scheduleChanged := patch.Sessions != nil ||
		candidate.TutorName != existing.TutorName ||
		(existing.IsRemoved() && !candidate.IsRemoved())
	if scheduleChanged && !candidate.IsRemoved() {
		if err := s.checkSchedule(candidate, classID); err != nil {
			s.logger.Info("Class update rejected",
				zap.String("class_id", classID),
				zap.Error(err))
			return nil, err
		}
	}

	if patch.Sessions != nil {
		patch.Sessions = schedule.MergeSessions(candidate.Sessions)
	}

	updated, err := s.classRepo.Update(ctx, classID, patch)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		s.logger.Warn("Failed to persist class update, keeping in-memory copy",
			zap.String("class_id", classID),
			zap.Error(err))
		return updated, err
	}

	s.logger.Info("Class updated",
		zap.String("class_id", classID),
		zap.String("status", string(updated.Status)))

	return updated, nil
}

// RemoveClass удаляет класс окончательно, его слоты снова становятся свободными
func (s *ClassService) RemoveClass(ctx context.Context, classID string) error {
	err := s.classRepo.Delete(ctx, classID)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("Class to remove not found", zap.String("class_id", classID))
		return ErrClassNotFound
	}
	if err != nil {
		s.logger.Warn("Failed to persist class removal, keeping in-memory copy",
			zap.String("class_id", classID),
			zap.Error(err))
		return err
	}

	s.logger.Info("Class removed", zap.String("class_id", classID))
	return nil
}

// SoftDeleteClass помечает класс удалённым, запись остаётся для аудита
func (s *ClassService) SoftDeleteClass(ctx context.Context, classID string) error {
	return s.setStatus(ctx, classID, model.ClassStatusRemoved)
}

// LockClass закрывает класс для новых заявок
func (s *ClassService) LockClass(ctx context.Context, classID string) error {
	return s.setStatus(ctx, classID, model.ClassStatusLocked)
}

// UnlockClass снова открывает закрытый класс
func (s *ClassService) UnlockClass(ctx context.Context, classID string) error {
	existing := s.classRepo.GetByID(classID)
	if existing == nil {
		s.logger.Warn("Class to unlock not found", zap.String("class_id", classID))
		return ErrClassNotFound
	}

	if existing.Status != model.ClassStatusLocked {
		return newValidationError("status", "class %s is %s, not locked", classID, existing.Status)
	}

	return s.setStatus(ctx, classID, model.ClassStatusActive)
}

func (s *ClassService) setStatus(ctx context.Context, classID string, status model.ClassStatus) error {
	_, err := s.UpdateClass(ctx, classID, model.ClassPatch{Status: &status})
	return err
}

// GetClass получает класс по ID
func (s *ClassService) GetClass(classID string) (*model.ClassRecord, error) {
	class := s.classRepo.GetByID(classID)
	if class == nil {
		return nil, ErrClassNotFound
	}
	return class, nil
}

// ListClasses возвращает копию всех классов
func (s *ClassService) ListClasses() []*model.ClassRecord {
	return s.classRepo.List()
}

// FindByCourseAndTutor возвращает активные классы для выбора при редактировании заявки
func (s *ClassService) FindByCourseAndTutor(courseID, tutorName string) []*model.ClassRecord {
	return s.classRepo.FindByCourseAndTutor(courseID, tutorName)
}

// Reload перечитывает классы из хранилища
func (s *ClassService) Reload(ctx context.Context) error {
	if err := s.classRepo.Load(ctx); err != nil {
		return fmt.Errorf("reload classes: %w", err)
	}
	return nil
}

// validateClass проверяет обязательные поля и сессии; курс - только если checkCourse
func (s *ClassService) validateClass(record *model.ClassRecord, checkCourse bool) error {
	if err := validateStruct(record); err != nil {
		return err
	}

	switch record.Status {
	case model.ClassStatusActive, model.ClassStatusLocked, model.ClassStatusRemoved:
	default:
		return newValidationError("status", "unknown status %q", record.Status)
	}

	if err := validateSessions(record.Sessions); err != nil {
		return err
	}

	if !checkCourse {
		return nil
	}

	course := s.courseRepo.GetByID(record.CourseID)
	if course == nil || !course.IsActive() {
		return newValidationError("courseId", "course %s does not exist", record.CourseID)
	}
	if record.CourseName == "" {
		record.CourseName = course.Name
	}

	return nil
}

// checkSchedule проверяет доступность учителя и пересечения с его классами, кроме excludeID
func (s *ClassService) checkSchedule(record *model.ClassRecord, excludeID string) error {
	if err := s.availabilityService.CheckWithinAvailability(record.TutorName, record.Sessions); err != nil {
		return err
	}

	var commitments []schedule.Commitment
	for _, class := range s.classRepo.GetByTutor(record.TutorName) {
		if class.IsRemoved() {
			continue
		}
		label := class.CourseName
		if label == "" {
			label = class.ClassID
		}
		commitments = append(commitments, schedule.Commitment{
			Key:      class.ClassID,
			Label:    label,
			Sessions: class.Sessions,
		})
	}

	if conflict := schedule.CheckConflict(record.Sessions, commitments, excludeID); conflict != nil {
		return &ConflictError{Conflict: *conflict}
	}

	return nil
}

// validateSessions проверяет день, время и аудиторию каждой сессии и отсутствие наложений между ними
func validateSessions(sessions []model.Session) error {
	if len(sessions) == 0 {
		return newValidationError("sessions", "at least one session is required")
	}

	seen := schedule.NewSlotSet()
	for i, session := range sessions {
		field := fmt.Sprintf("sessions[%d]", i)

		if !session.Day.IsValid() {
			return newValidationError(field+".day", "unknown day %q", session.Day)
		}
		if strings.TrimSpace(session.Room) == "" {
			return newValidationError(field+".room", "is required")
		}
		if !session.Hours.IsValid() {
			return newValidationError(field+".time", "invalid time range")
		}

		for _, slot := range schedule.ExpandSession(session) {
			if !schedule.InCatalog(slot) {
				return newValidationError(field+".time", "%s is outside bookable hours", slot)
			}
			if seen.Has(slot) {
				return newValidationError(field+".time", "%s is listed twice", slot)
			}
			seen.Add(slot)
		}
	}

	return nil
}
