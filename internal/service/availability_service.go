package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
	"github.com/Freeeeeet/tutor_scheduler/internal/schedule"
	"go.uber.org/zap"
)

type AvailabilityService struct {
	availabilityRepo *repository.AvailabilityRepository
	classRepo        *repository.ClassRepository
	logger           *zap.Logger
}

func NewAvailabilityService(
	availabilityRepo *repository.AvailabilityRepository,
	classRepo *repository.ClassRepository,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		availabilityRepo: availabilityRepo,
		classRepo:        classRepo,
		logger:           logger,
	}
}

// AllSlots возвращает каталог всех бронируемых слотов
func (s *AvailabilityService) AllSlots() []model.TimeSlot {
	return schedule.AllSlots()
}

// GetAvailability возвращает часовые слоты каталога, в которые учитель свободен.
// Сохранённые многочасовые диапазоны раскладываются по часам.
func (s *AvailabilityService) GetAvailability(tutorID string) []model.TimeSlot {
	return s.availabilitySet(tutorID).Sorted()
}

func (s *AvailabilityService) availabilitySet(tutorID string) schedule.SlotSet {
	ranges := s.availabilityRepo.Get(tutorID)
	set := schedule.NewSlotSet()
	if len(ranges) == 0 {
		return set
	}

	for _, slot := range schedule.AllSlots() {
		if schedule.AvailableIn(slot, ranges) {
			set.Add(slot)
		}
	}
	return set
}

// SetAvailability заменяет доступность учителя целиком.
// Ошибка хранилища логируется и возвращается, но новое значение уже действует в памяти.
func (s *AvailabilityService) SetAvailability(ctx context.Context, tutorID string, slots []model.TimeSlot) error {
	if tutorID == "" {
		return newValidationError("tutorId", "is required")
	}

	set := schedule.NewSlotSet()
	for _, slot := range slots {
		if !schedule.InCatalog(slot) {
			return newValidationError("slots", "%s is not a bookable slot", slot)
		}
		set.Add(slot)
	}

	err := s.availabilityRepo.Set(ctx, tutorID, set.Sorted())
	if err != nil {
		s.logger.Warn("Failed to persist availability, keeping in-memory copy",
			zap.String("tutor_id", tutorID),
			zap.Error(err))
		return err
	}

	s.logger.Info("Availability saved",
		zap.String("tutor_id", tutorID),
		zap.Int("slots", len(set)))

	return nil
}

// GetBookedSlots возвращает часовые слоты, занятые классами учителя (кроме удалённых)
func (s *AvailabilityService) GetBookedSlots(tutorID string) []model.TimeSlot {
	return s.bookedSet(tutorID).Sorted()
}

func (s *AvailabilityService) bookedSet(tutorID string) schedule.SlotSet {
	set := schedule.NewSlotSet()
	for _, class := range s.classRepo.GetByTutor(tutorID) {
		if class.IsRemoved() {
			continue
		}
		for _, slot := range schedule.ExpandSessions(class.Sessions) {
			set.Add(slot)
		}
	}
	return set
}

// GetCreatableSlots возвращает свободные и ещё не занятые слоты - их предлагают при создании класса
func (s *AvailabilityService) GetCreatableSlots(tutorID string) []model.TimeSlot {
	return s.availabilitySet(tutorID).Minus(s.bookedSet(tutorID)).Sorted()
}

// CheckWithinAvailability проверяет, что все часы сессий входят в доступность учителя
func (s *AvailabilityService) CheckWithinAvailability(tutorID string, sessions []model.Session) error {
	available := s.availabilitySet(tutorID)
	for _, slot := range schedule.ExpandSessions(sessions) {
		if !available.Has(slot) {
			return newValidationError("sessions", "tutor %s is not available at %s", tutorID, slot)
		}
	}
	return nil
}

// Tutors возвращает учителей, у которых есть запись доступности
func (s *AvailabilityService) Tutors() []string {
	return s.availabilityRepo.Tutors()
}

// Reload перечитывает доступность из хранилища
func (s *AvailabilityService) Reload(ctx context.Context) error {
	if err := s.availabilityRepo.Load(ctx); err != nil {
		return fmt.Errorf("reload availability: %w", err)
	}
	return nil
}
