package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/base"
	"github.com/Freeeeeet/tutor_scheduler/internal/storage"
)

// AvailabilityKey ключ записи доступности: tutorID -> [{day, time}]
const AvailabilityKey = "tutorAvailability"

type AvailabilityRepository struct {
	base     *base.Repository
	defaults map[string][]model.TimeSlot

	mu      sync.RWMutex
	records map[string][]model.TimeSlot
	version int64
	dirty   bool // последняя запись не дошла до хранилища
}

// NewAvailabilityRepository создаёт репозиторий доступности.
// defaults - предзаполненные данные, поверх которых накладываются сохранённые.
func NewAvailabilityRepository(store storage.Store, defaults map[string][]model.TimeSlot) *AvailabilityRepository {
	r := &AvailabilityRepository{
		base:     base.NewRepository(store),
		defaults: copyAvailability(defaults),
	}
	r.records = copyAvailability(r.defaults)
	return r
}

// Load перечитывает запись из хранилища.
// Несохранённые изменения сначала записываются повторно; если запись снова
// не удалась, состояние в памяти не меняется и возвращается ошибка.
func (r *AvailabilityRepository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.dirty {
		if err := r.flushLocked(ctx); err != nil {
			return err
		}
	}

	var stored map[string][]model.TimeSlot
	version, err := r.base.LoadJSON(ctx, AvailabilityKey, &stored)
	if err != nil {
		return persistenceError("load", AvailabilityKey, err)
	}

	records := copyAvailability(r.defaults)
	for tutorID, slots := range stored {
		records[tutorID] = append([]model.TimeSlot(nil), slots...)
	}

	r.records = records
	r.version = version

	return nil
}

// Discard отбрасывает несохранённые изменения; следующий Load возьмёт состояние хранилища
func (r *AvailabilityRepository) Discard() {
	r.mu.Lock()
	r.dirty = false
	r.mu.Unlock()
}

// Get возвращает сохранённые слоты учителя как есть (могут быть многочасовыми)
func (r *AvailabilityRepository) Get(tutorID string) []model.TimeSlot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]model.TimeSlot(nil), r.records[tutorID]...)
}

// Set заменяет слоты одного учителя целиком и сохраняет всю запись.
// Остальные учителя, включая предзаполненных, не затрагиваются.
func (r *AvailabilityRepository) Set(ctx context.Context, tutorID string, slots []model.TimeSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[tutorID] = append([]model.TimeSlot(nil), slots...)

	return r.flushLocked(ctx)
}

// Tutors возвращает отсортированный список учителей
func (r *AvailabilityRepository) Tutors() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tutors := make([]string, 0, len(r.records))
	for tutorID := range r.records {
		tutors = append(tutors, tutorID)
	}
	sort.Strings(tutors)

	return tutors
}

// Flush сохраняет текущее состояние в хранилище
func (r *AvailabilityRepository) Flush(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.flushLocked(ctx)
}

func (r *AvailabilityRepository) flushLocked(ctx context.Context) error {
	version, err := r.base.SaveJSON(ctx, AvailabilityKey, r.records, r.version)
	if err != nil {
		r.dirty = true
		return persistenceError("save", AvailabilityKey, err)
	}
	r.version = version
	r.dirty = false
	return nil
}

func copyAvailability(src map[string][]model.TimeSlot) map[string][]model.TimeSlot {
	dst := make(map[string][]model.TimeSlot, len(src))
	for tutorID, slots := range src {
		dst[tutorID] = append([]model.TimeSlot(nil), slots...)
	}
	return dst
}
