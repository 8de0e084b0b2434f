package repository

import (
	"context"
	"sync"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/base"
	"github.com/Freeeeeet/tutor_scheduler/internal/storage"
)

// ClassesKey ключ списка классов
const ClassesKey = "classes"

type ClassRepository struct {
	base *base.Repository

	mu      sync.RWMutex
	classes []*model.ClassRecord
	version int64
	dirty   bool
}

func NewClassRepository(store storage.Store) *ClassRepository {
	return &ClassRepository{base: base.NewRepository(store)}
}

// Load перечитывает список классов из хранилища.
// Несохранённые изменения сначала записываются повторно, при ошибке список не меняется.
func (r *ClassRepository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.dirty {
		if err := r.flushLocked(ctx); err != nil {
			return err
		}
	}

	var stored []*model.ClassRecord
	version, err := r.base.LoadJSON(ctx, ClassesKey, &stored)
	if err != nil {
		return persistenceError("load", ClassesKey, err)
	}

	classes := make([]*model.ClassRecord, 0, len(stored))
	for _, class := range stored {
		// null в документе
		if class != nil {
			classes = append(classes, class)
		}
	}

	r.classes = classes
	r.version = version

	return nil
}

// Discard отбрасывает несохранённые изменения; следующий Load возьмёт состояние хранилища
func (r *ClassRepository) Discard() {
	r.mu.Lock()
	r.dirty = false
	r.mu.Unlock()
}

// Flush сохраняет текущий список классов
func (r *ClassRepository) Flush(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.flushLocked(ctx)
}

func (r *ClassRepository) flushLocked(ctx context.Context) error {
	classes := r.classes
	if classes == nil {
		classes = []*model.ClassRecord{}
	}

	version, err := r.base.SaveJSON(ctx, ClassesKey, classes, r.version)
	if err != nil {
		r.dirty = true
		return persistenceError("save", ClassesKey, err)
	}
	r.version = version
	r.dirty = false
	return nil
}

// Create добавляет класс. ID должен быть уникальным.
func (r *ClassRepository) Create(ctx context.Context, class *model.ClassRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexLocked(class.ClassID) >= 0 {
		return ErrAlreadyExists
	}

	r.classes = append(r.classes, class.Clone())

	return r.flushLocked(ctx)
}

// GetByID получает класс по ID, nil если не найден
func (r *ClassRepository) GetByID(classID string) *model.ClassRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexLocked(classID); i >= 0 {
		return r.classes[i].Clone()
	}
	return nil
}

// Update накладывает patch на класс и возвращает результат
func (r *ClassRepository) Update(ctx context.Context, classID string, patch model.ClassPatch) (*model.ClassRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(classID)
	if i < 0 {
		return nil, ErrNotFound
	}

	updated := patch.Apply(r.classes[i])
	r.classes[i] = updated

	return updated.Clone(), r.flushLocked(ctx)
}

// Delete удаляет класс без возможности восстановления
func (r *ClassRepository) Delete(ctx context.Context, classID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(classID)
	if i < 0 {
		return ErrNotFound
	}

	r.classes = append(r.classes[:i], r.classes[i+1:]...)

	return r.flushLocked(ctx)
}

// List возвращает копию всех классов
func (r *ClassRepository) List() []*model.ClassRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneClasses(r.classes, func(*model.ClassRecord) bool { return true })
}

// GetByTutor возвращает классы учителя в любом статусе
func (r *ClassRepository) GetByTutor(tutorName string) []*model.ClassRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneClasses(r.classes, func(c *model.ClassRecord) bool {
		return c.TutorName == tutorName
	})
}

// FindByCourseAndTutor возвращает активные классы курса у учителя
func (r *ClassRepository) FindByCourseAndTutor(courseID, tutorName string) []*model.ClassRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneClasses(r.classes, func(c *model.ClassRecord) bool {
		return c.IsActive() && c.CourseID == courseID && c.TutorName == tutorName
	})
}

func (r *ClassRepository) indexLocked(classID string) int {
	for i, c := range r.classes {
		if c.ClassID == classID {
			return i
		}
	}
	return -1
}

func cloneClasses(classes []*model.ClassRecord, keep func(*model.ClassRecord) bool) []*model.ClassRecord {
	out := make([]*model.ClassRecord, 0, len(classes))
	for _, c := range classes {
		if keep(c) {
			out = append(out, c.Clone())
		}
	}
	return out
}
