package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/base"
	"github.com/Freeeeeet/tutor_scheduler/internal/storage"
)

// RegistrationKeyPrefix префикс ключей: pendingRegistrations:<studentID>
const RegistrationKeyPrefix = "pendingRegistrations:"

// RegistrationKey возвращает ключ хранилища для заявок студента
func RegistrationKey(studentID string) string {
	return RegistrationKeyPrefix + studentID
}

// RegistrationRepository хранит незавершённые заявки, по одному ключу на студента
type RegistrationRepository struct {
	base *base.Repository

	mu       sync.RWMutex
	items    map[string][]*model.PendingRegistration // studentID -> заявки
	versions map[string]int64
	dirty    map[string]bool // студенты с несохранёнными изменениями
}

func NewRegistrationRepository(store storage.Store) *RegistrationRepository {
	return &RegistrationRepository{
		base:     base.NewRepository(store),
		items:    make(map[string][]*model.PendingRegistration),
		versions: make(map[string]int64),
		dirty:    make(map[string]bool),
	}
}

// Load перечитывает заявки всех студентов.
// Несохранённые заявки студента сначала записываются повторно; если запись
// снова не удалась, его заявки в памяти сохраняются, а ошибка возвращается
// после загрузки остальных студентов.
func (r *RegistrationRepository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var flushErr error
	for studentID := range r.dirty {
		if err := r.flushLocked(ctx, studentID); err != nil && flushErr == nil {
			flushErr = err
		}
	}

	keys, err := r.base.Keys(ctx, RegistrationKeyPrefix)
	if err != nil {
		return persistenceError("list", RegistrationKeyPrefix, err)
	}

	items := make(map[string][]*model.PendingRegistration, len(keys))
	versions := make(map[string]int64, len(keys))

	for _, key := range keys {
		studentID := strings.TrimPrefix(key, RegistrationKeyPrefix)
		if r.dirty[studentID] {
			continue
		}

		var stored []*model.PendingRegistration
		version, err := r.base.LoadJSON(ctx, key, &stored)
		if err != nil {
			return persistenceError("load", key, err)
		}
		// Ключ мог быть удалён между List и Get
		if version == 0 {
			continue
		}

		kept := make([]*model.PendingRegistration, 0, len(stored))
		for _, item := range stored {
			if item != nil {
				kept = append(kept, item)
			}
		}
		items[studentID] = kept
		versions[studentID] = version
	}

	for studentID := range r.dirty {
		if list, ok := r.items[studentID]; ok {
			items[studentID] = list
		}
		versions[studentID] = r.versions[studentID]
	}

	r.items = items
	r.versions = versions

	return flushErr
}

// Discard отбрасывает несохранённые изменения всех студентов
func (r *RegistrationRepository) Discard() {
	r.mu.Lock()
	r.dirty = make(map[string]bool)
	r.mu.Unlock()
}

// Flush сохраняет заявки всех студентов
func (r *RegistrationRepository) Flush(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	students := make(map[string]bool, len(r.items)+len(r.dirty))
	for studentID := range r.items {
		students[studentID] = true
	}
	for studentID := range r.dirty {
		students[studentID] = true
	}

	for studentID := range students {
		if err := r.flushLocked(ctx, studentID); err != nil {
			return err
		}
	}
	return nil
}

func (r *RegistrationRepository) flushLocked(ctx context.Context, studentID string) error {
	key := RegistrationKey(studentID)

	if len(r.items[studentID]) == 0 {
		delete(r.items, studentID)
		delete(r.versions, studentID)
		if err := r.base.Delete(ctx, key); err != nil {
			r.dirty[studentID] = true
			return persistenceError("delete", key, err)
		}
		delete(r.dirty, studentID)
		return nil
	}

	version, err := r.base.SaveJSON(ctx, key, r.items[studentID], r.versions[studentID])
	if err != nil {
		r.dirty[studentID] = true
		return persistenceError("save", key, err)
	}
	r.versions[studentID] = version
	delete(r.dirty, studentID)
	return nil
}

// ListByStudent возвращает копию заявок студента в порядке добавления
func (r *RegistrationRepository) ListByStudent(studentID string) []*model.PendingRegistration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.items[studentID]
	out := make([]*model.PendingRegistration, 0, len(items))
	for _, item := range items {
		out = append(out, item.Clone())
	}
	return out
}

// Get получает заявку по ключу, nil если не найдена
func (r *RegistrationRepository) Get(studentID, key string) *model.PendingRegistration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexLocked(studentID, key); i >= 0 {
		return r.items[studentID][i].Clone()
	}
	return nil
}

// Create добавляет заявку студента
func (r *RegistrationRepository) Create(ctx context.Context, reg *model.PendingRegistration) error {
	if reg.StudentID == "" || reg.Key == "" {
		return fmt.Errorf("registration requires student id and key")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexLocked(reg.StudentID, reg.Key) >= 0 {
		return ErrAlreadyExists
	}

	r.items[reg.StudentID] = append(r.items[reg.StudentID], reg.Clone())

	return r.flushLocked(ctx, reg.StudentID)
}

// Replace заменяет заявку с тем же ключом
func (r *RegistrationRepository) Replace(ctx context.Context, reg *model.PendingRegistration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(reg.StudentID, reg.Key)
	if i < 0 {
		return ErrNotFound
	}

	r.items[reg.StudentID][i] = reg.Clone()

	return r.flushLocked(ctx, reg.StudentID)
}

// Delete удаляет заявки студента по ключам. Отсутствующие ключи пропускаются,
// если не найдено ни одного - ErrNotFound.
func (r *RegistrationRepository) Delete(ctx context.Context, studentID string, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	drop := make(map[string]bool, len(keys))
	for _, key := range keys {
		drop[key] = true
	}

	items := r.items[studentID]
	kept := make([]*model.PendingRegistration, 0, len(items))
	for _, item := range items {
		if !drop[item.Key] {
			kept = append(kept, item)
		}
	}

	if len(kept) == len(items) {
		return ErrNotFound
	}

	r.items[studentID] = kept

	return r.flushLocked(ctx, studentID)
}

// Students возвращает отсортированный список студентов с заявками
func (r *RegistrationRepository) Students() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	students := make([]string, 0, len(r.items))
	for studentID := range r.items {
		students = append(students, studentID)
	}
	sort.Strings(students)

	return students
}

func (r *RegistrationRepository) indexLocked(studentID, key string) int {
	for i, item := range r.items[studentID] {
		if item.Key == key {
			return i
		}
	}
	return -1
}
