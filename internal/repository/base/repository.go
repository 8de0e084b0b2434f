package base

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_scheduler/internal/storage"
	"github.com/goccy/go-json"
)

// Repository базовый репозиторий: JSON-документы поверх key-value хранилища
type Repository struct {
	store storage.Store
}

// NewRepository создаёт новый базовый репозиторий
func NewRepository(store storage.Store) *Repository {
	return &Repository{store: store}
}

// Store возвращает хранилище
func (r *Repository) Store() storage.Store {
	return r.store
}

// LoadJSON читает ключ и декодирует его в dst.
// Возвращает версию документа; 0 означает, что ключа нет и dst не тронут.
func (r *Repository) LoadJSON(ctx context.Context, key string, dst interface{}) (int64, error) {
	entry, err := r.store.Get(ctx, key)
	if err != nil {
		return 0, err
	}

	if entry == nil {
		return 0, nil
	}

	if err := json.Unmarshal(entry.Value, dst); err != nil {
		return 0, fmt.Errorf("decode %s: %w", key, err)
	}

	return entry.Version, nil
}

// SaveJSON кодирует src и записывает его, если версия в хранилище равна version
func (r *Repository) SaveJSON(ctx context.Context, key string, src interface{}, version int64) (int64, error) {
	data, err := json.Marshal(src)
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", key, err)
	}

	return r.store.Set(ctx, key, data, version)
}

// Keys возвращает ключи с префиксом
func (r *Repository) Keys(ctx context.Context, prefix string) ([]string, error) {
	return r.store.List(ctx, prefix)
}

// Delete удаляет ключ
func (r *Repository) Delete(ctx context.Context, key string) error {
	return r.store.Delete(ctx, key)
}
