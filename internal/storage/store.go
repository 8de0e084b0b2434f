package storage

import (
	"context"
	"errors"
)

// AnyVersion отключает проверку версии при записи
const AnyVersion int64 = -1

var (
	// ErrVersionConflict ключ изменён другим писателем с момента чтения
	ErrVersionConflict = errors.New("version conflict")
	// ErrClosed хранилище уже закрыто
	ErrClosed = errors.New("store closed")
)

// Entry значение ключа вместе с его версией
type Entry struct {
	Key     string
	Value   []byte
	Version int64
}

// Store key-value хранилище с оптимистичной блокировкой.
//
// Set с expectedVersion == 0 требует, чтобы ключа не существовало,
// с AnyVersion пишет безусловно, иначе версия должна совпадать с хранимой.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// Notifier сообщает ключи, изменённые любым писателем
type Notifier interface {
	Subscribe(ctx context.Context) (<-chan string, error)
}
