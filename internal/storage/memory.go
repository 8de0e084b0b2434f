package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore хранилище в памяти процесса. Безопасно для конкурентного использования.
type MemoryStore struct {
	mu          sync.RWMutex
	entries     map[string]*Entry
	subscribers []chan string
	closed      bool
}

// NewMemoryStore создаёт пустое хранилище в памяти
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*Entry),
	}
}

// Get получает значение по ключу
func (m *MemoryStore) Get(ctx context.Context, key string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}

	entry, ok := m.entries[key]
	if !ok {
		return nil, nil
	}

	// Возвращаем копию, чтобы избежать race condition
	return &Entry{
		Key:     entry.Key,
		Value:   append([]byte(nil), entry.Value...),
		Version: entry.Version,
	}, nil
}

// Set записывает значение с проверкой версии
func (m *MemoryStore) Set(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrClosed
	}

	var current int64
	if entry, ok := m.entries[key]; ok {
		current = entry.Version
	}

	if expectedVersion != AnyVersion && expectedVersion != current {
		return 0, ErrVersionConflict
	}

	next := current + 1
	m.entries[key] = &Entry{
		Key:     key,
		Value:   append([]byte(nil), value...),
		Version: next,
	}
	m.notify(key)

	return next, nil
}

// List возвращает отсортированные ключи с заданным префиксом
func (m *MemoryStore) List(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}

	var keys []string
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	return keys, nil
}

// Delete удаляет ключ. Отсутствующий ключ не считается ошибкой.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if _, ok := m.entries[key]; ok {
		delete(m.entries, key)
		m.notify(key)
	}
	return nil
}

// Subscribe подписывается на изменения ключей. Канал закрывается при отмене ctx.
func (m *MemoryStore) Subscribe(ctx context.Context) (<-chan string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	ch := make(chan string, 16)
	m.subscribers = append(m.subscribers, ch)

	go func() {
		<-ctx.Done()
		m.unsubscribe(ch)
	}()

	return ch, nil
}

func (m *MemoryStore) unsubscribe(ch chan string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}

// notify вызывается под m.mu. Медленный подписчик теряет уведомления.
func (m *MemoryStore) notify(key string) {
	for _, ch := range m.subscribers {
		select {
		case ch <- key:
		default:
		}
	}
}

// Close закрывает хранилище и всех подписчиков
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	for _, ch := range m.subscribers {
		close(ch)
	}
	m.subscribers = nil

	return nil
}
