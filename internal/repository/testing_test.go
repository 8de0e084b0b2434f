package repository

import (
	"context"
	"errors"

	"github.com/Freeeeeet/tutor_scheduler/internal/storage"
)

var errQuotaExceeded = errors.New("quota exceeded")

// failingStore отказывает в записи, как переполненное хранилище
type failingStore struct {
	*storage.MemoryStore
	failWrites bool
}

func newFailingStore() *failingStore {
	return &failingStore{MemoryStore: storage.NewMemoryStore()}
}

func (s *failingStore) Set(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	if s.failWrites {
		return 0, errQuotaExceeded
	}
	return s.MemoryStore.Set(ctx, key, value, expectedVersion)
}
