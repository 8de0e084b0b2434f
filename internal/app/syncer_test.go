package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type countingReloader struct {
	calls atomic.Int32
	err   error
}

func (r *countingReloader) Reload(ctx context.Context) error {
	r.calls.Add(1)
	return r.err
}

func TestSyncer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t.Run("Reloads On Change", func(t *testing.T) {
		store := storage.NewMemoryStore()
		reloader := &countingReloader{}
		syncer := NewSyncer(store, time.Hour, zaptest.NewLogger(t), reloader)

		syncer.Start(ctx)
		defer syncer.Stop()

		// подписка оформляется синхронно в Start
		_, err := store.Set(ctx, "classes", []byte(`[]`), storage.AnyVersion)
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			return reloader.calls.Load() >= 1
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("Polls Without Notifier", func(t *testing.T) {
		reloader := &countingReloader{}
		syncer := NewSyncer(nil, 10*time.Millisecond, zaptest.NewLogger(t), reloader)

		syncer.Start(ctx)
		require.Eventually(t, func() bool {
			return reloader.calls.Load() >= 2
		}, time.Second, 5*time.Millisecond)
		syncer.Stop()

		stopped := reloader.calls.Load()
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, stopped, reloader.calls.Load())
	})

	t.Run("Reload All Continues After Failure", func(t *testing.T) {
		broken := &countingReloader{err: errors.New("store unavailable")}
		healthy := &countingReloader{}
		syncer := NewSyncer(nil, time.Hour, zaptest.NewLogger(t), broken, healthy)

		err := syncer.ReloadAll(ctx)
		assert.ErrorIs(t, err, broken.err)
		assert.Equal(t, int32(1), healthy.calls.Load())
	})

	t.Run("Stops On Context Cancel", func(t *testing.T) {
		local, stop := context.WithCancel(ctx)
		syncer := NewSyncer(storage.NewMemoryStore(), time.Hour, zaptest.NewLogger(t))
		syncer.Start(local)
		stop()

		select {
		case <-syncer.done:
		case <-time.After(time.Second):
			t.Fatal("syncer did not stop after context cancel")
		}
	})
}
