package app

import (
	"context"
	"testing"

	"github.com/Freeeeeet/tutor_scheduler/internal/config"
	"github.com/Freeeeeet/tutor_scheduler/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	t.Run("Memory", func(t *testing.T) {
		store, err := OpenStore(ctx, &config.Config{StorageBackend: config.BackendMemory}, logger)
		require.NoError(t, err)
		defer store.Close()

		_, ok := store.(storage.Notifier)
		assert.True(t, ok, "memory store publishes change notifications")
	})

	t.Run("Unknown Backend", func(t *testing.T) {
		_, err := OpenStore(ctx, &config.Config{StorageBackend: "sqlite"}, logger)
		assert.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger("production", "warn")
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger = NewLogger("development", "")
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}
