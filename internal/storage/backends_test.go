package storage

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/migrations"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

// Тесты внешних хранилищ запускаются только при заданных адресах

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN is not set")
	}

	ctx := context.Background()
	store, err := NewPostgresStore(ctx, dsn)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, goose.SetDialect("postgres"))
	goose.SetBaseFS(migrations.FS)
	db := stdlib.OpenDBFromPool(store.Pool())
	defer db.Close()
	require.NoError(t, goose.UpContext(ctx, db, "."))

	runStoreContract(t, store, fmt.Sprintf("test:%d:", time.Now().UnixNano()))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR is not set")
	}

	ctx := context.Background()
	store, err := NewRedisStore(ctx, RedisOptions{
		Addr:   addr,
		Prefix: fmt.Sprintf("test:%d:", time.Now().UnixNano()),
	})
	require.NoError(t, err)
	defer store.Close()

	runStoreContract(t, store, "")
}
