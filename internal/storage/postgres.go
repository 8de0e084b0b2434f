package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// changesChannel канал LISTEN/NOTIFY для уведомлений об изменении ключей
const changesChannel = "kv_changes"

// PostgresStore хранилище поверх таблицы kv_entries
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore открывает пул соединений и проверяет доступность базы
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// NewPostgresStoreFromPool создаёт хранилище поверх уже открытого пула
func NewPostgresStoreFromPool(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Pool возвращает пул соединений (нужен мигратору)
func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.pool
}

// Get получает значение по ключу
func (s *PostgresStore) Get(ctx context.Context, key string) (*Entry, error) {
	query := `
		SELECT key, value, version
		FROM kv_entries
		WHERE key = $1
	`

	var entry Entry
	err := s.pool.QueryRow(ctx, query, key).Scan(&entry.Key, &entry.Value, &entry.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}

	return &entry, nil
}

// Set записывает значение с проверкой версии и уведомляет подписчиков
func (s *PostgresStore) Set(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var query string
	args := []interface{}{key, value}

	switch expectedVersion {
	case AnyVersion:
		query = `
			INSERT INTO kv_entries (key, value, version)
			VALUES ($1, $2, 1)
			ON CONFLICT (key) DO UPDATE
			SET value = EXCLUDED.value, version = kv_entries.version + 1, updated_at = NOW()
			RETURNING version
		`
	case 0:
		query = `
			INSERT INTO kv_entries (key, value, version)
			VALUES ($1, $2, 1)
			ON CONFLICT (key) DO NOTHING
			RETURNING version
		`
	default:
		query = `
			UPDATE kv_entries
			SET value = $2, version = version + 1, updated_at = NOW()
			WHERE key = $1 AND version = $3
			RETURNING version
		`
		args = append(args, expectedVersion)
	}

	var version int64
	err = tx.QueryRow(ctx, query, args...).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrVersionConflict
		}
		return 0, fmt.Errorf("set entry: %w", err)
	}

	if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, changesChannel, key); err != nil {
		return 0, fmt.Errorf("notify change: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return version, nil
}

// List возвращает ключи с заданным префиксом
func (s *PostgresStore) List(ctx context.Context, prefix string) ([]string, error) {
	query := `
		SELECT key
		FROM kv_entries
		WHERE left(key, length($1)) = $1
		ORDER BY key
	`

	rows, err := s.pool.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}

	return keys, nil
}

// Delete удаляет ключ
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `DELETE FROM kv_entries WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	if result.RowsAffected() > 0 {
		if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, changesChannel, key); err != nil {
			return fmt.Errorf("notify change: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Subscribe слушает канал kv_changes на отдельном соединении пула
func (s *PostgresStore) Subscribe(ctx context.Context) (<-chan string, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+changesChannel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("listen: %w", err)
	}

	ch := make(chan string, 16)
	go func() {
		defer close(ch)
		defer func() {
			// Соединение возвращается в пул, поэтому снимаем подписку
			_, _ = conn.Exec(context.Background(), "UNLISTEN "+changesChannel)
			conn.Release()
		}()

		for {
			notification, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				return
			}
			select {
			case ch <- notification.Payload:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

// Close закрывает пул
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
