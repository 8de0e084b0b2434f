package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	fieldValue   = "value"
	fieldVersion = "version"
)

// RedisStore хранит каждый ключ как hash {value, version} под общим префиксом
type RedisStore struct {
	client  *redis.Client
	prefix  string
	channel string
}

// RedisOptions параметры подключения к Redis
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewRedisStore подключается к Redis и проверяет соединение
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewRedisStoreFromClient(client, opts.Prefix), nil
}

// NewRedisStoreFromClient создаёт хранилище поверх готового клиента
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		client:  client,
		prefix:  prefix,
		channel: prefix + changesChannel,
	}
}

func (s *RedisStore) redisKey(key string) string {
	return s.prefix + key
}

// Get получает значение по ключу
func (s *RedisStore) Get(ctx context.Context, key string) (*Entry, error) {
	values, err := s.client.HMGet(ctx, s.redisKey(key), fieldValue, fieldVersion).Result()
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}

	return decodeRedisEntry(key, values)
}

func decodeRedisEntry(key string, values []interface{}) (*Entry, error) {
	if len(values) != 2 || values[0] == nil {
		return nil, nil
	}

	raw, ok := values[0].(string)
	if !ok {
		return nil, fmt.Errorf("unexpected value type %T for %q", values[0], key)
	}

	var version int64
	if v, ok := values[1].(string); ok {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse version for %q: %w", key, err)
		}
		version = parsed
	}

	return &Entry{Key: key, Value: []byte(raw), Version: version}, nil
}

// Set записывает значение через WATCH/MULTI, чтобы проверка версии была атомарной
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	rkey := s.redisKey(key)
	var next int64

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, rkey, fieldVersion).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		if expectedVersion != AnyVersion && expectedVersion != current {
			return ErrVersionConflict
		}

		next = current + 1
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, rkey, fieldValue, value, fieldVersion, next)
			pipe.Publish(ctx, s.channel, key)
			return nil
		})
		return err
	}, rkey)

	if err != nil {
		if errors.Is(err, ErrVersionConflict) || errors.Is(err, redis.TxFailedErr) {
			return 0, ErrVersionConflict
		}
		return 0, fmt.Errorf("set entry: %w", err)
	}

	return next, nil
}

// List возвращает ключи с заданным префиксом (без префикса хранилища)
func (s *RedisStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.redisKey(prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := strings.TrimPrefix(iter.Val(), s.prefix)
		// SCAN понимает glob, поэтому префикс проверяем ещё раз буквально
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}

	sort.Strings(keys)
	return keys, nil
}

// Delete удаляет ключ
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	removed, err := s.client.Del(ctx, s.redisKey(key)).Result()
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	if removed > 0 {
		if err := s.client.Publish(ctx, s.channel, key).Err(); err != nil {
			return fmt.Errorf("notify change: %w", err)
		}
	}

	return nil
}

// Subscribe подписывается на pub/sub канал изменений
func (s *RedisStore) Subscribe(ctx context.Context) (<-chan string, error) {
	pubsub := s.client.Subscribe(ctx, s.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	ch := make(chan string, 16)
	go func() {
		defer close(ch)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case msg, ok := <-messages:
				if !ok {
					return
				}
				select {
				case ch <- msg.Payload:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

// Close закрывает клиента
func (s *RedisStore) Close() error {
	return s.client.Close()
}
