package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	Environment    string
	LogLevel       string
	StorageBackend string
	DBDSN          string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisPrefix    string
	ReloadInterval time.Duration
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Environment:    os.Getenv("ENV"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		StorageBackend: os.Getenv("STORAGE_BACKEND"),
		DBDSN:          os.Getenv("DB_DSN"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisPrefix:    os.Getenv("REDIS_PREFIX"),
		ReloadInterval: time.Minute,
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.StorageBackend == "" {
		cfg.StorageBackend = BackendMemory
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = "localhost:6379"
	}
	if cfg.RedisPrefix == "" {
		cfg.RedisPrefix = "tutor_scheduler:"
	}

	if raw := os.Getenv("REDIS_DB"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("REDIS_DB must be a number: %w", err)
		}
		cfg.RedisDB = db
	}

	if raw := os.Getenv("RELOAD_INTERVAL"); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("RELOAD_INTERVAL must be a duration: %w", err)
		}
		if interval <= 0 {
			return nil, fmt.Errorf("RELOAD_INTERVAL must be positive")
		}
		cfg.ReloadInterval = interval
	}

	// Проверяем обязательные поля
	switch cfg.StorageBackend {
	case BackendMemory, BackendRedis:
	case BackendPostgres:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required for postgres storage but not set")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	return cfg, nil
}
