package app

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/storage"
	"go.uber.org/zap"
)

// Reloader перечитывает своё состояние из хранилища целиком
type Reloader interface {
	Reload(ctx context.Context) error
}

// Syncer держит состояние в памяти в соответствии с хранилищем:
// полная перезагрузка на каждое уведомление об изменении и по таймеру.
// Слияния нет, поэтому одновременные записи из разных процессов
// обнаруживаются только через конфликт версий при сохранении.
// Несохранённые изменения перезагрузка не затирает: репозиторий сначала
// повторяет запись, а при неудаче оставляет память как есть и возвращает ошибку.
// Перезагрузка идёт в своей горутине, поэтому вызывающий код должен
// сериализовать изменения, проверка и запись в сервисах не атомарны относительно неё.
type Syncer struct {
	reloaders []Reloader
	notifier  storage.Notifier
	interval  time.Duration
	logger    *zap.Logger
	stopChan  chan struct{}
	done      chan struct{}
}

// NewSyncer создаёт синхронизатор. notifier может быть nil - тогда только таймер.
func NewSyncer(notifier storage.Notifier, interval time.Duration, logger *zap.Logger, reloaders ...Reloader) *Syncer {
	return &Syncer{
		reloaders: reloaders,
		notifier:  notifier,
		interval:  interval,
		logger:    logger,
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// ReloadAll перечитывает всё состояние. Ошибки логируются, перезагрузка остальных продолжается.
func (s *Syncer) ReloadAll(ctx context.Context) error {
	var firstErr error
	for _, r := range s.reloaders {
		if err := r.Reload(ctx); err != nil {
			s.logger.Warn("Failed to reload state", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Start запускает фоновую синхронизацию
func (s *Syncer) Start(ctx context.Context) {
	s.logger.Info("Starting state syncer", zap.Duration("interval", s.interval))

	var changes <-chan string
	if s.notifier != nil {
		ch, err := s.notifier.Subscribe(ctx)
		if err != nil {
			s.logger.Warn("Change notifications unavailable, falling back to polling", zap.Error(err))
		} else {
			changes = ch
		}
	}

	go s.run(ctx, changes)
}

// Stop останавливает синхронизацию и ждёт завершения цикла
func (s *Syncer) Stop() {
	s.logger.Info("Stopping state syncer")
	close(s.stopChan)
	<-s.done
}

func (s *Syncer) run(ctx context.Context, changes <-chan string) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case key, ok := <-changes:
			if !ok {
				s.logger.Warn("Change notification stream closed")
				changes = nil
				continue
			}
			s.logger.Debug("Store changed, reloading", zap.String("key", key))
			_ = s.ReloadAll(ctx)
		case <-ticker.C:
			_ = s.ReloadAll(ctx)
		case <-s.stopChan:
			s.logger.Info("State syncer stopped")
			return
		case <-ctx.Done():
			s.logger.Info("State syncer cancelled")
			return
		}
	}
}
