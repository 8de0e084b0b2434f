package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/tutor_scheduler/internal/app"
	"github.com/Freeeeeet/tutor_scheduler/internal/config"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/seed"
	"github.com/Freeeeeet/tutor_scheduler/internal/service"
	"github.com/Freeeeeet/tutor_scheduler/internal/storage"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting tutor scheduler",
		zap.String("environment", cfg.Environment),
		zap.String("storage", cfg.StorageBackend))

	store, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer store.Close()

	defaults, err := seed.DefaultAvailability()
	if err != nil {
		logger.Fatal("Failed to load default availability", zap.Error(err))
	}

	// Репозитории
	availabilityRepo := repository.NewAvailabilityRepository(store, defaults)
	classRepo := repository.NewClassRepository(store)
	courseRepo := repository.NewCourseRepository(store)
	registrationRepo := repository.NewRegistrationRepository(store)

	// Сервисы
	availabilityService := service.NewAvailabilityService(availabilityRepo, classRepo, logger)
	courseService := service.NewCourseService(courseRepo, logger)
	classService := service.NewClassService(classRepo, courseRepo, availabilityService, logger)
	registrationService := service.NewRegistrationService(registrationRepo, classRepo, courseRepo, logger)

	notifier, _ := store.(storage.Notifier)
	syncer := app.NewSyncer(notifier, cfg.ReloadInterval, logger,
		availabilityService,
		courseService,
		classService,
		registrationService,
	)

	if err := syncer.ReloadAll(ctx); err != nil {
		logger.Warn("Initial load incomplete, continuing with in-memory state", zap.Error(err))
	}

	for _, tutorID := range availabilityService.Tutors() {
		logger.Info("Tutor availability",
			zap.String("tutor_id", tutorID),
			zap.Int("available", len(availabilityService.GetAvailability(tutorID))),
			zap.Int("booked", len(availabilityService.GetBookedSlots(tutorID))),
			zap.Int("creatable", len(availabilityService.GetCreatableSlots(tutorID))))
	}

	logger.Info("State loaded",
		zap.Int("courses", len(courseService.ListCourses())),
		zap.Int("classes", len(classService.ListClasses())),
		zap.Int("students_with_registrations", len(registrationService.Students())))

	syncer.Start(ctx)

	<-ctx.Done()
	syncer.Stop()

	logger.Info("Tutor scheduler stopped")
}
