package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/app"
	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/seed"
	"github.com/Freeeeeet/tutor_scheduler/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var errDiskFull = errors.New("disk full")

// brokenStore хранилище, запись в которое можно сломать
type brokenStore struct {
	*storage.MemoryStore
	broken bool
}

func (s *brokenStore) Set(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	if s.broken {
		return 0, errDiskFull
	}
	return s.MemoryStore.Set(ctx, key, value, expectedVersion)
}

type testEnv struct {
	store         *brokenStore
	availability  *AvailabilityService
	courses       *CourseService
	classes       *ClassService
	registrations *RegistrationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	defaults, err := seed.DefaultAvailability()
	require.NoError(t, err)

	store := &brokenStore{MemoryStore: storage.NewMemoryStore()}
	availabilityRepo := repository.NewAvailabilityRepository(store, defaults)
	classRepo := repository.NewClassRepository(store)
	courseRepo := repository.NewCourseRepository(store)
	registrationRepo := repository.NewRegistrationRepository(store)

	env := &testEnv{
		store:         store,
		availability:  NewAvailabilityService(availabilityRepo, classRepo, logger),
		courses:       NewCourseService(courseRepo, logger),
		registrations: NewRegistrationService(registrationRepo, classRepo, courseRepo, logger),
	}
	env.classes = NewClassService(classRepo, courseRepo, env.availability, logger)

	require.NoError(t, env.availability.Reload(ctx))
	require.NoError(t, env.classes.Reload(ctx))
	require.NoError(t, env.courses.Reload(ctx))
	require.NoError(t, env.registrations.Reload(ctx))

	for _, course := range []model.Course{
		{CourseID: "C1", Name: "English B1"},
		{CourseID: "C2", Name: "Mathematics"},
		{CourseID: "C3", Name: "Chemistry"},
	} {
		_, err := env.courses.AddCourse(ctx, course)
		require.NoError(t, err)
	}

	return env
}

func session(day model.Weekday, start, end int, room string) model.Session {
	return model.Session{Day: day, Hours: model.NewHourRange(start, end), Room: room}
}

func slots(day model.Weekday, hours ...int) []model.TimeSlot {
	out := make([]model.TimeSlot, 0, len(hours))
	for _, h := range hours {
		out = append(out, model.NewTimeSlot(day, h))
	}
	return out
}

func (e *testEnv) mustCreateClass(t *testing.T, id, courseID, tutor string, sessions ...model.Session) *model.ClassRecord {
	t.Helper()
	class, err := e.classes.CreateClass(context.Background(), model.ClassRecord{
		ClassID:   id,
		CourseID:  courseID,
		TutorName: tutor,
		Sessions:  sessions,
	})
	require.NoError(t, err)
	return class
}

func (e *testEnv) syncer(t *testing.T) *app.Syncer {
	return app.NewSyncer(e.store, time.Hour, zaptest.NewLogger(t),
		e.availability, e.courses, e.classes, e.registrations)
}

func TestReloadKeepsUnsavedChanges(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	syncer := env.syncer(t)
	want := slots(model.Monday, 7, 8)

	env.store.broken = true
	err := env.availability.SetAvailability(ctx, "tutor9", want)
	require.True(t, repository.IsPersistence(err))

	err = syncer.ReloadAll(ctx)
	assert.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, want, env.availability.GetAvailability("tutor9"), "reload must not drop the unsaved write")

	env.store.broken = false
	require.NoError(t, syncer.ReloadAll(ctx))
	assert.Equal(t, want, env.availability.GetAvailability("tutor9"))

	entry, err := env.store.Get(ctx, repository.AvailabilityKey)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Contains(t, string(entry.Value), "tutor9")
}

func TestReloadSurfacesConcurrentWrite(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	env.store.broken = true
	require.Error(t, env.availability.SetAvailability(ctx, "tutor9", slots(model.Monday, 7)))
	env.store.broken = false

	// другой процесс успел записать документ
	_, err := env.store.Set(ctx, repository.AvailabilityKey, []byte(`{"tutor8": []}`), storage.AnyVersion)
	require.NoError(t, err)

	err = env.syncer(t).ReloadAll(ctx)
	assert.ErrorIs(t, err, storage.ErrVersionConflict)
	assert.Equal(t, slots(model.Monday, 7), env.availability.GetAvailability("tutor9"))
}
