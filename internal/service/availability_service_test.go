package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityService(t *testing.T) {
	ctx := context.Background()

	t.Run("Creatable Slots Follow Bookings", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, env.availability.SetAvailability(ctx, "tutor1", slots(model.Monday, 7, 8)))

		assert.Equal(t, slots(model.Monday, 7, 8), env.availability.GetCreatableSlots("tutor1"))

		env.mustCreateClass(t, "CL1", "C1", "tutor1", session(model.Monday, 7, 9, "A-101"))
		assert.Empty(t, env.availability.GetCreatableSlots("tutor1"))
		assert.Equal(t, slots(model.Monday, 7, 8), env.availability.GetBookedSlots("tutor1"))

		require.NoError(t, env.classes.RemoveClass(ctx, "CL1"))
		assert.Equal(t, slots(model.Monday, 7, 8), env.availability.GetCreatableSlots("tutor1"))
	})

	t.Run("Legacy Multi Hour Ranges Expand", func(t *testing.T) {
		env := newTestEnv(t)

		got := env.availability.GetAvailability("tutor2")
		want := append(slots(model.Monday, 9, 10, 11), slots(model.Wednesday, 13, 14)...)
		want = append(want, slots(model.Friday, 7, 8, 9)...)
		assert.Equal(t, want, got)
	})

	t.Run("Unknown Tutor Has Nothing", func(t *testing.T) {
		env := newTestEnv(t)
		assert.Empty(t, env.availability.GetAvailability("nobody"))
		assert.Empty(t, env.availability.GetCreatableSlots("nobody"))
	})

	t.Run("Creatable Is Availability Minus Booked", func(t *testing.T) {
		env := newTestEnv(t)
		before := env.availability.GetCreatableSlots("tutor3")

		env.mustCreateClass(t, "CL1", "C1", "tutor3", session(model.Thursday, 15, 17, "Lab"))
		after := env.availability.GetCreatableSlots("tutor3")

		assert.Len(t, after, len(before)-2)
		for _, slot := range after {
			assert.Contains(t, before, slot)
		}
		assert.NotContains(t, after, model.NewTimeSlot(model.Thursday, 15))
		assert.Contains(t, after, model.NewTimeSlot(model.Thursday, 17))
	})

	t.Run("Rejects Slots Outside Catalog", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.availability.SetAvailability(ctx, "tutor1", slots(model.Sunday, 9))
		assert.ErrorIs(t, err, ErrValidation)

		err = env.availability.SetAvailability(ctx, "tutor1", slots(model.Monday, 18))
		assert.ErrorIs(t, err, ErrValidation)

		err = env.availability.SetAvailability(ctx, "", slots(model.Monday, 9))
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "tutorId", validationErr.Field)
	})

	t.Run("Write Failure Keeps New Availability", func(t *testing.T) {
		env := newTestEnv(t)
		env.store.broken = true

		err := env.availability.SetAvailability(ctx, "tutor1", slots(model.Saturday, 16, 17))
		require.Error(t, err)
		assert.True(t, repository.IsPersistence(err))
		assert.ErrorIs(t, err, errDiskFull)
		assert.Equal(t, slots(model.Saturday, 16, 17), env.availability.GetAvailability("tutor1"))
	})

	t.Run("Tutors", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, env.availability.SetAvailability(ctx, "tutor1", slots(model.Monday, 7)))
		assert.Equal(t, []string{"tutor1", "tutor2", "tutor3"}, env.availability.Tutors())
		assert.Len(t, env.availability.AllSlots(), 66)
	})
}
