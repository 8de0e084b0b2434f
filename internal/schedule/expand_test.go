package schedule

import (
	"testing"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestExpandSessions(t *testing.T) {
	t.Run("Multi Hour Session", func(t *testing.T) {
		slots := ExpandSessions([]model.Session{
			{Day: model.Monday, Hours: model.NewHourRange(7, 10), Room: "A-101"},
		})

		assert.Equal(t, []model.TimeSlot{
			model.NewTimeSlot(model.Monday, 7),
			model.NewTimeSlot(model.Monday, 8),
			model.NewTimeSlot(model.Monday, 9),
		}, slots)
	})

	t.Run("Malformed Session Yields Nothing", func(t *testing.T) {
		slots := ExpandSessions([]model.Session{
			{Day: model.Monday, Hours: model.HourRange{}, Room: "A"},
			{Day: model.Tuesday, Hours: model.NewHourRange(9, 10), Room: "A"},
		})

		assert.Equal(t, []model.TimeSlot{model.NewTimeSlot(model.Tuesday, 9)}, slots)
	})

	t.Run("Empty Input", func(t *testing.T) {
		assert.Empty(t, ExpandSessions(nil))
	})
}

func TestAvailableIn(t *testing.T) {
	ranges := []model.TimeSlot{
		{Day: model.Monday, Hours: model.NewHourRange(9, 12)},
		model.NewTimeSlot(model.Wednesday, 13),
	}

	assert.True(t, AvailableIn(model.NewTimeSlot(model.Monday, 9), ranges))
	assert.True(t, AvailableIn(model.NewTimeSlot(model.Monday, 11), ranges))
	assert.False(t, AvailableIn(model.NewTimeSlot(model.Monday, 12), ranges), "range end is exclusive")
	assert.False(t, AvailableIn(model.NewTimeSlot(model.Tuesday, 9), ranges), "other day")
	assert.True(t, AvailableIn(model.NewTimeSlot(model.Wednesday, 13), ranges))
}
