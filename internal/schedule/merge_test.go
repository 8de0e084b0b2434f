package schedule

import (
	"testing"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
)

func session(day model.Weekday, start, end int, room string) model.Session {
	return model.Session{Day: day, Hours: model.NewHourRange(start, end), Room: room}
}

func TestMergeSessions(t *testing.T) {
	t.Run("Adjacent Hours Same Room", func(t *testing.T) {
		merged := MergeSessions([]model.Session{
			session(model.Monday, 9, 10, "A"),
			session(model.Monday, 10, 11, "A"),
			session(model.Monday, 13, 14, "A"),
		})

		assert.Equal(t, []model.Session{
			session(model.Monday, 9, 11, "A"),
			session(model.Monday, 13, 14, "A"),
		}, merged)
	})

	t.Run("Unsorted Input", func(t *testing.T) {
		merged := MergeSessions([]model.Session{
			session(model.Wednesday, 8, 9, "B"),
			session(model.Monday, 10, 11, "A"),
			session(model.Wednesday, 7, 8, "B"),
			session(model.Monday, 9, 10, "A"),
		})

		assert.Equal(t, []model.Session{
			session(model.Monday, 9, 11, "A"),
			session(model.Wednesday, 7, 9, "B"),
		}, merged)
	})

	t.Run("Different Rooms Never Merge", func(t *testing.T) {
		input := []model.Session{
			session(model.Monday, 9, 10, "A"),
			session(model.Monday, 10, 11, "B"),
		}
		assert.Equal(t, input, MergeSessions(input))
	})

	t.Run("Different Days Never Merge", func(t *testing.T) {
		merged := MergeSessions([]model.Session{
			session(model.Tuesday, 17, 18, "A"),
			session(model.Monday, 17, 18, "A"),
		})

		assert.Equal(t, []model.Session{
			session(model.Monday, 17, 18, "A"),
			session(model.Tuesday, 17, 18, "A"),
		}, merged)
	})

	t.Run("Sunday Sorts Last", func(t *testing.T) {
		merged := MergeSessions([]model.Session{
			session(model.Sunday, 9, 10, "A"),
			session(model.Saturday, 9, 10, "A"),
		})

		assert.Equal(t, model.Saturday, merged[0].Day)
		assert.Equal(t, model.Sunday, merged[1].Day)
	})

	t.Run("Zero Or One Session Unchanged", func(t *testing.T) {
		assert.Nil(t, MergeSessions(nil))

		single := []model.Session{session(model.Friday, 7, 9, "C")}
		assert.Equal(t, single, MergeSessions(single))
	})

	t.Run("Does Not Modify Input", func(t *testing.T) {
		input := []model.Session{
			session(model.Monday, 10, 11, "A"),
			session(model.Monday, 9, 10, "A"),
		}
		MergeSessions(input)
		assert.Equal(t, 10, input[0].Hours.Start)
	})
}

func TestMergeSessionsIdempotent(t *testing.T) {
	inputs := [][]model.Session{
		{
			session(model.Monday, 9, 10, "A"),
			session(model.Monday, 10, 11, "A"),
			session(model.Monday, 13, 14, "A"),
		},
		{
			session(model.Thursday, 7, 8, "A"),
			session(model.Thursday, 8, 9, "B"),
			session(model.Thursday, 9, 10, "B"),
			session(model.Friday, 12, 15, "A"),
		},
	}

	for _, input := range inputs {
		once := MergeSessions(input)
		assert.Equal(t, once, MergeSessions(once))
	}
}

func TestMergeExpandCoverage(t *testing.T) {
	input := []model.Session{
		session(model.Monday, 9, 12, "A"),
		session(model.Monday, 12, 13, "B"),
		session(model.Tuesday, 7, 8, "A"),
		session(model.Tuesday, 10, 12, "A"),
	}

	restored := MergeSessions(ExpandToSessions(input))

	assert.Equal(t, coverage(input), coverage(restored))
	assert.Equal(t, input, restored, "already maximal input is restored exactly")
}

// coverage возвращает множество (день, комната, час)
func coverage(sessions []model.Session) map[string]bool {
	out := make(map[string]bool)
	for _, s := range sessions {
		for _, slot := range ExpandSession(s) {
			out[slot.String()+"|"+s.Room] = true
		}
	}
	return out
}
