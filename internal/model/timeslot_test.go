package model

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHourRange(t *testing.T) {
	t.Run("Canonical Format", func(t *testing.T) {
		r, err := ParseHourRange("07:00 - 09:00")
		require.NoError(t, err)
		assert.Equal(t, HourRange{Start: 7, End: 9}, r)
		assert.Equal(t, 2, r.Hours())
	})

	t.Run("Without Spaces", func(t *testing.T) {
		r, err := ParseHourRange("09:00-10:00")
		require.NoError(t, err)
		assert.Equal(t, HourRange{Start: 9, End: 10}, r)
	})

	t.Run("Malformed", func(t *testing.T) {
		for _, s := range []string{"", "09:00", "aa:00 - 10:00", "09:30 - 10:00", "10:00 - 09:00", "09:00 - 09:00", "09:00 - 25:00"} {
			_, err := ParseHourRange(s)
			assert.Error(t, err, "expected %q to be rejected", s)
		}
	})

	t.Run("String Round Trip", func(t *testing.T) {
		r := NewHourRange(13, 14)
		assert.Equal(t, "13:00 - 14:00", r.String())

		parsed, err := ParseHourRange(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	})
}

func TestWeekdayIndex(t *testing.T) {
	assert.Equal(t, 1, Monday.Index())
	assert.Equal(t, 7, Sunday.Index())
	assert.Equal(t, 0, Weekday("Funday").Index())
	assert.False(t, Weekday("").IsValid())
}

func TestSessionJSON(t *testing.T) {
	t.Run("Wire Format", func(t *testing.T) {
		data, err := json.Marshal(Session{Day: Monday, Hours: NewHourRange(7, 9), Room: "A-101"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"day":"Monday","time":"07:00 - 09:00","room":"A-101"}`, string(data))
	})

	t.Run("Malformed Time Keeps Record", func(t *testing.T) {
		var sessions []Session
		err := json.Unmarshal([]byte(`[{"day":"Monday","time":"soon","room":"A"},{"day":"Friday","time":"10:00 - 11:00","room":"B"}]`), &sessions)
		require.NoError(t, err)
		require.Len(t, sessions, 2)

		assert.False(t, sessions[0].Hours.IsValid(), "malformed time should decode to an invalid range")
		assert.Equal(t, "A", sessions[0].Room)
		assert.Equal(t, HourRange{Start: 10, End: 11}, sessions[1].Hours)
	})

	t.Run("Time Slot", func(t *testing.T) {
		var slot TimeSlot
		require.NoError(t, json.Unmarshal([]byte(`{"day":"Tuesday","time":"09:00 - 11:00"}`), &slot))
		assert.Equal(t, TimeSlot{Day: Tuesday, Hours: HourRange{Start: 9, End: 11}}, slot)
	})
}

func TestClassPatchApply(t *testing.T) {
	original := &ClassRecord{
		ClassID:   "CL1",
		CourseID:  "C1",
		TutorName: "tutor1",
		Campus:    "North",
		Sessions:  []Session{{Day: Monday, Hours: NewHourRange(7, 8), Room: "A"}},
		Status:    ClassStatusActive,
	}

	campus := "South"
	status := ClassStatusLocked
	updated := ClassPatch{Campus: &campus, Status: &status}.Apply(original)

	assert.Equal(t, "South", updated.Campus)
	assert.Equal(t, ClassStatusLocked, updated.Status)
	assert.Equal(t, "C1", updated.CourseID, "fields without a patch value are kept")
	assert.Equal(t, "North", original.Campus, "original must not be modified")

	updated.Sessions[0].Room = "Z"
	assert.Equal(t, "A", original.Sessions[0].Room, "sessions must be copied")
}
