package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Weekday is an English weekday name as it appears in stored records.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Weekdays lists all days in Monday-first order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Index returns the Monday=1 ... Sunday=7 position of the day, or 0 when unknown.
func (d Weekday) Index() int {
	for i, day := range Weekdays {
		if day == d {
			return i + 1
		}
	}
	return 0
}

// IsValid checks that d is one of the seven known day names.
func (d Weekday) IsValid() bool {
	return d.Index() > 0
}

// HourRange is a whole-hour interval [Start, End).
// The zero value is invalid and stands for an unparseable range.
type HourRange struct {
	Start int
	End   int
}

// NewHourRange builds a range from start to end hour.
func NewHourRange(start, end int) HourRange {
	return HourRange{Start: start, End: end}
}

// IsValid reports whether the range is non-empty and within a day.
func (r HourRange) IsValid() bool {
	return r.Start >= 0 && r.Start < r.End && r.End <= 24
}

// Hours returns the number of hours covered by the range.
func (r HourRange) Hours() int {
	if !r.IsValid() {
		return 0
	}
	return r.End - r.Start
}

// Contains reports whether hour falls inside the range.
func (r HourRange) Contains(hour int) bool {
	return r.IsValid() && hour >= r.Start && hour < r.End
}

// String formats the range as "HH:00 - HH:00".
func (r HourRange) String() string {
	if !r.IsValid() {
		return ""
	}
	return fmt.Sprintf("%02d:00 - %02d:00", r.Start, r.End)
}

// ParseHourRange parses "HH:00 - HH:00" (spaces around the dash are optional).
func ParseHourRange(s string) (HourRange, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return HourRange{}, fmt.Errorf("invalid time range %q", s)
	}

	start, err := parseHour(parts[0])
	if err != nil {
		return HourRange{}, fmt.Errorf("invalid time range %q: %w", s, err)
	}
	end, err := parseHour(parts[1])
	if err != nil {
		return HourRange{}, fmt.Errorf("invalid time range %q: %w", s, err)
	}

	r := HourRange{Start: start, End: end}
	if !r.IsValid() {
		return HourRange{}, fmt.Errorf("invalid time range %q: start must be before end", s)
	}
	return r, nil
}

func parseHour(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || mm != "00" {
		return 0, fmt.Errorf("bad hour %q", s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("bad hour %q", s)
	}
	if hour < 0 || hour > 24 {
		return 0, fmt.Errorf("hour %d out of range", hour)
	}
	return hour, nil
}

// MarshalText implements encoding.TextMarshaler.
func (r HourRange) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// Malformed input leaves the zero range instead of failing the enclosing record.
func (r *HourRange) UnmarshalText(text []byte) error {
	parsed, err := ParseHourRange(string(text))
	if err != nil {
		*r = HourRange{}
		return nil
	}
	*r = parsed
	return nil
}

// TimeSlot is a bookable unit of a day. Canonical slots cover exactly one hour;
// stored availability may still hold legacy multi-hour ranges.
type TimeSlot struct {
	Day   Weekday   `json:"day"`
	Hours HourRange `json:"time"`
}

// NewTimeSlot returns the one-hour slot starting at hour.
func NewTimeSlot(day Weekday, hour int) TimeSlot {
	return TimeSlot{Day: day, Hours: HourRange{Start: hour, End: hour + 1}}
}

func (s TimeSlot) String() string {
	return fmt.Sprintf("%s %s", s.Day, s.Hours)
}

// Session is a scheduled occurrence of a class in a room. It may span several hours.
type Session struct {
	Day   Weekday   `json:"day" validate:"required"`
	Hours HourRange `json:"time"`
	Room  string    `json:"room" validate:"required"`
}

func (s Session) String() string {
	return fmt.Sprintf("%s %s (%s)", s.Day, s.Hours, s.Room)
}

// sessionJSON keeps the wire shape explicit for callers that decode raw maps.
type sessionJSON struct {
	Day  Weekday `json:"day"`
	Time string  `json:"time"`
	Room string  `json:"room"`
}

// MarshalJSON keeps the "HH:00 - HH:00" wire format.
func (s Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(sessionJSON{Day: s.Day, Time: s.Hours.String(), Room: s.Room})
}

// UnmarshalJSON parses the time string at the boundary.
func (s *Session) UnmarshalJSON(data []byte) error {
	var raw sessionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Day = raw.Day
	s.Room = raw.Room
	return s.Hours.UnmarshalText([]byte(raw.Time))
}
