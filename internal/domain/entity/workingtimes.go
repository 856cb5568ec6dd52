package entity

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Weekday enumerates the days of a caterer's weekly schedule. It is a
// dedicated type (rather than time.Weekday) so Hours can be a fixed-size
// array indexed by it, keeping day lookups exhaustive and string-free.
type Weekday int

// Days of the week, Monday first to match the persisted key order.
const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayKeys = [7]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// Key returns the short persisted key for the day ("mon" .. "sun").
func (d Weekday) Key() string {
	return weekdayKeys[d]
}

// WeekdayOf maps a timestamp to its schedule day.
func WeekdayOf(t time.Time) Weekday {
	// time.Weekday is Sunday-based.
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// MinutesOfDay returns the minute offset of t within its day, 0-1439.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// minutesPerDay bounds frame offsets; close may be at most 23:59.
const minutesPerDay = 1440

// TimeFrame is a half-open [Open, Close) interval in minutes of the day.
// Overnight frames are not supported: Close must stay within the same day.
type TimeFrame struct {
	Open  int `json:"open"`
	Close int `json:"close"`
}

// Hours holds the open time frames for each day of the week. A day with
// no frames is closed all day. It marshals to the persisted map shape
// {"mon": [{"open":..,"close":..}], ...}, omitting closed days.
type Hours [7][]TimeFrame

// Day returns the frames for the given day. The returned slice is the
// internal one; callers must not mutate it.
func (h Hours) Day(d Weekday) []TimeFrame {
	return h[d]
}

// OpenDays counts the days that have at least one frame.
func (h Hours) OpenDays() int {
	n := 0
	for _, frames := range h {
		if len(frames) > 0 {
			n++
		}
	}

	return n
}

// MarshalJSON emits the weekday-keyed object shape, days in mon..sun
// order with closed days omitted, as external tooling expects.
func (h Hours) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for d, frames := range h {
		if len(frames) == 0 {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, err := json.Marshal(weekdayKeys[d])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		day, err := json.Marshal(frames)
		if err != nil {
			return nil, err
		}
		buf.Write(day)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON accepts the weekday-keyed object shape. Unknown keys are
// rejected so schedule typos surface instead of silently closing a day.
func (h *Hours) UnmarshalJSON(data []byte) error {
	raw := make(map[string][]TimeFrame)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Hours
	for key, frames := range raw {
		found := false
		for d, k := range weekdayKeys {
			if k == key {
				out[d] = frames
				found = true

				break
			}
		}
		if !found {
			return errors.Errorf("unknown weekday key %q", key)
		}
	}
	*h = out

	return nil
}

// WorkingTimes is a caterer's weekly schedule plus the minimum time it
// needs to prepare any order, in minutes.
type WorkingTimes struct {
	Hours                  Hours `json:"hours"`
	MinimumPreparationTime int   `json:"minimumPreparationTime"`
}

// Validate checks the schedule invariants: frames within a day are
// sorted, pairwise non-overlapping, and each stays inside [0, 1439].
func (wt WorkingTimes) Validate() error {
	if wt.MinimumPreparationTime < 0 {
		return errors.New("minimum preparation time must not be negative")
	}
	for d, frames := range wt.Hours {
		prevClose := -1
		for i, f := range frames {
			if f.Open < 0 || f.Close >= minutesPerDay {
				return errors.Errorf("%s frame %d out of range: open=%d close=%d", weekdayKeys[d], i, f.Open, f.Close)
			}
			if f.Open >= f.Close {
				return errors.Errorf("%s frame %d is empty or inverted: open=%d close=%d", weekdayKeys[d], i, f.Open, f.Close)
			}
			if f.Open <= prevClose {
				return errors.Errorf("%s frame %d overlaps or is out of order: open=%d follows close=%d", weekdayKeys[d], i, f.Open, prevClose)
			}
			prevClose = f.Close
		}
	}

	return nil
}

// OpenAt reports whether the caterer is open at the given timestamp,
// ignoring preparation time.
func (wt WorkingTimes) OpenAt(t time.Time) bool {
	minute := MinutesOfDay(t)
	for _, f := range wt.Hours.Day(WeekdayOf(t)) {
		if f.Open <= minute && minute < f.Close {
			return true
		}
	}

	return false
}
