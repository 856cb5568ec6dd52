// Package schedule decides whether and when a caterer can fulfill an
// order, given its weekly working times and minimum preparation time.
package schedule

import (
	"time"

	"feast/internal/domain/entity"

	"github.com/pkg/errors"
)

// ErrUnavailable is returned when no feasible slot exists within the
// lookahead window.
var ErrUnavailable = errors.New("no feasible fulfillment slot within the lookahead window")

// LookaheadDays bounds how far ahead of the requested time the evaluator
// probes for a feasible slot.
const LookaheadDays = 7

// Result is the outcome of an evaluation. EarliestStart is the earliest
// moment preparation can begin; when CanFulfillNow is true it equals the
// requested time.
type Result struct {
	CanFulfillNow bool
	EarliestStart time.Time
}

// Evaluate maps the requested timestamp to its weekday and minute of day
// and scans that day's frames for one that fully contains
// [start, start+prep]; failing that, it probes subsequent days in
// calendar order, wrapping weekdays, up to LookaheadDays ahead. Frames
// never cross midnight and a day without frames is closed all day.
func Evaluate(wt entity.WorkingTimes, at time.Time) (Result, error) {
	prep := wt.MinimumPreparationTime
	requested := entity.MinutesOfDay(at)
	midnight := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())

	for offset := 0; offset <= LookaheadDays; offset++ {
		day := midnight.AddDate(0, 0, offset)
		earliest := 0
		if offset == 0 {
			earliest = requested
		}
		for _, frame := range wt.Hours.Day(entity.WeekdayOf(day)) {
			start := frame.Open
			if earliest > start {
				start = earliest
			}
			if start+prep > frame.Close {
				continue
			}
			res := Result{EarliestStart: day.Add(time.Duration(start) * time.Minute)}
			res.CanFulfillNow = offset == 0 && start == requested

			return res, nil
		}
	}

	return Result{}, errors.WithStack(ErrUnavailable)
}
