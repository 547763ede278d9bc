package resource

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// CheckAvailability validates a candidate [start, end) interval against the
// resource's availability windows. A resource with no windows accepts every
// interval. Otherwise, a blocked date-specific override rejects the whole
// date, and the candidate's local time span must be fully contained in a
// window matching either the candidate's specific date or its weekday.
func CheckAvailability(r *Resource, start, end time.Time) error {
	if len(r.AvailabilityWindows) == 0 {
		return nil
	}

	date := start.Format(dateLayout)
	weekday := int(start.Weekday())

	// Blocked date overrides reject before anything else is considered.
	for _, w := range r.AvailabilityWindows {
		if w.Blocked && w.Date == date {
			return ErrOutsideAvailability
		}
	}

	// Date-specific windows take precedence over recurring ones.
	var candidates []AvailabilityWindow
	for _, w := range r.AvailabilityWindows {
		if !w.Blocked && w.Date == date {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) == 0 {
		for _, w := range r.AvailabilityWindows {
			if !w.Blocked && w.Date == "" && w.Weekday == weekday {
				candidates = append(candidates, w)
			}
		}
	}

	for _, w := range candidates {
		ws, we, err := w.boundsOn(start)
		if err != nil {
			continue
		}
		if !start.Before(ws) && !end.After(we) {
			return nil
		}
	}

	return ErrOutsideAvailability
}

// Span is a concrete open interval on a specific day.
type Span struct {
	Start time.Time
	End   time.Time
}

// OpenSpansOn resolves the resource's open intervals on the given day,
// applying the same precedence as CheckAvailability. A resource with no
// windows is treated as open 08:00 to 20:00. A blocked date, or a day no
// window covers, yields no spans.
func OpenSpansOn(r *Resource, day time.Time) []Span {
	if len(r.AvailabilityWindows) == 0 {
		ws, _ := atClock(day, "08:00")
		we, _ := atClock(day, "20:00")
		return []Span{{Start: ws, End: we}}
	}

	date := day.Format(dateLayout)
	weekday := int(day.Weekday())

	for _, w := range r.AvailabilityWindows {
		if w.Blocked && w.Date == date {
			return nil
		}
	}

	var candidates []AvailabilityWindow
	for _, w := range r.AvailabilityWindows {
		if !w.Blocked && w.Date == date {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) == 0 {
		for _, w := range r.AvailabilityWindows {
			if !w.Blocked && w.Date == "" && w.Weekday == weekday {
				candidates = append(candidates, w)
			}
		}
	}

	var spans []Span
	for _, w := range candidates {
		ws, we, err := w.boundsOn(day)
		if err != nil {
			continue
		}
		spans = append(spans, Span{Start: ws, End: we})
	}
	return spans
}

// boundsOn resolves the window's HH:MM span to concrete instants on the
// given day, in that day's location.
func (w AvailabilityWindow) boundsOn(day time.Time) (time.Time, time.Time, error) {
	ws, err := atClock(day, w.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	we, err := atClock(day, w.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !we.After(ws) {
		return time.Time{}, time.Time{}, fmt.Errorf("window end %s not after start %s", w.EndTime, w.StartTime)
	}
	return ws, we, nil
}

// Validate checks a window definition at resource create/update time.
func (w AvailabilityWindow) Validate() error {
	if w.Date != "" {
		if _, err := time.Parse(dateLayout, w.Date); err != nil {
			return ErrInvalidWindow
		}
	} else if w.Weekday < 0 || w.Weekday > 6 {
		return ErrInvalidWindow
	}
	if w.Blocked {
		return nil
	}
	ref := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, _, err := w.boundsOn(ref); err != nil {
		return ErrInvalidWindow
	}
	return nil
}

func atClock(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock value %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
