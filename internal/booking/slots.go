package booking

import (
	"sort"
	"time"

	"github.com/campuskit/reservation-backend/internal/resource"
)

const maxAlternatives = 3

// FreeSlots computes the maximal free intervals on the given day: the
// resource's open spans minus the day's live bookings, in chronological
// order.
func FreeSlots(res *resource.Resource, dayBookings []*Booking, day time.Time) []TimeSlot {
	busy := make([]*Booking, 0, len(dayBookings))
	busy = append(busy, dayBookings...)
	sort.Slice(busy, func(i, j int) bool {
		return busy[i].StartTime.Before(busy[j].StartTime)
	})

	var gaps []TimeSlot
	for _, span := range resource.OpenSpansOn(res, day) {
		cursor := span.Start
		for _, b := range busy {
			if !b.StartTime.Before(span.End) || !b.EndTime.After(span.Start) {
				continue
			}
			if b.StartTime.After(cursor) {
				gaps = append(gaps, TimeSlot{StartTime: cursor, EndTime: b.StartTime})
			}
			if b.EndTime.After(cursor) {
				cursor = b.EndTime
			}
		}
		if span.End.After(cursor) {
			gaps = append(gaps, TimeSlot{StartTime: cursor, EndTime: span.End})
		}
	}

	return gaps
}

// suggestAlternatives proposes up to three free slots on the same day as the
// rejected request, each with the requested duration.
func suggestAlternatives(res *resource.Resource, dayBookings []*Booking, start time.Time, duration time.Duration) []TimeSlot {
	if duration <= 0 {
		return nil
	}

	var slots []TimeSlot
	for _, gap := range FreeSlots(res, dayBookings, start) {
		if gap.EndTime.Sub(gap.StartTime) < duration {
			continue
		}
		slots = append(slots, TimeSlot{StartTime: gap.StartTime, EndTime: gap.StartTime.Add(duration)})
		if len(slots) == maxAlternatives {
			break
		}
	}

	return slots
}
