package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/reservation-backend/internal/resource"
)

func TestFreeSlots(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // Monday
	at := func(hour int) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.UTC)
	}
	booked := func(from, to int) *Booking {
		return &Booking{Status: StatusApproved, StartTime: at(from), EndTime: at(to)}
	}

	res := &resource.Resource{AvailabilityWindows: []resource.AvailabilityWindow{
		{Weekday: 1, StartTime: "09:00", EndTime: "12:00"},
		{Weekday: 1, StartTime: "14:00", EndTime: "18:00"},
	}}

	t.Run("gaps around bookings in both spans", func(t *testing.T) {
		gaps := FreeSlots(res, []*Booking{booked(10, 11), booked(14, 15)}, day)
		require.Len(t, gaps, 3)
		assert.Equal(t, TimeSlot{StartTime: at(9), EndTime: at(10)}, gaps[0])
		assert.Equal(t, TimeSlot{StartTime: at(11), EndTime: at(12)}, gaps[1])
		assert.Equal(t, TimeSlot{StartTime: at(15), EndTime: at(18)}, gaps[2])
	})

	t.Run("fully booked span yields nothing", func(t *testing.T) {
		gaps := FreeSlots(res, []*Booking{booked(9, 12), booked(14, 18)}, day)
		assert.Empty(t, gaps)
	})

	t.Run("no bookings returns the open spans", func(t *testing.T) {
		gaps := FreeSlots(res, nil, day)
		require.Len(t, gaps, 2)
		assert.Equal(t, at(9), gaps[0].StartTime)
		assert.Equal(t, at(14), gaps[1].StartTime)
	})

	t.Run("suggestions fit the requested duration and cap at three", func(t *testing.T) {
		slots := suggestAlternatives(res, []*Booking{booked(10, 11)}, at(10), 30*time.Minute)
		require.Len(t, slots, 3)
		for _, s := range slots {
			assert.Equal(t, 30*time.Minute, s.EndTime.Sub(s.StartTime))
		}
		// A gap too small for the duration is skipped.
		slots = suggestAlternatives(res, []*Booking{booked(10, 11)}, at(10), 2*time.Hour)
		require.Len(t, slots, 1)
		assert.Equal(t, at(14), slots[0].StartTime)
	})
}
