package resource

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday 2026-03-02.
var testDay = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(testDay.Year(), testDay.Month(), testDay.Day(), hour, minute, 0, 0, time.UTC)
}

func TestCheckAvailability(t *testing.T) {
	t.Run("no windows means always available", func(t *testing.T) {
		r := &Resource{}
		assert.NoError(t, CheckAvailability(r, at(3, 0), at(4, 0)))
	})

	t.Run("weekday window must contain the interval", func(t *testing.T) {
		r := &Resource{AvailabilityWindows: []AvailabilityWindow{
			{Weekday: 1, StartTime: "09:00", EndTime: "17:00"},
		}}

		assert.NoError(t, CheckAvailability(r, at(9, 0), at(17, 0))) // exact fit
		assert.NoError(t, CheckAvailability(r, at(10, 0), at(11, 0)))
		assert.ErrorIs(t, CheckAvailability(r, at(8, 30), at(9, 30)), ErrOutsideAvailability)
		assert.ErrorIs(t, CheckAvailability(r, at(16, 30), at(17, 30)), ErrOutsideAvailability)

		// Wrong weekday entirely.
		tuesday := at(10, 0).AddDate(0, 0, 1)
		assert.ErrorIs(t, CheckAvailability(r, tuesday, tuesday.Add(time.Hour)), ErrOutsideAvailability)
	})

	t.Run("date specific window overrides the weekday one", func(t *testing.T) {
		r := &Resource{AvailabilityWindows: []AvailabilityWindow{
			{Weekday: 1, StartTime: "09:00", EndTime: "17:00"},
			{Date: "2026-03-02", StartTime: "13:00", EndTime: "15:00"},
		}}

		// The recurring 09:00 slot does not apply on the overridden date.
		assert.ErrorIs(t, CheckAvailability(r, at(9, 0), at(10, 0)), ErrOutsideAvailability)
		assert.NoError(t, CheckAvailability(r, at(13, 0), at(14, 0)))
	})

	t.Run("blocked date rejects everything", func(t *testing.T) {
		r := &Resource{AvailabilityWindows: []AvailabilityWindow{
			{Weekday: 1, StartTime: "09:00", EndTime: "17:00"},
			{Date: "2026-03-02", Blocked: true},
		}}

		assert.ErrorIs(t, CheckAvailability(r, at(10, 0), at(11, 0)), ErrOutsideAvailability)

		// The following Monday is unaffected.
		next := at(10, 0).AddDate(0, 0, 7)
		assert.NoError(t, CheckAvailability(r, next, next.Add(time.Hour)))
	})
}

func TestOpenSpansOn(t *testing.T) {
	t.Run("defaults to business hours without windows", func(t *testing.T) {
		spans := OpenSpansOn(&Resource{}, testDay)
		require.Len(t, spans, 1)
		assert.Equal(t, at(8, 0), spans[0].Start)
		assert.Equal(t, at(20, 0), spans[0].End)
	})

	t.Run("resolves matching windows to instants", func(t *testing.T) {
		r := &Resource{AvailabilityWindows: []AvailabilityWindow{
			{Weekday: 1, StartTime: "09:00", EndTime: "12:00"},
			{Weekday: 1, StartTime: "14:00", EndTime: "18:00"},
			{Weekday: 2, StartTime: "08:00", EndTime: "20:00"},
		}}

		spans := OpenSpansOn(r, testDay)
		require.Len(t, spans, 2)
		assert.Equal(t, at(9, 0), spans[0].Start)
		assert.Equal(t, at(12, 0), spans[0].End)
		assert.Equal(t, at(14, 0), spans[1].Start)
	})

	t.Run("blocked date yields no spans", func(t *testing.T) {
		r := &Resource{AvailabilityWindows: []AvailabilityWindow{
			{Weekday: 1, StartTime: "09:00", EndTime: "17:00"},
			{Date: "2026-03-02", Blocked: true},
		}}
		assert.Empty(t, OpenSpansOn(r, testDay))
	})

	t.Run("uncovered day yields no spans", func(t *testing.T) {
		r := &Resource{AvailabilityWindows: []AvailabilityWindow{
			{Weekday: 3, StartTime: "09:00", EndTime: "17:00"},
		}}
		assert.Empty(t, OpenSpansOn(r, testDay))
	})
}

func TestWindowValidate(t *testing.T) {
	cases := []struct {
		name   string
		window AvailabilityWindow
		ok     bool
	}{
		{"valid weekday window", AvailabilityWindow{Weekday: 1, StartTime: "09:00", EndTime: "17:00"}, true},
		{"valid date window", AvailabilityWindow{Date: "2026-03-02", StartTime: "09:00", EndTime: "17:00"}, true},
		{"valid blocked date", AvailabilityWindow{Date: "2026-03-02", Blocked: true}, true},
		{"bad weekday", AvailabilityWindow{Weekday: 7, StartTime: "09:00", EndTime: "17:00"}, false},
		{"bad date format", AvailabilityWindow{Date: "03/02/2026", StartTime: "09:00", EndTime: "17:00"}, false},
		{"bad clock value", AvailabilityWindow{Weekday: 1, StartTime: "9am", EndTime: "17:00"}, false},
		{"end not after start", AvailabilityWindow{Weekday: 1, StartTime: "17:00", EndTime: "09:00"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.window.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidWindow)
			}
		})
	}
}
