package priority

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	t.Run("base score is purpose plus role times level", func(t *testing.T) {
		got := Score(Input{Purpose: "examination", Role: "admin", Level: "critical"})
		assert.InDelta(t, 400.0, got, 1e-9) // (100+100)*2.0

		got = Score(Input{Purpose: "meeting", Role: "student", Level: "low"})
		assert.InDelta(t, 45.0, got, 1e-9) // (50+40)*0.5
	})

	t.Run("empty or unknown level falls back to normal", func(t *testing.T) {
		base := Score(Input{Purpose: "academic", Role: "faculty"})
		assert.InDelta(t, 150.0, base, 1e-9)
		assert.InDelta(t, base, Score(Input{Purpose: "academic", Role: "faculty", Level: "weird"}), 1e-9)
	})

	t.Run("department match adds bonus then scales by weight", func(t *testing.T) {
		got := Score(Input{
			Purpose:            "academic",
			Role:               "faculty",
			Level:              "normal",
			DepartmentMatch:    true,
			DeptPriorityWeight: 10,
		})
		// ((80+70)*1 + 20) * (1 + 10/10) = 340
		assert.InDelta(t, 340.0, got, 1e-9)
	})

	t.Run("department weight applies without a match", func(t *testing.T) {
		// The requester's weight scales the score even when booking another
		// department's resource; only the flat bonus needs a match.
		got := Score(Input{
			Purpose:            "academic",
			Role:               "faculty",
			Level:              "normal",
			DeptPriorityWeight: 10,
		})
		// (80+70)*1 * (1 + 10/10) = 300
		assert.InDelta(t, 300.0, got, 1e-9)
	})

	t.Run("weight outside range is clamped", func(t *testing.T) {
		ten := Score(Input{Purpose: "academic", Role: "faculty", DepartmentMatch: true, DeptPriorityWeight: 10})
		over := Score(Input{Purpose: "academic", Role: "faculty", DepartmentMatch: true, DeptPriorityWeight: 99})
		assert.InDelta(t, ten, over, 1e-9)

		zero := Score(Input{Purpose: "academic", Role: "faculty", DepartmentMatch: true, DeptPriorityWeight: 0})
		under := Score(Input{Purpose: "academic", Role: "faculty", DepartmentMatch: true, DeptPriorityWeight: -3})
		assert.InDelta(t, zero, under, 1e-9)
	})

	t.Run("advance booking and recurring add on top", func(t *testing.T) {
		base := Score(Input{Purpose: "research", Role: "student"})
		week := Score(Input{Purpose: "research", Role: "student", DaysInAdvance: 7})
		assert.InDelta(t, base+7, week, 1e-9)

		recurring := Score(Input{Purpose: "research", Role: "student", Recurring: true})
		assert.InDelta(t, base+15, recurring, 1e-9)
	})

	t.Run("external attendees apply a final penalty", func(t *testing.T) {
		internal := Score(Input{Purpose: "event", Role: "faculty", Recurring: true})
		external := Score(Input{Purpose: "event", Role: "faculty", Recurring: true, ExternalAttendees: true})
		assert.InDelta(t, internal*0.9, external, 1e-9)
	})

	t.Run("raising the level strictly raises the score", func(t *testing.T) {
		levels := []string{"low", "normal", "high", "critical"}
		for purpose := range purposeWeights {
			prev := -1.0
			for _, level := range levels {
				got := Score(Input{Purpose: purpose, Role: "faculty", Level: level})
				assert.Greater(t, got, prev, "purpose %s level %s", purpose, level)
				prev = got
			}
		}
	})
}

func TestResolve(t *testing.T) {
	cases := []struct {
		name     string
		new      float64
		existing float64
		isAdmin  bool
		want     Resolution
	}{
		{"large margin overrides", 151, 100, false, ResolutionOverride},
		{"margin of exactly fifty goes to review", 150, 100, false, ResolutionAdminReview},
		{"margin of exactly twenty goes to review", 120, 100, false, ResolutionAdminReview},
		{"margin below twenty rejects", 119, 100, false, ResolutionReject},
		{"lower score rejects", 50, 100, false, ResolutionReject},
		{"admin always gets admin override", 10, 500, true, ResolutionAdminOverride},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Resolve(tc.new, tc.existing, tc.isAdmin))
		})
	}
}
