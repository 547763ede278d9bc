package approval

import (
	"time"
)

// Context is the booking information a rule is evaluated against.
type Context struct {
	Role            string
	ResourceType    string
	Purpose         string
	Duration        time.Duration
	StartTime       time.Time
	DepartmentMatch bool
	DaysInAdvance   int
}

// Decision is the outcome of rule evaluation. When no rule matches, Matched
// is false and the booking falls back to manual review.
type Decision struct {
	AutoApprove bool
	RuleID      string
	Matched     bool
}

// Evaluate runs the rules in order against ctx and returns the first match.
// Callers pass rules already filtered to active ones in the right scope and
// sorted ascending by priority; Evaluate itself is deterministic and pure.
func Evaluate(rules []*Rule, ctx Context) Decision {
	for _, r := range rules {
		if !r.Active {
			continue
		}
		if r.matches(ctx) {
			return Decision{
				AutoApprove: r.AutoApprove,
				RuleID:      r.ID,
				Matched:     true,
			}
		}
	}
	return Decision{}
}

// matches evaluates the rule's condition set as a conjunction. Unset
// conditions always pass.
func (r *Rule) matches(ctx Context) bool {
	if len(r.ResourceTypes) > 0 && !containsString(r.ResourceTypes, ctx.ResourceType) {
		return false
	}
	if len(r.Roles) > 0 && !containsString(r.Roles, ctx.Role) {
		return false
	}
	if len(r.Purposes) > 0 && !containsString(r.Purposes, ctx.Purpose) {
		return false
	}

	minutes := int(ctx.Duration.Minutes())
	if r.MinDurationMinutes > 0 && minutes < r.MinDurationMinutes {
		return false
	}
	if r.MaxDurationMinutes > 0 && minutes > r.MaxDurationMinutes {
		return false
	}

	if r.TimeOfDayStart != "" && r.TimeOfDayEnd != "" {
		if !withinClockSpan(ctx.StartTime, r.TimeOfDayStart, r.TimeOfDayEnd) {
			return false
		}
	}

	if len(r.DaysOfWeek) > 0 && !containsInt(r.DaysOfWeek, int(ctx.StartTime.Weekday())) {
		return false
	}

	if r.RequireDeptMatch && !ctx.DepartmentMatch {
		return false
	}

	if r.MaxAdvanceDays > 0 && ctx.DaysInAdvance > r.MaxAdvanceDays {
		return false
	}

	return true
}

// withinClockSpan reports whether t's local clock time falls in [start, end).
func withinClockSpan(t time.Time, start, end string) bool {
	s, err := time.Parse("15:04", start)
	if err != nil {
		return false
	}
	e, err := time.Parse("15:04", end)
	if err != nil {
		return false
	}

	clock := t.Hour()*60 + t.Minute()
	sm := s.Hour()*60 + s.Minute()
	em := e.Hour()*60 + e.Minute()

	return clock >= sm && clock < em
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsInt(list []int, v int) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
