// Package priority computes booking precedence scores and decides how
// conflicting requests are resolved. Everything here is pure computation;
// callers supply the already-resolved inputs.
package priority

// Reference weight tables. Higher score always means higher precedence.
var purposeWeights = map[string]float64{
	"examination": 100,
	"academic":    80,
	"research":    70,
	"workshop":    60,
	"meeting":     50,
	"event":       40,
	"maintenance": 30,
}

var roleWeights = map[string]float64{
	"admin":   100,
	"faculty": 70,
	"student": 40,
}

var levelMultipliers = map[string]float64{
	"critical": 2.0,
	"high":     1.5,
	"normal":   1.0,
	"low":      0.5,
}

const (
	departmentMatchBonus = 20
	recurringBonus       = 15
	advanceBookingFactor = 0.1 // per day
	externalPenalty      = 0.9
)

// Input carries everything the scorer needs about one booking request.
type Input struct {
	Purpose            string
	Role               string
	Level              string // low / normal / high / critical
	DepartmentMatch    bool   // requester's department owns the resource
	DeptPriorityWeight int    // requester's department weight 0-10, doubles at 10
	DaysInAdvance      float64
	Recurring          bool
	ExternalAttendees  bool
}

// Score computes the priority score:
//
//	(purposeWeight + roleWeight) * levelMultiplier
//	+ departmentMatchBonus (if matched)
//	*= 1 + deptWeight/10
//	+ daysInAdvance * advanceBookingFactor * 10
//	+ recurringBonus (if recurring)
//	*= 0.9 (if external attendees)
//
// The result is non-negative and unbounded above.
func Score(in Input) float64 {
	level := in.Level
	if level == "" {
		level = "normal"
	}
	mult, ok := levelMultipliers[level]
	if !ok {
		mult = 1.0
	}

	score := (purposeWeights[in.Purpose] + roleWeights[in.Role]) * mult

	if in.DepartmentMatch {
		score += departmentMatchBonus
	}
	score *= 1 + float64(clampWeight(in.DeptPriorityWeight))/10

	if in.DaysInAdvance > 0 {
		score += in.DaysInAdvance * advanceBookingFactor * 10
	}

	if in.Recurring {
		score += recurringBonus
	}

	if in.ExternalAttendees {
		score *= externalPenalty
	}

	if score < 0 {
		score = 0
	}
	return score
}

func clampWeight(w int) int {
	if w < 0 {
		return 0
	}
	if w > 10 {
		return 10
	}
	return w
}
