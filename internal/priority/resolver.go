package priority

import "time"

// Resolution classifies how a conflicting request should proceed.
type Resolution string

const (
	// ResolutionOverride displaces the conflicting booking automatically.
	ResolutionOverride Resolution = "override"
	// ResolutionAdminOverride applies when the requester is an admin,
	// regardless of score.
	ResolutionAdminOverride Resolution = "admin_override"
	// ResolutionAdminReview escalates the conflict to manual review.
	ResolutionAdminReview Resolution = "admin_review"
	// ResolutionReject leaves the existing booking untouched.
	ResolutionReject Resolution = "reject"
)

const (
	overrideThreshold    = 50
	adminReviewThreshold = 20
	bumpScoreThreshold   = 40
	bumpNoticeHours      = 24
)

// Resolve recommends a resolution for a new booking scoring newScore against
// the highest-scoring conflicting booking. Admin requesters always get
// admin_override.
func Resolve(newScore, topConflictScore float64, isAdmin bool) Resolution {
	if isAdmin {
		return ResolutionAdminOverride
	}

	diff := newScore - topConflictScore
	switch {
	case diff > overrideThreshold:
		return ResolutionOverride
	case diff >= adminReviewThreshold:
		return ResolutionAdminReview
	default:
		return ResolutionReject
	}
}

// CanBump authorizes displacing an existing approved booking. The challenger
// must outscore it by at least 40 points, and the displaced booking must
// start at least 24 hours after now. Admins bypass only the notice check,
// never the score threshold.
func CanBump(challengerScore, existingScore float64, existingStart, now time.Time, isAdmin bool) bool {
	if challengerScore-existingScore < bumpScoreThreshold {
		return false
	}
	if isAdmin {
		return true
	}
	return existingStart.Sub(now) >= bumpNoticeHours*time.Hour
}
