// Package notify delivers booking status-change notifications to requesters.
// Delivery is fire and forget: the booking pipeline logs failures and never
// lets them abort a transition.
package notify

import (
	"context"
	"fmt"
	"time"
)

// Event describes one booking status change.
type Event struct {
	ID           string    `json:"id"`   // unique per delivery, lets consumers dedupe
	Type         string    `json:"type"` // e.g. "booking.approved"
	BookingID    string    `json:"booking_id"`
	UserID       string    `json:"user_id"`
	ResourceName string    `json:"resource_name"`
	Title        string    `json:"title"`
	Status       string    `json:"status"`
	Reason       string    `json:"reason,omitempty"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Notifier delivers booking events to the requester's notification channel.
type Notifier interface {
	BookingStatusChanged(ctx context.Context, e Event) error
	Close() error
}

// Message renders the user-facing notification text for an event. It is a
// pure mapping from the typed event, no template engine involved.
func Message(e Event) string {
	when := e.StartTime.Format("Mon Jan 2 15:04") + "–" + e.EndTime.Format("15:04")

	switch e.Status {
	case "pending":
		return fmt.Sprintf("Your reservation %q (%s) was received and is awaiting review.", e.Title, when)
	case "approved":
		return fmt.Sprintf("Your reservation %q (%s) on %s is approved.", e.Title, when, e.ResourceName)
	case "declined":
		if e.Reason != "" {
			return fmt.Sprintf("Your reservation %q (%s) was declined: %s", e.Title, when, e.Reason)
		}
		return fmt.Sprintf("Your reservation %q (%s) was declined.", e.Title, when)
	case "cancelled":
		if e.Reason != "" {
			return fmt.Sprintf("Your reservation %q (%s) was cancelled: %s", e.Title, when, e.Reason)
		}
		return fmt.Sprintf("Your reservation %q (%s) was cancelled.", e.Title, when)
	case "completed":
		return fmt.Sprintf("Your reservation %q (%s) is complete.", e.Title, when)
	case "no_show":
		return fmt.Sprintf("Your reservation %q (%s) was marked as a no-show.", e.Title, when)
	default:
		return fmt.Sprintf("Your reservation %q (%s) changed status to %s.", e.Title, when, e.Status)
	}
}
