package stripe

import "strings"

const (
	StatusActive   = "active"
	StatusTrialing = "trialing"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
	StatusInactive = "inactive"
)

// NormalizeStripeStatus folds Stripe subscription statuses onto the five
// statuses stored on users. Unknown or empty values become inactive.
func NormalizeStripeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return StatusActive
	case "trialing":
		return StatusTrialing
	case "past_due", "unpaid":
		return StatusPastDue
	case "canceled", "incomplete_expired":
		return StatusCanceled
	default:
		return StatusInactive
	}
}

// GrantsAccess reports whether a normalized status keeps paid features on.
func GrantsAccess(status string) bool {
	return status == StatusActive || status == StatusTrialing
}
