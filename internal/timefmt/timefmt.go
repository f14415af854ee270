// Package timefmt provides the relative-time and urgency renderings used by
// donation listings: "posted 5m ago" strings and the badge class derived from
// how close a pickup deadline is.
package timefmt

import (
	"fmt"
	"time"
)

// Urgency classifies how close a pickup deadline is, mirroring the listing
// badges: nothing, "limited time" inside six hours, "expiring soon" inside
// two hours, "expired" once the deadline has passed. Expiry is advisory:
// an expired donation can still be claimed.
type Urgency string

const (
	UrgencyNone    Urgency = "none"
	UrgencyLimited Urgency = "limited"
	UrgencySoon    Urgency = "soon"
	UrgencyExpired Urgency = "expired"
)

// UrgencyAt returns the urgency class of a deadline as seen at now.
func UrgencyAt(deadline, now time.Time) Urgency {
	left := deadline.Sub(now)
	switch {
	case left <= 0:
		return UrgencyExpired
	case left <= 2*time.Hour:
		return UrgencySoon
	case left <= 6*time.Hour:
		return UrgencyLimited
	default:
		return UrgencyNone
	}
}

// Ago renders the elapsed time from t to now as a short relative string:
// "just now", "5m ago", "3h ago", "2d ago". Negative elapsed time (clock
// skew, future timestamps) renders as "just now".
func Ago(t, now time.Time) string {
	seconds := int(now.Sub(t).Seconds())
	if seconds < 60 {
		return "just now"
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm ago", minutes)
	}
	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}
	return fmt.Sprintf("%dd ago", hours/24)
}

// Display renders an absolute instant the way listing cards show pickup
// deadlines. Cached on the donation at creation so every viewer sees the
// same string.
func Display(t time.Time) string {
	return t.Format("Jan 2, 2006 3:04 PM")
}
