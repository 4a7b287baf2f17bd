package service

import "fmt"

// A deadline of zero means the poll never closes.
const (
	urgentWindow = 3600 // seconds

	MarkerNoDeadline = "no deadline"
	MarkerExpired    = "expired"
	MarkerClosing    = "about to expire"
)

// Expired reports whether the deadline has passed. Equality is not yet
// expired; a zero deadline never expires.
func Expired(deadline, now int64) bool {
	return deadline != 0 && now > deadline
}

// Urgent reports whether the poll closes within the next hour. Used only for
// display emphasis.
func Urgent(deadline, now int64) bool {
	if deadline == 0 {
		return false
	}
	left := deadline - now
	return left > 0 && left <= urgentWindow
}

// Countdown derives the human-readable time remaining until deadline,
// capped at the two most significant units. Pure; callers re-invoke it on
// their own tick to get a live countdown.
func Countdown(deadline, now int64) string {
	if deadline == 0 {
		return MarkerNoDeadline
	}
	left := deadline - now
	if left <= 0 {
		return MarkerExpired
	}

	days := left / 86400
	hours := (left % 86400) / 3600
	minutes := (left % 3600) / 60
	seconds := left % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	case seconds > 0:
		return fmt.Sprintf("%ds", seconds)
	default:
		return MarkerClosing
	}
}
