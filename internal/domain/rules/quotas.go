package rules

import "time"

const (
	FreeLikesPerDay = 20
	LikeWindow      = 24 * time.Hour
)

// UnlimitedRemaining is reported as the remaining like count for premium users.
const UnlimitedRemaining = -1

func UnlimitedLikes(isPremium bool) bool {
	return isPremium
}

// RemainingLikes clamps cap-used to zero.
func RemainingLikes(limit int, used int64) int {
	left := int64(limit) - used
	if left < 0 {
		return 0
	}
	return int(left)
}

// WindowResetAt is when a window with left time to run closes, or nil if it
// is already closed.
func WindowResetAt(now time.Time, left time.Duration) *time.Time {
	if left <= 0 {
		return nil
	}
	at := now.Add(left).UTC()
	return &at
}
