package leveling

import "time"

// ActionResult reports the outcome of one care action.
type ActionResult struct {
	LeveledUp   bool
	NewLevel    int
	NewXP       int64
	NewMaxXP    int64
	XPGained    int64
	CoinsEarned int64
	Matched     bool
}

// CareStats tracks recent care activity per (user, monster) for cooldown and
// limit checks.
type CareStats struct {
	LastAction   time.Time
	DailyActions int
	DailyReset   time.Time
	TotalActions int64
}
