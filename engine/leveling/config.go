package leveling

import "time"

type Config struct {
	// XP curve
	BaseXP int64

	// Monster creation cost curve
	BaseCost int64

	// Care action rewards
	ActionCoinReward  int64
	MatchedStateBonus int64 // coin multiplier when action matches state
	ActionXPReward    int64 // flat per action, unaffected by matching

	// Cooldowns and limits
	ActionCooldown   time.Duration
	DailyActionLimit int

	// Care stats cache
	StatsCacheSize int
}

func NewDefaultConfig() *Config {
	return &Config{
		BaseXP:            100,
		BaseCost:          100,
		ActionCoinReward:  5,
		MatchedStateBonus: 2,
		ActionXPReward:    25,
		ActionCooldown:    0, // no cooldown between care actions
		DailyActionLimit:  0, // unlimited
		StatsCacheSize:    16384,
	}
}
