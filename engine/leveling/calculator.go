package leveling

import (
	"math"

	"github.com/monstergarden/monstergarden/engine/database/models"
)

type Calculator struct {
	config *Config
}

func NewCalculator(config *Config) *Calculator {
	return &Calculator{config: config}
}

// MaxXP returns the XP threshold for leaving the given level.
func (c *Calculator) MaxXP(level int) int64 {
	return int64(math.Floor(float64(c.config.BaseXP) * math.Pow(float64(level), 1.5)))
}

// CreationCost returns the coin cost of adopting the next monster given how
// many the user already owns. The first monster is free; after that the cost
// grows concavely so each extra monster costs more with diminishing growth.
func (c *Calculator) CreationCost(existingCount int) int64 {
	if existingCount <= 0 {
		return 0
	}
	return int64(math.Floor(float64(c.config.BaseCost) * math.Log2(float64(existingCount+1))))
}

// ActionCoins returns the coin reward for a care action against a monster in
// the given state. Matching the state the action relieves doubles the coins.
func (c *Calculator) ActionCoins(action, state string) (int64, bool) {
	matched := models.ActionTargetState[action] == state
	coins := c.config.ActionCoinReward
	if matched {
		coins *= c.config.MatchedStateBonus
	}
	return coins, matched
}

// ActionXP returns the flat XP reward for any care action.
func (c *Calculator) ActionXP() int64 {
	return c.config.ActionXPReward
}

// ApplyXP adds gain to the monster's XP and resolves any level-ups. Excess XP
// beyond a threshold carries into the new level; crossing several thresholds
// in one call is handled.
func (c *Calculator) ApplyXP(level int, xp, gain int64) (newLevel int, newXP, newMaxXP int64, leveledUp bool) {
	newLevel = level
	newXP = xp + gain

	for newXP >= c.MaxXP(newLevel) {
		newXP -= c.MaxXP(newLevel)
		newLevel++
		leveledUp = true
	}

	return newLevel, newXP, c.MaxXP(newLevel), leveledUp
}
