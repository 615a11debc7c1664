package leveling

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/monstergarden/monstergarden/engine/database/models"
	"github.com/monstergarden/monstergarden/engine/database/repositories"
)

// ErrActionOnCooldown is returned when a care action arrives before the
// configured cooldown or past the daily limit.
var ErrActionOnCooldown = errors.New("care action on cooldown")

// maxProgressionAttempts bounds the re-read-and-retry loop around the guarded
// progression update when actions on the same monster race.
const maxProgressionAttempts = 3

type Service struct {
	config      *Config
	calculator  *Calculator
	monsterRepo repositories.MonsterRepository

	// statsMu guards every read and write of the cached CareStats entries;
	// the cache hands out shared pointers.
	statsMu sync.Mutex
	stats   *lru.Cache
}

func NewService(config *Config, monsterRepo repositories.MonsterRepository) *Service {
	cache, err := lru.New(config.StatsCacheSize)
	if err != nil {
		// Only possible with a non-positive size.
		panic(err)
	}
	return &Service{
		config:      config,
		calculator:  NewCalculator(config),
		monsterRepo: monsterRepo,
		stats:       cache,
	}
}

func (s *Service) Calculator() *Calculator {
	return s.calculator
}

// ApplyCareAction computes the rewards for one care action, applies XP and
// level-ups to the monster and persists the new progression fields. The
// action settles the monster's state back to content. Concurrent actions on
// the same monster are serialized by a guarded update: a write computed from
// a stale snapshot is rejected by the store, and the loop re-reads and
// recomputes so no XP is lost.
func (s *Service) ApplyCareAction(ctx context.Context, monster *models.Monster, action string) (*ActionResult, error) {
	if _, ok := models.ActionTargetState[action]; !ok {
		return nil, fmt.Errorf("unknown care action: %s", action)
	}

	careStats := s.getStats(monster.OwnerID, monster.ID)
	if !s.canAct(careStats) {
		return nil, ErrActionOnCooldown
	}

	xpGain := s.calculator.ActionXP()

	for attempt := 1; ; attempt++ {
		coins, matched := s.calculator.ActionCoins(action, monster.State)
		prevLevel, prevXP := monster.Level, monster.XP
		newLevel, newXP, newMaxXP, leveledUp := s.calculator.ApplyXP(prevLevel, prevXP, xpGain)

		monster.Level = newLevel
		monster.XP = newXP
		monster.MaxXP = newMaxXP
		monster.State = models.StateContent

		err := s.monsterRepo.UpdateProgression(ctx, monster, prevLevel, prevXP)
		if err == nil {
			s.updateStats(monster.OwnerID, monster.ID)
			return &ActionResult{
				LeveledUp:   leveledUp,
				NewLevel:    newLevel,
				NewXP:       newXP,
				NewMaxXP:    newMaxXP,
				XPGained:    xpGain,
				CoinsEarned: coins,
				Matched:     matched,
			}, nil
		}

		var swe *repositories.StaleWriteError
		if !errors.As(err, &swe) {
			return nil, err
		}
		if attempt >= maxProgressionAttempts {
			return nil, &repositories.StorageConflictError{Operation: "care action", Attempts: attempt}
		}

		fresh, err := s.monsterRepo.GetOwned(ctx, monster.OwnerID, monster.ID)
		if err != nil {
			return nil, err
		}
		*monster = *fresh
	}
}

// getStats returns a copy of the cached care stats so callers never touch the
// shared entry without the lock.
func (s *Service) getStats(userID, monsterID string) CareStats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	key := fmt.Sprintf("%s:%s", userID, monsterID)
	if v, ok := s.stats.Get(key); ok {
		return *(v.(*CareStats))
	}
	return CareStats{}
}

func (s *Service) updateStats(userID, monsterID string) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	key := fmt.Sprintf("%s:%s", userID, monsterID)
	var careStats *CareStats
	if v, ok := s.stats.Get(key); ok {
		careStats = v.(*CareStats)
	} else {
		careStats = &CareStats{}
	}
	now := time.Now()
	if now.Sub(careStats.DailyReset) >= 24*time.Hour {
		careStats.DailyActions = 0
		careStats.DailyReset = now
	}
	careStats.LastAction = now
	careStats.DailyActions++
	careStats.TotalActions++
	s.stats.Add(key, careStats)
}

func (s *Service) canAct(careStats CareStats) bool {
	if s.config.ActionCooldown > 0 && time.Since(careStats.LastAction) < s.config.ActionCooldown {
		return false
	}
	if s.config.DailyActionLimit > 0 && time.Since(careStats.DailyReset) < 24*time.Hour &&
		careStats.DailyActions >= s.config.DailyActionLimit {
		return false
	}
	return true
}
