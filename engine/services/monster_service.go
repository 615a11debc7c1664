package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/monstergarden/monstergarden/engine/database/models"
	"github.com/monstergarden/monstergarden/engine/database/repositories"
	"github.com/monstergarden/monstergarden/engine/events"
	"github.com/monstergarden/monstergarden/engine/leveling"
	"github.com/monstergarden/monstergarden/engine/metrics"
)

// MonsterService owns monster creation and care actions. Creation charges a
// cost that grows with the user's existing monster count; care actions pay
// coins and XP through the leveling service.
type MonsterService struct {
	monsterRepo repositories.MonsterRepository
	walletSvc   *WalletService
	leveling    *leveling.Service
	tracker     *QuestTracker
	bus         *events.Bus
}

func NewMonsterService(
	monsterRepo repositories.MonsterRepository,
	walletSvc *WalletService,
	levelingSvc *leveling.Service,
	tracker *QuestTracker,
	bus *events.Bus,
) *MonsterService {
	return &MonsterService{
		monsterRepo: monsterRepo,
		walletSvc:   walletSvc,
		leveling:    levelingSvc,
		tracker:     tracker,
		bus:         bus,
	}
}

func (ms *MonsterService) GetMonster(ctx context.Context, userID, monsterID string) (*models.Monster, error) {
	return ms.monsterRepo.GetOwned(ctx, userID, monsterID)
}

func (ms *MonsterService) ListMonsters(ctx context.Context, userID string) ([]*models.Monster, error) {
	return ms.monsterRepo.ListByOwner(ctx, userID)
}

// CreateMonster creates a monster for the user, debiting the creation cost
// first. The first monster is free; each further one costs more. If the insert
// fails after the debit the cost is refunded.
func (ms *MonsterService) CreateMonster(ctx context.Context, userID, name, state string) (*models.Monster, error) {
	if name == "" {
		return nil, &repositories.InvalidRangeError{Field: "name", Value: name}
	}
	if state == "" {
		state = models.StateContent
	}
	if !validMonsterState(state) {
		return nil, &repositories.InvalidRangeError{Field: "state", Value: state}
	}

	count, err := ms.monsterRepo.CountByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count monsters: %w", err)
	}

	calc := ms.leveling.Calculator()
	cost := calc.CreationCost(count)
	if cost > 0 {
		if _, err := ms.walletSvc.Debit(ctx, userID, cost, "monster_creation"); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	monster := &models.Monster{
		ID:        uuid.NewString(),
		OwnerID:   userID,
		Name:      name,
		State:     state,
		Level:     1,
		XP:        0,
		MaxXP:     calc.MaxXP(1),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := ms.monsterRepo.Create(ctx, monster); err != nil {
		if cost > 0 {
			if _, refundErr := ms.walletSvc.Credit(ctx, userID, cost, "monster_creation_refund"); refundErr != nil {
				slog.Error("Failed to refund monster creation cost",
					slog.String("type", "error"),
					slog.String("user_id", userID),
					slog.Int64("cost", cost),
					slog.Any("error", refundErr))
			}
		}
		return nil, fmt.Errorf("failed to create monster: %w", err)
	}

	slog.Info("Monster created",
		slog.String("user_id", userID),
		slog.String("monster_id", monster.ID),
		slog.String("name", name),
		slog.Int64("cost", cost))

	ms.bus.Publish(events.MonsterOwnershipChanged{
		UserID: userID,
		Count:  count + 1,
	})

	return monster, nil
}

// PerformAction applies one care action to one of the user's monsters and
// credits the coin reward. Matching the monster's current state doubles the
// coins; quest tracking and level-up triggers ride on the same call.
func (ms *MonsterService) PerformAction(ctx context.Context, userID, monsterID, action string) (*leveling.ActionResult, error) {
	monster, err := ms.monsterRepo.GetOwned(ctx, userID, monsterID)
	if err != nil {
		return nil, err
	}

	result, err := ms.leveling.ApplyCareAction(ctx, monster, action)
	if err != nil {
		return nil, err
	}
	metrics.CareActions.WithLabelValues(action).Inc()

	if result.CoinsEarned > 0 {
		if _, err := ms.walletSvc.Credit(ctx, userID, result.CoinsEarned, "care_action:"+action); err != nil {
			// The action already landed on the monster; losing the coins would
			// punish the user twice, so surface the failure.
			return nil, fmt.Errorf("failed to credit care reward: %w", err)
		}
	}

	ms.tracker.TrackCareAction(ctx, userID, monsterID, action)

	if result.LeveledUp {
		slog.Info("Monster leveled up",
			slog.String("user_id", userID),
			slog.String("monster_id", monsterID),
			slog.Int("level", result.NewLevel))
		ms.bus.Publish(events.MonsterLeveled{
			UserID:   userID,
			NewLevel: result.NewLevel,
		})
	}

	return result, nil
}

func validMonsterState(state string) bool {
	if state == models.StateContent {
		return true
	}
	for _, target := range models.ActionTargetState {
		if state == target {
			return true
		}
	}
	return false
}
