package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/monstergarden/monstergarden/engine/catalog"
	"github.com/monstergarden/monstergarden/engine/database/models"
	"github.com/monstergarden/monstergarden/engine/database/repositories"
	"github.com/monstergarden/monstergarden/engine/events"
	"github.com/monstergarden/monstergarden/engine/metrics"
)

// QuestStatus is one quest definition joined with the user's progress on it.
// Missing rows are created zeroed the first time anything touches the quest,
// whether that is a progress write or the board listing itself.
type QuestStatus struct {
	Definition catalog.QuestDefinition `json:"definition"`
	Progress   int                     `json:"progress"`
	Completed  bool                    `json:"completed"`
	Claimed    bool                    `json:"claimed"`
	Claimable  bool                    `json:"claimable"`
}

// QuestBoard is the full quest view for one user.
type QuestBoard struct {
	Daily        []QuestStatus `json:"daily"`
	Achievements []QuestStatus `json:"achievements"`
}

// ClaimResult reports a successful reward claim.
type ClaimResult struct {
	QuestID string `json:"quest_id"`
	Reward  int64  `json:"reward"`
	Balance int64  `json:"balance"`
}

// QuestService applies progress updates and reward claims against the static
// quest catalog. Progress routing is by objective: one user action can advance
// several quests that track the same objective.
type QuestService struct {
	catalog      *catalog.Catalog
	progressRepo repositories.QuestProgressRepository
	walletSvc    *WalletService
}

func NewQuestService(cat *catalog.Catalog, progressRepo repositories.QuestProgressRepository, walletSvc *WalletService) *QuestService {
	return &QuestService{
		catalog:      cat,
		progressRepo: progressRepo,
		walletSvc:    walletSvc,
	}
}

// RegisterTriggers subscribes the cross-entity quest triggers. Wallet, unlock
// and monster writes publish events; the handlers fold them into quest
// progress without those writers knowing about quests.
func (qs *QuestService) RegisterTriggers(bus *events.Bus) {
	bus.Subscribe(events.WalletChanged{}.EventName(), func(ctx context.Context, evt events.Event) error {
		e := evt.(events.WalletChanged)
		return qs.ObserveAbsolute(ctx, e.UserID, catalog.ObjectiveReachCoins, int(e.TotalEarned))
	})
	bus.Subscribe(events.BackgroundUnlocked{}.EventName(), func(ctx context.Context, evt events.Event) error {
		e := evt.(events.BackgroundUnlocked)
		return qs.IncrementProgress(ctx, e.UserID, catalog.ObjectiveUnlockBackgrounds, 1)
	})
	bus.Subscribe(events.MonsterOwnershipChanged{}.EventName(), func(ctx context.Context, evt events.Event) error {
		e := evt.(events.MonsterOwnershipChanged)
		return qs.ObserveAbsolute(ctx, e.UserID, catalog.ObjectiveOwnMonsters, e.Count)
	})
	bus.Subscribe(events.MonsterLeveled{}.EventName(), func(ctx context.Context, evt events.Event) error {
		e := evt.(events.MonsterLeveled)
		return qs.ObserveAbsolute(ctx, e.UserID, catalog.ObjectiveLevelUpMonster, e.NewLevel)
	})
}

// ListQuests returns the user's quest board, grouped into dailies and
// achievements in catalog order. Catalog entries the user has no row for yet
// are created zeroed here, so every listed quest is backed by a real row.
func (qs *QuestService) ListQuests(ctx context.Context, userID string) (*QuestBoard, error) {
	rows, err := qs.progressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quest progress: %w", err)
	}

	byQuest := make(map[string]*models.QuestProgress, len(rows))
	for _, row := range rows {
		byQuest[row.QuestID] = row
	}

	board := &QuestBoard{}
	for _, def := range qs.catalog.List() {
		row, ok := byQuest[def.ID]
		if !ok {
			row, err = qs.progressRepo.GetOrCreate(ctx, userID, def.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to create progress for %s: %w", def.ID, err)
			}
		}
		status := QuestStatus{
			Definition: def,
			Progress:   row.Progress,
			Completed:  row.Completed(),
			Claimed:    row.Claimed(),
			Claimable:  row.Completed() && !row.Claimed(),
		}
		switch def.Type {
		case catalog.QuestTypeDaily:
			board.Daily = append(board.Daily, status)
		case catalog.QuestTypeAchievement:
			board.Achievements = append(board.Achievements, status)
		}
	}
	return board, nil
}

// IncrementProgress advances every quest tracking the given objective by
// delta, clamped at each quest's target. Quests already completed are
// untouched.
func (qs *QuestService) IncrementProgress(ctx context.Context, userID, objective string, delta int) error {
	for _, def := range qs.catalog.ByObjective(objective) {
		progress, err := qs.progressRepo.AddProgress(ctx, userID, def.ID, delta, def.Target)
		if err != nil {
			return fmt.Errorf("failed to add progress for %s: %w", def.ID, err)
		}
		qs.logCompletion(userID, def, progress)
	}
	return nil
}

// ObserveAbsolute records an observed absolute value (a balance, a count, a
// level) for every quest tracking the objective. Progress only ever moves
// toward the target: a lower observation later never regresses it.
func (qs *QuestService) ObserveAbsolute(ctx context.Context, userID, objective string, observed int) error {
	for _, def := range qs.catalog.ByObjective(objective) {
		progress, err := qs.progressRepo.RaiseProgress(ctx, userID, def.ID, observed, def.Target)
		if err != nil {
			return fmt.Errorf("failed to raise progress for %s: %w", def.ID, err)
		}
		qs.logCompletion(userID, def, progress)
	}
	return nil
}

// TrackDistinct counts member toward every distinct-set quest on the
// objective. Each member is counted once per quest; repeats are no-ops. The
// set union happens in the store, so concurrent trackers of different members
// all land.
func (qs *QuestService) TrackDistinct(ctx context.Context, userID, objective, member string) error {
	for _, def := range qs.catalog.ByObjective(objective) {
		progress, err := qs.progressRepo.AddDistinctMember(ctx, userID, def.ID, member, def.Target)
		if err != nil {
			return fmt.Errorf("failed to track %s for %s: %w", member, def.ID, err)
		}
		qs.logCompletion(userID, def, progress)
	}
	return nil
}

// ClaimReward pays out a completed quest exactly once. The claim stamp is
// written before the credit; if the credit fails the stamp is reverted so the
// user can retry instead of losing the reward.
func (qs *QuestService) ClaimReward(ctx context.Context, userID, questID string) (*ClaimResult, error) {
	def, ok := qs.catalog.Get(questID)
	if !ok {
		return nil, &repositories.NotFoundError{Entity: "quest", ID: questID}
	}

	if _, err := qs.progressRepo.MarkClaimed(ctx, userID, questID); err != nil {
		var nce *repositories.NotCompletedError
		var ace *repositories.AlreadyClaimedError
		switch {
		case errors.As(err, &nce):
			metrics.QuestClaims.WithLabelValues("not_completed").Inc()
		case errors.As(err, &ace):
			metrics.QuestClaims.WithLabelValues("already_claimed").Inc()
		}
		return nil, err
	}

	wallet, err := qs.walletSvc.Credit(ctx, userID, def.Reward, "quest_reward:"+questID)
	if err != nil {
		metrics.QuestClaims.WithLabelValues("credit_failed").Inc()
		if revertErr := qs.progressRepo.UnmarkClaimed(ctx, userID, questID); revertErr != nil {
			slog.Error("Failed to revert claim after credit failure",
				slog.String("type", "error"),
				slog.String("user_id", userID),
				slog.String("quest_id", questID),
				slog.Any("error", revertErr))
		}
		return nil, fmt.Errorf("failed to credit quest reward: %w", err)
	}

	metrics.QuestClaims.WithLabelValues("success").Inc()
	slog.Info("Quest reward claimed",
		slog.String("user_id", userID),
		slog.String("quest_id", questID),
		slog.Int64("reward", def.Reward))

	return &ClaimResult{
		QuestID: questID,
		Reward:  def.Reward,
		Balance: wallet.Balance,
	}, nil
}

func (qs *QuestService) logCompletion(userID string, def catalog.QuestDefinition, progress *models.QuestProgress) {
	if progress == nil || !progress.Completed() || progress.Claimed() {
		return
	}
	slog.Debug("Quest completed",
		slog.String("user_id", userID),
		slog.String("quest_id", def.ID),
		slog.Int("progress", progress.Progress),
		slog.Int("target", def.Target))
}
