package services

import (
	"context"
	"log/slog"

	"github.com/monstergarden/monstergarden/engine/catalog"
	"github.com/monstergarden/monstergarden/engine/database/models"
)

// actionObjective maps each care action to the objective counting it.
var actionObjective = map[string]string{
	models.ActionFeed:    catalog.ObjectiveFeedMonsters,
	models.ActionPlay:    catalog.ObjectivePlayMonsters,
	models.ActionComfort: catalog.ObjectiveComfortMonsters,
	models.ActionCalm:    catalog.ObjectiveCalmMonsters,
	models.ActionLullaby: catalog.ObjectiveLullabyMonsters,
}

// QuestTracker folds user actions into quest progress. Tracking is
// best-effort: a failed progress write is logged and swallowed so the action
// that triggered it still succeeds.
type QuestTracker struct {
	questService *QuestService
}

func NewQuestTracker(questService *QuestService) *QuestTracker {
	return &QuestTracker{
		questService: questService,
	}
}

// TrackCareAction records one care action on one monster: the per-action
// objective, the total-actions objective and the distinct-monsters objective.
func (qt *QuestTracker) TrackCareAction(ctx context.Context, userID, monsterID, action string) {
	if qt.questService == nil {
		return
	}

	if objective, ok := actionObjective[action]; ok {
		if err := qt.questService.IncrementProgress(ctx, userID, objective, 1); err != nil {
			slog.Debug("Failed to track care action objective",
				slog.String("user_id", userID),
				slog.String("action", action),
				slog.Any("error", err))
		}
	}

	if err := qt.questService.IncrementProgress(ctx, userID, catalog.ObjectiveTotalActions, 1); err != nil {
		slog.Debug("Failed to track total actions",
			slog.String("user_id", userID),
			slog.Any("error", err))
	}

	if err := qt.questService.TrackDistinct(ctx, userID, catalog.ObjectiveCareDistinct, monsterID); err != nil {
		slog.Debug("Failed to track distinct monster care",
			slog.String("user_id", userID),
			slog.String("monster_id", monsterID),
			slog.Any("error", err))
	}
}
